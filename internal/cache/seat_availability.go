package cache

import (
	"context"
	"encoding/json"
	"seat-reservation/internal/model"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	seatListKey = "seats:availability"
	seatListTTL = 5 * time.Second
)

// SeatAvailabilityCache 座位列表的 Redis 快照快取。
// 只服務讀取路徑（getAvailableSeats 容許最終一致），
// 真實狀態永遠以 Postgres 為準，每次 commit 後失效。
type SeatAvailabilityCache interface {
	Get(ctx context.Context) ([]*model.Seat, error)
	Set(ctx context.Context, seats []*model.Seat) error
	Invalidate(ctx context.Context) error
}

type SeatAvailabilityCacheImpl struct {
	client *redis.Client
}

func NewSeatAvailabilityCache(client *redis.Client) SeatAvailabilityCache {
	return &SeatAvailabilityCacheImpl{
		client: client,
	}
}

// Get 回傳快取的座位快照；cache miss 時回傳 redis.Nil
func (c *SeatAvailabilityCacheImpl) Get(ctx context.Context) ([]*model.Seat, error) {
	data, err := c.client.Get(ctx, seatListKey).Bytes()
	if err != nil {
		return nil, err
	}

	var seats []*model.Seat
	if err := json.Unmarshal(data, &seats); err != nil {
		return nil, err
	}

	return seats, nil
}

func (c *SeatAvailabilityCacheImpl) Set(ctx context.Context, seats []*model.Seat) error {
	data, err := json.Marshal(seats)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, seatListKey, data, seatListTTL).Err()
}

func (c *SeatAvailabilityCacheImpl) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, seatListKey).Err()
}
