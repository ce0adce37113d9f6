package service

import (
	"context"
	"seat-reservation/internal/allocation"
	"seat-reservation/internal/cache"
	"seat-reservation/internal/model"
	"seat-reservation/internal/queue"
	"seat-reservation/internal/repository"
	apperrors "seat-reservation/pkg/app_errors"
	"seat-reservation/pkg/logger"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type BookingService interface {
	// 讀取全部座位與佔用狀態（最終一致快照即可，不開交易）
	GetAvailableSeats(ctx context.Context) ([]*model.Seat, error)
	// 預訂指定座位（單一交易內 re-check + mutate）
	BookSeats(ctx context.Context, userID int, seatIDs []int) (*model.BookingConfirmation, error)
	// 自動挑選最佳座位並預訂
	AutoBook(ctx context.Context, userID int, count int) (*model.BookingConfirmation, error)
	// 取消預訂（同一交易內驗證所有權）
	CancelBooking(ctx context.Context, userID int, seatIDs []int) error
	ListBookingEvents(ctx context.Context, limit int) ([]*model.BookingEvent, error)
}

type BookingServiceImpl struct {
	pool            *pgxpool.Pool
	seatRepository  repository.SeatRepository
	auditRepository repository.AuditRepository
	snapshotCache   cache.SeatAvailabilityCache
	eventQueue      queue.EventQueue
}

// NewBookingService 建立預訂服務。snapshotCache 與 eventQueue 可為 nil，
// nil 時分別退化成直接查 DB、不發審計事件（測試用）。
func NewBookingService(
	pool *pgxpool.Pool,
	seatRepository repository.SeatRepository,
	auditRepository repository.AuditRepository,
	snapshotCache cache.SeatAvailabilityCache,
	eventQueue queue.EventQueue,
) BookingService {
	return &BookingServiceImpl{
		pool:            pool,
		seatRepository:  seatRepository,
		auditRepository: auditRepository,
		snapshotCache:   snapshotCache,
		eventQueue:      eventQueue,
	}
}

func (s *BookingServiceImpl) GetAvailableSeats(ctx context.Context) ([]*model.Seat, error) {
	if s.snapshotCache != nil {
		seats, err := s.snapshotCache.Get(ctx)
		if err == nil {
			return seats, nil
		}
	}

	seats, err := s.seatRepository.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.snapshotCache != nil {
		if err := s.snapshotCache.Set(ctx, seats); err != nil {
			logger.WithComponent("service").Warn("set seat snapshot cache failed", zap.Error(err))
		}
	}

	return seats, nil
}

// validateSeatIDs 在任何交易開始前擋掉格式錯誤的輸入
func validateSeatIDs(seatIDs []int) error {
	if len(seatIDs) < model.MinSeatsPerBooking || len(seatIDs) > model.MaxSeatsPerBooking {
		return apperrors.ErrInvalidSeatCount
	}
	if hasDuplicates(seatIDs) {
		return apperrors.ErrDuplicateSeatID
	}
	return nil
}

func hasDuplicates(seatIDs []int) bool {
	seen := make(map[int]struct{}, len(seatIDs))
	for _, id := range seatIDs {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}

func (s *BookingServiceImpl) BookSeats(ctx context.Context, userID int, seatIDs []int) (*model.BookingConfirmation, error) {
	if err := validateSeatIDs(seatIDs); err != nil {
		return nil, err
	}

	// 不存在的座位 id 在開交易前就擋掉；座位不會被刪除，
	// 所以交易內的鎖定計數只是最後防線
	existing, err := s.seatRepository.FindByIDs(ctx, seatIDs)
	if err != nil {
		return nil, err
	}
	if len(existing) != len(seatIDs) {
		return nil, apperrors.ErrSeatNotFound
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	bookedAt, err := s.bookWithinTx(ctx, tx, userID, seatIDs)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	confirmation := &model.BookingConfirmation{
		BookingRef: uuid.New(),
		SeatIDs:    seatIDs,
		BookedAt:   bookedAt,
	}
	s.afterCommit(confirmation.BookingRef, model.BookingEventBooked, userID, seatIDs, bookedAt)

	return confirmation, nil
}

func (s *BookingServiceImpl) AutoBook(ctx context.Context, userID int, count int) (*model.BookingConfirmation, error) {
	if count < model.MinSeatsPerBooking || count > model.MaxSeatsPerBooking {
		return nil, apperrors.ErrInvalidSeatCount
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// 建議性挑選：先拿快照算最佳座位，再鎖定 re-check。
	// 快照與鎖定之間狀態可能改變，bookWithinTx 會擋下衝突。
	snapshot, err := s.seatRepository.ListTx(ctx, tx)
	if err != nil {
		return nil, err
	}

	seatIDs, err := allocation.BestAvailable(snapshot, count)
	if err != nil {
		return nil, err
	}

	bookedAt, err := s.bookWithinTx(ctx, tx, userID, seatIDs)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	confirmation := &model.BookingConfirmation{
		BookingRef: uuid.New(),
		SeatIDs:    seatIDs,
		BookedAt:   bookedAt,
	}
	s.afterCommit(confirmation.BookingRef, model.BookingEventBooked, userID, seatIDs, bookedAt)

	return confirmation, nil
}

// bookWithinTx 在既有交易內鎖定座位、重新檢查佔用狀態後標記預訂。
// FOR UPDATE 鎖讓 re-check 與 mutate 對其他交易不可分割：
// 同一座位的並發預訂最多一個成功，其餘拿到 ErrSeatAlreadyBooked。
func (s *BookingServiceImpl) bookWithinTx(ctx context.Context, tx pgx.Tx, userID int, seatIDs []int) (time.Time, error) {
	locked, err := s.seatRepository.LockByIDs(ctx, tx, seatIDs)
	if err != nil {
		return time.Time{}, err
	}

	if len(locked) != len(seatIDs) {
		return time.Time{}, apperrors.ErrSeatNotFound
	}

	for _, seat := range locked {
		if seat.IsBooked {
			return time.Time{}, apperrors.ErrSeatAlreadyBooked
		}
	}

	bookedAt := time.Now().UTC()
	if err := s.seatRepository.Book(ctx, tx, userID, seatIDs, bookedAt); err != nil {
		return time.Time{}, err
	}

	return bookedAt, nil
}

func (s *BookingServiceImpl) CancelBooking(ctx context.Context, userID int, seatIDs []int) error {
	// 取消沒有 1~7 的張數限制，但空請求與重複 id 仍然拒絕
	if len(seatIDs) == 0 {
		return apperrors.ErrInvalidInput
	}
	if hasDuplicates(seatIDs) {
		return apperrors.ErrDuplicateSeatID
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// 鎖定後計數：所有權驗證跟清除在同一交易內，沒有 TOCTOU 空窗
	if _, err := s.seatRepository.LockByIDs(ctx, tx, seatIDs); err != nil {
		return err
	}

	owned, err := s.seatRepository.CountOwned(ctx, tx, userID, seatIDs)
	if err != nil {
		return err
	}

	// 全有或全無：只要有一個座位不是本人預訂（含根本沒被預訂），整筆拒絕
	if owned != len(seatIDs) {
		return apperrors.ErrNotBookingOwner
	}

	if err := s.seatRepository.Release(ctx, tx, seatIDs); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	s.afterCommit(uuid.New(), model.BookingEventCancelled, userID, seatIDs, time.Now().UTC())

	return nil
}

func (s *BookingServiceImpl) ListBookingEvents(ctx context.Context, limit int) ([]*model.BookingEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.auditRepository.List(ctx, limit)
}

// afterCommit 使快取失效並發佈審計事件。都是 commit 後的 best-effort：
// 失敗只記 log，不影響已完成的預訂。
func (s *BookingServiceImpl) afterCommit(ref uuid.UUID, action model.BookingEventAction, userID int, seatIDs []int, at time.Time) {
	// 使用 context.Background()：請求取消不該留下過期快取
	ctx := context.Background()

	if s.snapshotCache != nil {
		if err := s.snapshotCache.Invalidate(ctx); err != nil {
			logger.WithComponent("service").Warn("invalidate seat snapshot cache failed", zap.Error(err))
		}
	}

	if s.eventQueue != nil {
		event := &model.BookingEvent{
			BookingRef: ref,
			Action:     action,
			UserID:     userID,
			SeatIDs:    seatIDs,
			OccurredAt: at,
		}
		if err := s.eventQueue.PublishEvent(ctx, event); err != nil {
			logger.WithComponent("service").Warn("publish booking event failed",
				zap.String("booking_ref", ref.String()), zap.Error(err))
		}
	}
}
