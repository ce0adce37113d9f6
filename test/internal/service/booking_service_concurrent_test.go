package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"seat-reservation/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 核心正確性：多個請求搶同一組座位，最多一個成功
func TestConcurrentBookSeats_AtMostOneWinner(t *testing.T) {
	cleanup := setupTestWithTruncate(t)
	defer cleanup()

	ctx := context.Background()
	svc := newTestBookingService()

	concurrentUsers := 20
	seatIDs := []int{30, 31}

	userIDs := make([]int, concurrentUsers)
	for i := 0; i < concurrentUsers; i++ {
		userIDs[i] = createTestUser(t, fmt.Sprintf("race%d@test.com", i))
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	successCount := 0
	failCount := 0
	winner := -1

	for i := 0; i < concurrentUsers; i++ {
		wg.Add(1)
		go func(userIndex int) {
			defer wg.Done()

			_, err := svc.BookSeats(ctx, userIDs[userIndex], seatIDs)

			mu.Lock()
			if err == nil {
				successCount++
				winner = userIDs[userIndex]
			} else {
				failCount++
			}
			mu.Unlock()
		}(i)
	}

	wg.Wait()

	t.Logf("%d users competing for seats %v - Success: %d, Failed: %d",
		concurrentUsers, seatIDs, successCount, failCount)

	assert.Equal(t, 1, successCount, "exactly one booking should win")
	assert.Equal(t, concurrentUsers-1, failCount)

	// 座位必須屬於唯一的贏家
	for _, id := range seatIDs {
		isBooked, bookedBy := seatState(t, id)
		assert.True(t, isBooked)
		require.NotNil(t, bookedBy)
		assert.Equal(t, winner, *bookedBy)
	}
}

// 自動挑選在並發下不能把同一座位分給兩個人
func TestConcurrentAutoBook_NoDoubleBooking(t *testing.T) {
	cleanup := setupTestWithTruncate(t)
	defer cleanup()

	ctx := context.Background()
	svc := newTestBookingService()

	concurrentUsers := 40
	seatsPerUser := 2

	userIDs := make([]int, concurrentUsers)
	for i := 0; i < concurrentUsers; i++ {
		userIDs[i] = createTestUser(t, fmt.Sprintf("auto%d@test.com", i))
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	successCount := 0
	bookedByUser := make(map[int][]int)

	for i := 0; i < concurrentUsers; i++ {
		wg.Add(1)
		go func(userIndex int) {
			defer wg.Done()

			confirmation, err := svc.AutoBook(ctx, userIDs[userIndex], seatsPerUser)

			mu.Lock()
			if err == nil {
				successCount++
				bookedByUser[userIDs[userIndex]] = confirmation.SeatIDs
			}
			mu.Unlock()
		}(i)
	}

	wg.Wait()

	t.Logf("%d concurrent auto-bookings of %d seats - Success: %d",
		concurrentUsers, seatsPerUser, successCount)

	// 建議性挑選可能在鎖定時撞到別人剛訂走的座位而失敗，
	// 但成功的預訂之間絕不能共用任何座位
	assigned := make(map[int]int)
	for userID, seatIDs := range bookedByUser {
		for _, seatID := range seatIDs {
			prev, taken := assigned[seatID]
			assert.False(t, taken, "seat %d assigned to both user %d and user %d", seatID, prev, userID)
			assigned[seatID] = userID
		}
	}

	// DB 中被佔用的座位數必須與成功筆數一致，且每席歸屬正確
	seats, err := svc.GetAvailableSeats(ctx)
	require.NoError(t, err)

	booked := 0
	for _, seat := range seats {
		assert.True(t, seat.Consistent())
		if seat.IsBooked {
			booked++
			owner, ok := assigned[seat.ID]
			require.True(t, ok, "booked seat %d has no recorded winner", seat.ID)
			assert.Equal(t, owner, *seat.BookedBy)
		}
	}
	assert.Equal(t, successCount*seatsPerUser, booked)
	assert.LessOrEqual(t, booked, model.TotalSeatCount)
}
