package model

import (
	"time"

	"github.com/google/uuid"
)

// BookSeatsRequest 預訂請求。SeatIDs 與 Count 擇一：
// SeatIDs 指定座位，Count 由系統自動挑選
type BookSeatsRequest struct {
	SeatIDs []int `json:"seat_ids"`
	Count   int   `json:"count"`
}

// CancelBookingRequest 取消預訂請求
type CancelBookingRequest struct {
	SeatIDs []int `json:"seat_ids" binding:"required"`
}

// BookingConfirmation 預訂成功回應
type BookingConfirmation struct {
	BookingRef uuid.UUID `json:"booking_ref"`
	SeatIDs    []int     `json:"seat_ids"`
	BookedAt   time.Time `json:"booked_at"`
}

// BookingEventAction 審計事件類型
type BookingEventAction string

const (
	BookingEventBooked    BookingEventAction = "booked"
	BookingEventCancelled BookingEventAction = "cancelled"
)

// BookingEvent 預訂審計事件，於交易 commit 後發佈到事件隊列，
// 由 worker 非同步寫入 booking_events 表
type BookingEvent struct {
	ID         int                `json:"id,omitempty" db:"id"`
	BookingRef uuid.UUID          `json:"booking_ref" db:"booking_ref"`
	Action     BookingEventAction `json:"action" db:"action"`
	UserID     int                `json:"user_id" db:"user_id"`
	SeatIDs    []int              `json:"seat_ids" db:"seat_ids"`
	OccurredAt time.Time          `json:"occurred_at" db:"occurred_at"`
}
