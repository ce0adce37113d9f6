package model

import "time"

// 場地配置：11 排每排 7 個座位，最後一排 3 個，共 80 席
const (
	FullRows       = 11
	SeatsPerRow    = 7
	LastRowSeats   = 3
	LastRowNumber  = FullRows + 1
	TotalSeatCount = FullRows*SeatsPerRow + LastRowSeats
)

// 單次預訂的座位數上限
const (
	MinSeatsPerBooking = 1
	MaxSeatsPerBooking = 7
)

// Seat 座位模型。is_booked / booked_by / booking_time 三個欄位
// 必須同時存在或同時為空（tri-state 一致性），只能透過
// BookingService 的交易操作變更。
type Seat struct {
	ID          int        `json:"id" db:"id"`
	SeatNumber  int        `json:"seat_number" db:"seat_number"`
	RowNumber   int        `json:"row_number" db:"row_number"`
	IsBooked    bool       `json:"is_booked" db:"is_booked"`
	BookedBy    *int       `json:"booked_by,omitempty" db:"booked_by"`
	BookingTime *time.Time `json:"booking_time,omitempty" db:"booking_time"`
}

// IsFree 檢查座位是否可預訂
func (s *Seat) IsFree() bool {
	return !s.IsBooked
}

// IsOwnedBy 檢查座位是否由指定使用者預訂
func (s *Seat) IsOwnedBy(userID int) bool {
	return s.IsBooked && s.BookedBy != nil && *s.BookedBy == userID
}

// Consistent 檢查 tri-state 一致性
func (s *Seat) Consistent() bool {
	if s.IsBooked {
		return s.BookedBy != nil && s.BookingTime != nil
	}
	return s.BookedBy == nil && s.BookingTime == nil
}
