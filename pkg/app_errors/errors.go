package apperrors

import "errors"

// 錯誤分類：validation / conflict / ownership / storage
// handler 依分類轉換成 HTTP 狀態碼，core 只回傳 sentinel error
var (
	// validation
	ErrInvalidSeatCount = errors.New("number of seats must be between 1 and 7")
	ErrDuplicateSeatID  = errors.New("duplicate seat id in request")
	ErrSeatNotFound     = errors.New("seat not found")
	ErrInvalidInput     = errors.New("invalid input")

	// conflict
	ErrSeatAlreadyBooked = errors.New("some selected seats are already booked")
	ErrNotEnoughSeats    = errors.New("not enough free seats available")

	// ownership
	ErrNotBookingOwner = errors.New("you can only cancel your own bookings")

	ErrUserNotFound = errors.New("user not found")
)

// IsValidation 回報錯誤是否屬於輸入驗證類
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidSeatCount) ||
		errors.Is(err, ErrDuplicateSeatID) ||
		errors.Is(err, ErrSeatNotFound) ||
		errors.Is(err, ErrInvalidInput)
}

// IsConflict 回報錯誤是否屬於預訂衝突類（呼叫端可重新查詢後重試）
func IsConflict(err error) bool {
	return errors.Is(err, ErrSeatAlreadyBooked) || errors.Is(err, ErrNotEnoughSeats)
}

// IsOwnership 回報錯誤是否屬於權限類
func IsOwnership(err error) bool {
	return errors.Is(err, ErrNotBookingOwner)
}
