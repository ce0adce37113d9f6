package allocation

import (
	"seat-reservation/internal/model"
	apperrors "seat-reservation/pkg/app_errors"
	"sort"
)

// BestAvailable 從座位快照中挑選 n 個最佳座位，不改變任何狀態。
// 兩階段演算法：
//  1. 同排優先：在空位數 >= n 的排當中取排號最小者，選該排
//     座位號最小的 n 個空位。
//  2. 退而求其次：全場依 (排號, 座位號) 順序取前 n 個空位。
//
// 全場空位不足 n 時回傳 ErrNotEnoughSeats，不會回傳部分結果。
// 挑選結果只是建議，commit 前必須在交易內重新鎖定並檢查。
func BestAvailable(seats []*model.Seat, n int) ([]int, error) {
	if n < model.MinSeatsPerBooking || n > model.MaxSeatsPerBooking {
		return nil, apperrors.ErrInvalidSeatCount
	}

	free := make([]*model.Seat, 0, len(seats))
	for _, seat := range seats {
		if seat.IsFree() {
			free = append(free, seat)
		}
	}

	if len(free) < n {
		return nil, apperrors.ErrNotEnoughSeats
	}

	sort.Slice(free, func(i, j int) bool {
		if free[i].RowNumber != free[j].RowNumber {
			return free[i].RowNumber < free[j].RowNumber
		}
		return free[i].SeatNumber < free[j].SeatNumber
	})

	// 同排優先：free 已排序，排號最小且空位足夠的排會最先出現
	byRow := make(map[int][]*model.Seat)
	rowOrder := make([]int, 0)
	for _, seat := range free {
		if _, ok := byRow[seat.RowNumber]; !ok {
			rowOrder = append(rowOrder, seat.RowNumber)
		}
		byRow[seat.RowNumber] = append(byRow[seat.RowNumber], seat)
	}

	for _, row := range rowOrder {
		rowSeats := byRow[row]
		if len(rowSeats) < n {
			continue
		}
		ids := make([]int, 0, n)
		for _, seat := range rowSeats[:n] {
			ids = append(ids, seat.ID)
		}
		return ids, nil
	}

	// 沒有單一排放得下，取全場最前面的 n 個空位
	ids := make([]int, 0, n)
	for _, seat := range free[:n] {
		ids = append(ids, seat.ID)
	}
	return ids, nil
}
