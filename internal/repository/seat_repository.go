package repository

import (
	"context"
	"seat-reservation/internal/model"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SeatRepository interface {
	List(ctx context.Context) ([]*model.Seat, error)
	FindByIDs(ctx context.Context, ids []int) ([]*model.Seat, error)

	// Transaction methods
	ListTx(ctx context.Context, tx pgx.Tx) ([]*model.Seat, error)
	LockByIDs(ctx context.Context, tx pgx.Tx, ids []int) ([]*model.Seat, error)
	Book(ctx context.Context, tx pgx.Tx, userID int, ids []int, at time.Time) error
	Release(ctx context.Context, tx pgx.Tx, ids []int) error
	CountOwned(ctx context.Context, tx pgx.Tx, userID int, ids []int) (int, error)
}

type SeatRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewSeatRepository(pool *pgxpool.Pool) SeatRepository {
	return &SeatRepositoryImpl{
		pool: pool,
	}
}

const seatColumns = "id, seat_number, row_number, is_booked, booked_by, booking_time"

func scanSeats(rows pgx.Rows) ([]*model.Seat, error) {
	seats := make([]*model.Seat, 0)

	for rows.Next() {
		var seat model.Seat
		err := rows.Scan(
			&seat.ID,
			&seat.SeatNumber,
			&seat.RowNumber,
			&seat.IsBooked,
			&seat.BookedBy,
			&seat.BookingTime,
		)
		if err != nil {
			return nil, err
		}
		seats = append(seats, &seat)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}

func (r *SeatRepositoryImpl) List(ctx context.Context) ([]*model.Seat, error) {
	query := `
		SELECT ` + seatColumns + `
		FROM seats
		ORDER BY row_number, seat_number
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSeats(rows)
}

func (r *SeatRepositoryImpl) FindByIDs(ctx context.Context, ids []int) ([]*model.Seat, error) {
	query := `
		SELECT ` + seatColumns + `
		FROM seats
		WHERE id = ANY($1)
		ORDER BY row_number, seat_number
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSeats(rows)
}

func (r *SeatRepositoryImpl) ListTx(ctx context.Context, tx pgx.Tx) ([]*model.Seat, error) {
	query := `
		SELECT ` + seatColumns + `
		FROM seats
		ORDER BY row_number, seat_number
	`

	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSeats(rows)
}

// LockByIDs 鎖定指定座位列（FOR UPDATE），是 check-then-mutate 不可分割性的基礎。
// 以 id 排序鎖定，避免交錯順序造成死鎖。
func (r *SeatRepositoryImpl) LockByIDs(ctx context.Context, tx pgx.Tx, ids []int) ([]*model.Seat, error) {
	query := `
		SELECT ` + seatColumns + `
		FROM seats
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE
	`

	rows, err := tx.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSeats(rows)
}

func (r *SeatRepositoryImpl) Book(ctx context.Context, tx pgx.Tx, userID int, ids []int, at time.Time) error {
	query := `
		UPDATE seats
		SET is_booked = TRUE, booked_by = $1, booking_time = $2
		WHERE id = ANY($3)
	`

	result, err := tx.Exec(ctx, query, userID, at, ids)
	if err != nil {
		return err
	}

	if int(result.RowsAffected()) != len(ids) {
		return pgx.ErrNoRows
	}

	return nil
}

func (r *SeatRepositoryImpl) Release(ctx context.Context, tx pgx.Tx, ids []int) error {
	query := `
		UPDATE seats
		SET is_booked = FALSE, booked_by = NULL, booking_time = NULL
		WHERE id = ANY($1)
	`

	result, err := tx.Exec(ctx, query, ids)
	if err != nil {
		return err
	}

	if int(result.RowsAffected()) != len(ids) {
		return pgx.ErrNoRows
	}

	return nil
}

func (r *SeatRepositoryImpl) CountOwned(ctx context.Context, tx pgx.Tx, userID int, ids []int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM seats
		WHERE id = ANY($1) AND booked_by = $2
	`

	var count int
	err := tx.QueryRow(ctx, query, ids, userID).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}
