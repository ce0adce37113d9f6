package database

import (
	"context"
	"fmt"
	"strings"

	"seat-reservation/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
	CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		email VARCHAR(255) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS seats (
		id SERIAL PRIMARY KEY,
		seat_number INTEGER NOT NULL,
		row_number INTEGER NOT NULL,
		is_booked BOOLEAN NOT NULL DEFAULT FALSE,
		booked_by INTEGER REFERENCES users(id),
		booking_time TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS booking_events (
		id SERIAL PRIMARY KEY,
		booking_ref UUID NOT NULL,
		action VARCHAR(16) NOT NULL,
		user_id INTEGER NOT NULL,
		seat_ids INTEGER[] NOT NULL,
		occurred_at TIMESTAMP NOT NULL
	);
`

// InitSchema 建表並播種座位。可重複執行：表已存在就跳過，
// seats 已有資料就不再插入（冪等，重跑不會變成 160 席）。
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}

	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM seats").Scan(&count); err != nil {
		return fmt.Errorf("count seats: %w", err)
	}
	if count > 0 {
		return nil
	}

	// 1~11 排每排 7 席，第 12 排 3 席，id 連續 1~80
	values := make([]string, 0, model.TotalSeatCount)
	for row := 1; row <= model.FullRows; row++ {
		for seat := 1; seat <= model.SeatsPerRow; seat++ {
			values = append(values, fmt.Sprintf("(%d, %d)", seat, row))
		}
	}
	for seat := 1; seat <= model.LastRowSeats; seat++ {
		values = append(values, fmt.Sprintf("(%d, %d)", seat, model.LastRowNumber))
	}

	query := "INSERT INTO seats (seat_number, row_number) VALUES " + strings.Join(values, ", ")
	if _, err := pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("seed seats: %w", err)
	}

	return nil
}
