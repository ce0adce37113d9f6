package repository

import (
	"context"
	"seat-reservation/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AuditRepository interface {
	Create(ctx context.Context, event *model.BookingEvent) (*model.BookingEvent, error)
	List(ctx context.Context, limit int) ([]*model.BookingEvent, error)
}

type AuditRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &AuditRepositoryImpl{
		pool: pool,
	}
}

func (r *AuditRepositoryImpl) Create(ctx context.Context, event *model.BookingEvent) (*model.BookingEvent, error) {
	query := `
		INSERT INTO booking_events (booking_ref, action, user_id, seat_ids, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		event.BookingRef.String(), event.Action, event.UserID, event.SeatIDs, event.OccurredAt,
	).Scan(&event.ID)

	if err != nil {
		return nil, err
	}

	return event, nil
}

func (r *AuditRepositoryImpl) List(ctx context.Context, limit int) ([]*model.BookingEvent, error) {
	query := `
		SELECT id, booking_ref, action, user_id, seat_ids, occurred_at
		FROM booking_events
		ORDER BY occurred_at DESC, id DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*model.BookingEvent, 0)

	for rows.Next() {
		var event model.BookingEvent
		var ref string
		err := rows.Scan(
			&event.ID,
			&ref,
			&event.Action,
			&event.UserID,
			&event.SeatIDs,
			&event.OccurredAt,
		)
		if err != nil {
			return nil, err
		}
		event.BookingRef, err = uuid.Parse(ref)
		if err != nil {
			return nil, err
		}
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
