package services

import (
	"context"
	"seat-reservation/internal/model"

	"github.com/stretchr/testify/mock"
)

type BookingServiceMock struct {
	mock.Mock
}

func NewBookingServiceMock() *BookingServiceMock {
	return &BookingServiceMock{}
}

func (m *BookingServiceMock) GetAvailableSeats(ctx context.Context) ([]*model.Seat, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Seat), args.Error(1)
}

func (m *BookingServiceMock) BookSeats(ctx context.Context, userID int, seatIDs []int) (*model.BookingConfirmation, error) {
	args := m.Called(ctx, userID, seatIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BookingConfirmation), args.Error(1)
}

func (m *BookingServiceMock) AutoBook(ctx context.Context, userID int, count int) (*model.BookingConfirmation, error) {
	args := m.Called(ctx, userID, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BookingConfirmation), args.Error(1)
}

func (m *BookingServiceMock) CancelBooking(ctx context.Context, userID int, seatIDs []int) error {
	args := m.Called(ctx, userID, seatIDs)
	return args.Error(0)
}

func (m *BookingServiceMock) ListBookingEvents(ctx context.Context, limit int) ([]*model.BookingEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.BookingEvent), args.Error(1)
}
