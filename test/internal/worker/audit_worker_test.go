package worker

import (
	"context"
	"testing"
	"time"

	"seat-reservation/internal/model"
	"seat-reservation/internal/queue"
	"seat-reservation/internal/repository"
	"seat-reservation/internal/worker"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type auditRepositoryMock struct {
	mock.Mock
	repository.AuditRepository
}

func (m *auditRepositoryMock) Create(ctx context.Context, event *model.BookingEvent) (*model.BookingEvent, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BookingEvent), args.Error(1)
}

func TestAuditWorker_PersistsEvent(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	q := queue.NewMemoryEventQueue(10)

	persisted := make(chan *model.BookingEvent, 1)
	repo := &auditRepositoryMock{}
	repo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		persisted <- args.Get(1).(*model.BookingEvent)
	}).Return(&model.BookingEvent{ID: 1}, nil)

	w := worker.NewAuditWorker(repo, q)
	assert.NoError(t, w.Start(ctx))

	event := &model.BookingEvent{
		BookingRef: uuid.New(),
		Action:     model.BookingEventBooked,
		UserID:     7,
		SeatIDs:    []int{3, 4},
		OccurredAt: time.Now().UTC(),
	}
	assert.NoError(t, q.PublishEvent(ctx, event))

	select {
	case got := <-persisted:
		assert.Equal(t, event.BookingRef, got.BookingRef)
		assert.Equal(t, []int{3, 4}, got.SeatIDs)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for worker to persist event")
	}
}

func TestAuditWorker_RetriesOnFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	q := queue.NewMemoryEventQueue(10)

	attempts := make(chan struct{}, 2)
	repo := &auditRepositoryMock{}
	// 第一次失敗觸發 Nack(requeue)，第二次成功
	repo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		attempts <- struct{}{}
	}).Return(nil, assert.AnError).Once()
	repo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		attempts <- struct{}{}
	}).Return(&model.BookingEvent{ID: 1}, nil).Once()

	w := worker.NewAuditWorker(repo, q)
	assert.NoError(t, w.Start(ctx))

	assert.NoError(t, q.PublishEvent(ctx, &model.BookingEvent{
		BookingRef: uuid.New(),
		Action:     model.BookingEventCancelled,
		UserID:     7,
		SeatIDs:    []int{9},
		OccurredAt: time.Now().UTC(),
	}))

	for i := 0; i < 2; i++ {
		select {
		case <-attempts:
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for attempt %d", i+1)
		}
	}
	repo.AssertExpectations(t)
}
