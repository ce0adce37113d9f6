package worker

import (
	"context"
	"seat-reservation/internal/queue"
	"seat-reservation/internal/repository"
	"seat-reservation/pkg/logger"

	"go.uber.org/zap"
)

// AuditWorker 訂閱事件隊列，把預訂審計事件落地到 booking_events 表
type AuditWorker interface {
	Start(ctx context.Context) error
}

type AuditWorkerImpl struct {
	repository repository.AuditRepository
	queue      queue.EventQueue
}

func NewAuditWorker(repository repository.AuditRepository, queue queue.EventQueue) AuditWorker {
	return &AuditWorkerImpl{
		repository: repository,
		queue:      queue,
	}
}

func (w *AuditWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.SubscribeEvents(ctx)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			w.handle(ctx, msg)
		}
	}()
	return nil
}

func (w *AuditWorkerImpl) handle(ctx context.Context, msg queue.Delivery) {
	_, err := w.repository.Create(ctx, msg.Data)
	if err != nil {
		// 資料庫暫時連不上，交回隊列延遲重試
		logger.WithComponent("worker").Warn("persist booking event failed",
			zap.String("booking_ref", msg.Data.BookingRef.String()),
			zap.String("action", string(msg.Data.Action)),
			zap.Error(err))
		msg.Nack(true)
		return
	}
	msg.Ack()
}
