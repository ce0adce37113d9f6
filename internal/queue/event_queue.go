package queue

import (
	"context"
	"seat-reservation/internal/model"
)

type Delivery struct {
	Data *model.BookingEvent
	Ack  func()
	Nack func(requeue bool)
}

// EventQueue 預訂審計事件隊列。預訂本身同步完成，
// 事件在 commit 之後才發佈，worker 非同步落地
type EventQueue interface {
	PublishEvent(ctx context.Context, event *model.BookingEvent) error
	SubscribeEvents(ctx context.Context) (<-chan Delivery, error)
}

// MemoryEventQueueImpl 使用 Go channel 的記憶體版隊列，單機與測試用
type MemoryEventQueueImpl struct {
	ch chan *model.BookingEvent
}

func NewMemoryEventQueue(bufferSize int) EventQueue {
	return &MemoryEventQueueImpl{
		ch: make(chan *model.BookingEvent, bufferSize),
	}
}

func (q *MemoryEventQueueImpl) PublishEvent(ctx context.Context, event *model.BookingEvent) error {
	select {
	case q.ch <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryEventQueueImpl) SubscribeEvents(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-q.ch:
				if !ok {
					return
				}

				out <- Delivery{
					Data: event,
					Ack:  func() { /* 記憶體版不用做特別動作 */ },
					Nack: func(requeue bool) {
						if requeue {
							q.ch <- event // 簡單模擬重回隊列
						}
					},
				}
			}
		}
	}()

	return out, nil
}
