package bus

import (
	"context"
	"sync/atomic"

	"github.com/yanun0323/errors"

	"main/internal/schema"
)

var (
	ErrQueueFull   = errors.New("notification queue full")
	ErrQueueClosed = errors.New("notification queue closed")
)

// Queue is a bounded, non-blocking notification queue. The registry
// publishes every state transition to it; consumers such as the
// Postgres mirror drain it with Run.
type Queue struct {
	ch     chan schema.Note
	closed uint32
}

// NewQueue allocates a queue with the given capacity.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 1
	}
	return &Queue{ch: make(chan schema.Note, capacity)}
}

// TryPublish enqueues a notification without blocking.
func (q *Queue) TryPublish(n schema.Note) error {
	if atomic.LoadUint32(&q.closed) != 0 {
		return ErrQueueClosed
	}
	select {
	case q.ch <- n:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops the queue from accepting new notifications. Close must
// not run concurrently with TryPublish: publishers stop before
// shutdown closes the queue.
func (q *Queue) Close() {
	if atomic.CompareAndSwapUint32(&q.closed, 0, 1) {
		close(q.ch)
	}
}

// Run consumes notifications until the context is done or the queue is
// closed and drained.
func (q *Queue) Run(ctx context.Context, handler func(schema.Note)) {
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-q.ch:
			if !ok {
				return
			}
			handler(n)
		}
	}
}
