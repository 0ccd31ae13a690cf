// Package messagequeue serializes work onto the goroutine that owns the GPU
// context. Producers on any goroutine enqueue functions, the render
// goroutine runs them in order with Drain before each frame.
package messagequeue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

var ErrClosed = errors.New("message queue closed")

// message is one queued function. done is nil for fire-and-forget messages.
type message struct {
	fn   func()
	done chan error
}

// Queue is a multi-producer, single-consumer FIFO of functions
type Queue struct {
	mu      sync.Mutex
	pending []message
	closed  bool

	logger *zap.Logger
}

func New(logger *zap.Logger) *Queue {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Queue{logger: logger}
}

// Put enqueues fn without waiting for it to run
func (q *Queue) Put(fn func()) error {
	return q.enqueue(message{fn: fn})
}

// PutAndWait enqueues fn and blocks until the consumer ran it or ctx is
// done. A panic inside fn is returned as an error. It must not be called
// from the consumer goroutine.
func (q *Queue) PutAndWait(ctx context.Context, fn func()) error {
	done := make(chan error, 1)
	if err := q.enqueue(message{fn: fn, done: done}); err != nil {
		return err
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) enqueue(m message) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	q.pending = append(q.pending, m)
	return nil
}

// Drain runs every message queued before the call, in enqueue order, and
// returns how many ran. Messages enqueued while draining run on the next
// call.
func (q *Queue) Drain() int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, m := range batch {
		err := q.run(m.fn)
		if m.done != nil {
			m.done <- err
		}
	}
	return len(batch)
}

func (q *Queue) run(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("message panicked: %v", r)
			q.logger.Error("message failed", zap.Any("panic", r))
		}
	}()
	fn()
	return nil
}

// Len returns the number of messages waiting for the next Drain
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Close rejects new messages and releases every waiter of a message that
// will now never run.
func (q *Queue) Close() {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.closed = true
	q.mu.Unlock()

	for _, m := range batch {
		if m.done != nil {
			m.done <- ErrClosed
		}
	}
	if len(batch) > 0 {
		q.logger.Warn("message queue closed with pending messages", zap.Int("dropped", len(batch)))
	}
}
