package dispatch

import (
	"errors"
	"runtime/debug"
	"sync"

	"github.com/okenna/ferry/internal/event"
	"github.com/okenna/ferry/internal/logging"
)

// ErrQueueClosed is returned by Enqueue after Close has been called.
var ErrQueueClosed = errors.New("dispatch: queue closed")

// Queue is a named FIFO work queue drained by a single worker goroutine.
// Enqueue never blocks on the drain; callbacks run one at a time in
// enqueue order. The queue is unbounded.
type Queue struct {
	name string

	mu     sync.Mutex
	items  []func()
	closed bool

	wake   chan struct{}
	exited chan struct{}

	drained int // callbacks run; worker goroutine only

	logger *logging.Logger
	bus    *event.Bus
}

// QueueOption configures a Queue.
type QueueOption func(*Queue)

// WithQueueLogger sets the logger used for recovered callback panics.
func WithQueueLogger(logger *logging.Logger) QueueOption {
	return func(q *Queue) {
		if logger != nil {
			q.logger = logger.WithQueue(q.name)
		}
	}
}

// WithQueueBus sets the event bus for queue lifecycle events.
func WithQueueBus(bus *event.Bus) QueueOption {
	return func(q *Queue) {
		q.bus = bus
	}
}

// NewQueue creates a queue and starts its worker goroutine.
// An empty name maps to DefaultQueue.
func NewQueue(name string, opts ...QueueOption) *Queue {
	if name == "" {
		name = DefaultQueue
	}
	q := &Queue{
		name:   name,
		wake:   make(chan struct{}, 1),
		exited: make(chan struct{}),
		logger: logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(q)
	}

	if q.bus != nil {
		q.bus.Publish(event.NewQueueOpenedEvent(q.name))
	}
	go q.work()
	return q
}

// Name returns the queue's name.
func (q *Queue) Name() string { return q.name }

// Enqueue appends fn to the queue and returns immediately.
// Returns ErrQueueClosed after Close.
func (q *Queue) Enqueue(fn func()) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	q.items = append(q.items, fn)
	q.mu.Unlock()

	q.signal()
	return nil
}

// Close stops the queue after draining already-enqueued work and waits
// for the worker to exit. Safe to call more than once.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.exited
		return
	}
	q.closed = true
	q.mu.Unlock()

	q.signal()
	<-q.exited

	if q.bus != nil {
		q.bus.Publish(event.NewQueueClosedEvent(q.name, q.drained))
	}
}

// work is the single worker goroutine. It drains batches in FIFO order
// and exits once the queue is closed and empty.
func (q *Queue) work() {
	defer close(q.exited)

	for {
		q.mu.Lock()
		batch := q.items
		q.items = nil
		closed := q.closed
		q.mu.Unlock()

		for _, fn := range batch {
			q.runOne(fn)
		}

		if closed {
			// A racing Enqueue may have lost to Close; nothing more can
			// arrive now, so one final sweep empties the queue.
			q.mu.Lock()
			batch = q.items
			q.items = nil
			q.mu.Unlock()
			for _, fn := range batch {
				q.runOne(fn)
			}
			return
		}

		<-q.wake
	}
}

// runOne executes one callback, recovering panics so a bad callback
// cannot kill the worker.
func (q *Queue) runOne(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("queue callback panicked",
				"queue", q.name,
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	q.drained++
	fn()
}

// signal wakes the worker without blocking the caller.
func (q *Queue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}
