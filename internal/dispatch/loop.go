package dispatch

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"

	"github.com/okenna/ferry/internal/logging"
)

// ErrMainClosed is returned by Perform when the main context has shut
// down and will never run the submitted function.
var ErrMainClosed = errors.New("dispatch: main context closed")

// MainContext is anything able to run a function on the process's
// UI-affine context. Perform blocks the caller until fn has executed on
// that context, or returns ErrMainClosed if the context has shut down
// permanently. Implementations run submissions one at a time in
// submission order.
type MainContext interface {
	Perform(fn func()) error
}

// submission is one unit of work handed to a Loop. done carries the
// hand-off result back to the blocked Perform caller.
type submission struct {
	fn   func()
	done chan error
}

// Loop is a standalone MainContext: a serialized run loop that executes
// submitted functions on the goroutine that calls Run. It is the
// headless stand-in for a UI event loop.
type Loop struct {
	mu     sync.Mutex
	queue  []submission
	wake   chan struct{}
	closed bool
	logger *logging.Logger
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithLoopLogger sets the logger used for recovered panics.
func WithLoopLogger(logger *logging.Logger) LoopOption {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoop creates a Loop. It does nothing until Run is called.
func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		wake:   make(chan struct{}, 1),
		logger: logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Perform submits fn to the loop and blocks until it has run.
// Returns ErrMainClosed if the loop has shut down, or shuts down before
// fn is reached during drain.
func (l *Loop) Perform(fn func()) error {
	sub := submission{fn: fn, done: make(chan error, 1)}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrMainClosed
	}
	l.queue = append(l.queue, sub)
	l.mu.Unlock()

	l.signal()
	return <-sub.done
}

// Run executes submitted work on the calling goroutine until ctx is
// done. Work already submitted when ctx fires is drained before Run
// returns; submissions arriving after the drain get ErrMainClosed.
func (l *Loop) Run(ctx context.Context) {
	for {
		batch := l.take()
		for _, sub := range batch {
			l.runOne(sub)
		}

		select {
		case <-ctx.Done():
			l.shutdown()
			return
		case <-l.wake:
		}
	}
}

// take removes and returns all currently queued submissions.
func (l *Loop) take() []submission {
	l.mu.Lock()
	defer l.mu.Unlock()
	batch := l.queue
	l.queue = nil
	return batch
}

// runOne executes a single submission, recovering panics so one bad
// callback cannot kill the loop, then releases the blocked caller.
func (l *Loop) runOne(sub submission) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("main-context callback panicked",
				"panic", r,
				"stack", string(debug.Stack()))
		}
		sub.done <- nil
	}()
	sub.fn()
}

// shutdown drains remaining work, then fails any submissions that raced
// in after the drain.
func (l *Loop) shutdown() {
	for _, sub := range l.take() {
		l.runOne(sub)
	}

	l.mu.Lock()
	l.closed = true
	orphans := l.queue
	l.queue = nil
	l.mu.Unlock()

	for _, sub := range orphans {
		sub.done <- ErrMainClosed
	}
}

// signal wakes the run loop without blocking the caller.
func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}
