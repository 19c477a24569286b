package bridge

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okenna/ferry/internal/dispatch"
	"github.com/okenna/ferry/internal/event"
	"github.com/okenna/ferry/internal/logging"
	"github.com/okenna/ferry/internal/outcome"
)

// Bridge owns the wiring between launches and their delivery contexts.
// It is safe for concurrent use; a single Bridge serves the whole
// process.
type Bridge struct {
	main   dispatch.MainContext
	queues *dispatch.Registry
	bus    *event.Bus
	logger *logging.Logger

	nextID atomic.Uint64
	wg     sync.WaitGroup
}

// New creates a Bridge.
//
// main and queues must be non-nil. Passing nil will panic early to
// surface wiring bugs immediately.
func New(main dispatch.MainContext, queues *dispatch.Registry, opts ...Option) *Bridge {
	if main == nil {
		panic("bridge: MainContext must not be nil")
	}
	if queues == nil {
		panic("bridge: queue Registry must not be nil")
	}

	cfg := &config{
		logger: logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logging.NopLogger()
	}

	return &Bridge{
		main:   main,
		queues: queues,
		bus:    cfg.bus,
		logger: cfg.logger.WithComponent("bridge"),
	}
}

// Wait blocks until every launch started so far has handed off its
// completion. Used at shutdown, before closing the queues.
func (b *Bridge) Wait() {
	b.wg.Wait()
}

// newHandle applies launch options and allocates the per-launch context.
func (b *Bridge) newHandle(opts ...LaunchOption) *Handle {
	var spec launchSpec
	for _, opt := range opts {
		opt(&spec)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Handle{
		id:       fmt.Sprintf("launch-%d", b.nextID.Add(1)),
		label:    spec.label,
		priority: spec.priority,
		target:   spec.target,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// started logs and publishes the launch.started event. Called on the
// launch goroutine immediately before the operation is invoked.
func (b *Bridge) started(h *Handle) {
	b.logger.WithLaunch(h.id).Debug("launch started",
		"label", h.label,
		"target", h.target.String(),
		"priority", h.priority)
	if b.bus != nil {
		b.bus.Publish(event.NewLaunchStartedEvent(h.id, h.label, h.target.String(), h.priority))
	}
}

// finished logs and publishes the launch.finished event after the
// completion has been handed to the delivery target.
func (b *Bridge) finished(h *Handle, err error, duration time.Duration) {
	log := b.logger.WithLaunch(h.id)
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
		if outcome.IsCanceled(err) {
			log.Info("launch canceled", "label", h.label, "duration", duration.String())
		} else {
			log.Warn("launch failed", "label", h.label, "error", errMsg, "duration", duration.String())
		}
	} else {
		log.Debug("launch finished", "label", h.label, "duration", duration.String())
	}
	if b.bus != nil {
		b.bus.Publish(event.NewLaunchFinishedEvent(
			h.id, h.label, h.target.String(),
			err == nil, outcome.IsCanceled(err), errMsg, duration))
	}
}

// deliver hands the completion to the launch's target. Main delivery
// blocks until the completion has run; queue delivery returns once the
// completion is enqueued. A shut-down target drops the completion with
// a logged warning; there is no error channel left to report on.
func (b *Bridge) deliver(h *Handle, completion func()) {
	log := b.logger.WithLaunch(h.id)

	if h.target.IsMain() {
		if err := b.main.Perform(completion); err != nil {
			log.Warn("completion dropped, main context closed", "label", h.label)
		}
		return
	}

	name, _ := h.target.QueueName()
	q, err := b.queues.Get(name)
	if err != nil {
		log.Warn("completion dropped, queue registry closed",
			"label", h.label, "queue", name)
		return
	}
	if err := q.Enqueue(completion); err != nil {
		log.Warn("completion dropped, queue closed",
			"label", h.label, "queue", name)
	}
}

// run drives one launch on its own goroutine: invoke the operation via
// capture, hand the completion to the target, then publish the finished
// event and release Done.
func (b *Bridge) run(h *Handle, capture func(context.Context) (func(), error)) {
	defer b.wg.Done()
	defer close(h.done)
	defer h.cancel()

	b.started(h)
	start := time.Now()

	completion, err := capture(h.ctx)
	duration := time.Since(start)

	b.deliver(h, completion)
	b.finished(h, err, duration)
}
