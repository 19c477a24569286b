package dispatch

import (
	"errors"
	"sort"
	"sync"

	"github.com/okenna/ferry/internal/event"
	"github.com/okenna/ferry/internal/logging"
)

// ErrRegistryClosed is returned by Get after the registry has shut down.
var ErrRegistryClosed = errors.New("dispatch: queue registry closed")

// Registry owns the process's named queues. Queues are created lazily on
// first Get; configured queues can be pre-registered at startup so their
// workers exist before any launch targets them.
type Registry struct {
	mu     sync.Mutex
	queues map[string]*Queue
	closed bool

	logger *logging.Logger
	bus    *event.Bus
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryLogger sets the logger passed to created queues.
func WithRegistryLogger(logger *logging.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithRegistryBus sets the event bus passed to created queues.
func WithRegistryBus(bus *event.Bus) RegistryOption {
	return func(r *Registry) {
		r.bus = bus
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		queues: make(map[string]*Queue),
		logger: logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the queue with the given name, creating it if needed.
// An empty name maps to DefaultQueue.
func (r *Registry) Get(name string) (*Queue, error) {
	if name == "" {
		name = DefaultQueue
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrRegistryClosed
	}
	if q, ok := r.queues[name]; ok {
		return q, nil
	}

	q := NewQueue(name,
		WithQueueLogger(r.logger),
		WithQueueBus(r.bus),
	)
	r.queues[name] = q
	r.logger.Debug("queue created", "queue", name)
	return q, nil
}

// Register pre-creates the named queues. Already-existing names are
// left alone.
func (r *Registry) Register(names ...string) error {
	for _, name := range names {
		if _, err := r.Get(name); err != nil {
			return err
		}
	}
	return nil
}

// Names returns the names of all live queues, sorted.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.queues))
	for name := range r.queues {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close shuts down every queue, draining already-enqueued work, and
// marks the registry closed. Safe to call more than once.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	queues := make([]*Queue, 0, len(r.queues))
	for _, q := range r.queues {
		queues = append(queues, q)
	}
	r.mu.Unlock()

	for _, q := range queues {
		q.Close()
	}
}
