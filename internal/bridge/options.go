package bridge

import (
	"github.com/okenna/ferry/internal/dispatch"
	"github.com/okenna/ferry/internal/event"
	"github.com/okenna/ferry/internal/logging"
)

// Option configures a Bridge.
type Option func(*config)

type config struct {
	logger *logging.Logger
	bus    *event.Bus
}

// WithLogger sets the logger for the bridge.
func WithLogger(logger *logging.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithBus sets the event bus for launch lifecycle events.
// Without a bus, no events are published.
func WithBus(bus *event.Bus) Option {
	return func(c *config) {
		c.bus = bus
	}
}

// LaunchOption configures a single launch.
type LaunchOption func(*launchSpec)

type launchSpec struct {
	target   dispatch.Target
	priority int
	label    string
}

// On selects the delivery target for the completion.
// The default is dispatch.Main().
func On(t dispatch.Target) LaunchOption {
	return func(s *launchSpec) {
		s.target = t
	}
}

// WithPriority attaches a priority hint to the launch. The hint is
// recorded on the handle, logged, and forwarded on lifecycle events; it
// has no effect on scheduling or delivery order.
func WithPriority(p int) LaunchOption {
	return func(s *launchSpec) {
		s.priority = p
	}
}

// WithLabel attaches a label for log and event correlation. Labels are
// also what the dispatch.Router matches route patterns against.
func WithLabel(label string) LaunchOption {
	return func(s *launchSpec) {
		s.label = label
	}
}
