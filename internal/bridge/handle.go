package bridge

import (
	"context"

	"github.com/okenna/ferry/internal/dispatch"
)

// Handle identifies a single launch and carries its cancellation lever.
type Handle struct {
	id       string
	label    string
	priority int
	target   dispatch.Target

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// Cancel requests cooperative cancellation of the launch's operation.
// The operation observes it through its context; an operation that
// ignores the context completes normally. Safe to call more than once,
// before or after the operation finishes.
func (h *Handle) Cancel() {
	h.cancel()
}

// Done returns a channel closed when the launch's own work is finished:
// for main-context delivery, after the completion has run; for queue
// delivery, as soon as the completion is enqueued.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// ID returns the launch's unique identifier.
func (h *Handle) ID() string { return h.id }

// Label returns the caller-supplied label, if any.
func (h *Handle) Label() string { return h.label }

// Priority returns the caller-supplied priority hint.
func (h *Handle) Priority() int { return h.priority }

// Target returns the delivery target for the completion.
func (h *Handle) Target() dispatch.Target { return h.target }
