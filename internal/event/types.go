// Package event defines event types for decoupling components in ferry.
// These events let the TUI and logging observe launch lifecycles without
// depending on the bridge directly.
package event

import "time"

// Event is the interface that all events must implement.
// It provides a common way to identify and timestamp events.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "launch.started", "queue.closed")
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

// newBaseEvent creates a baseEvent with the current time.
func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Launch Lifecycle Events
// -----------------------------------------------------------------------------

// LaunchStartedEvent is emitted when an operation begins execution.
type LaunchStartedEvent struct {
	baseEvent
	LaunchID string // Unique identifier for the launch
	Label    string // Caller-supplied label for correlation
	Target   string // Delivery target, "main" or "queue:<name>"
	Priority int    // Caller-supplied priority hint
}

// NewLaunchStartedEvent creates a LaunchStartedEvent.
func NewLaunchStartedEvent(launchID, label, target string, priority int) LaunchStartedEvent {
	return LaunchStartedEvent{
		baseEvent: newBaseEvent("launch.started"),
		LaunchID:  launchID,
		Label:     label,
		Target:    target,
		Priority:  priority,
	}
}

// LaunchFinishedEvent is emitted after a launch's completion has been
// handed to its delivery target.
type LaunchFinishedEvent struct {
	baseEvent
	LaunchID string        // Unique identifier for the launch
	Label    string        // Caller-supplied label for correlation
	Target   string        // Delivery target, "main" or "queue:<name>"
	Success  bool          // Whether the operation produced a value
	Canceled bool          // Whether the failure was a cancellation
	Error    string        // Error message (if failed)
	Duration time.Duration // Operation wall time
}

// NewLaunchFinishedEvent creates a LaunchFinishedEvent.
func NewLaunchFinishedEvent(launchID, label, target string, success, canceled bool, errMsg string, duration time.Duration) LaunchFinishedEvent {
	return LaunchFinishedEvent{
		baseEvent: newBaseEvent("launch.finished"),
		LaunchID:  launchID,
		Label:     label,
		Target:    target,
		Success:   success,
		Canceled:  canceled,
		Error:     errMsg,
		Duration:  duration,
	}
}

// -----------------------------------------------------------------------------
// Queue Events
// -----------------------------------------------------------------------------

// QueueOpenedEvent is emitted when a named queue's worker starts.
type QueueOpenedEvent struct {
	baseEvent
	Queue string // Queue name
}

// NewQueueOpenedEvent creates a QueueOpenedEvent.
func NewQueueOpenedEvent(queue string) QueueOpenedEvent {
	return QueueOpenedEvent{
		baseEvent: newBaseEvent("queue.opened"),
		Queue:     queue,
	}
}

// QueueClosedEvent is emitted when a named queue has drained and stopped.
type QueueClosedEvent struct {
	baseEvent
	Queue   string // Queue name
	Drained int    // Number of callbacks run over the queue's lifetime
}

// NewQueueClosedEvent creates a QueueClosedEvent.
func NewQueueClosedEvent(queue string, drained int) QueueClosedEvent {
	return QueueClosedEvent{
		baseEvent: newBaseEvent("queue.closed"),
		Queue:     queue,
		Drained:   drained,
	}
}

// -----------------------------------------------------------------------------
// Config Events
// -----------------------------------------------------------------------------

// ConfigReloadedEvent is emitted when the config watcher applies a new
// configuration from disk.
type ConfigReloadedEvent struct {
	baseEvent
	Path string // Config file path
}

// NewConfigReloadedEvent creates a ConfigReloadedEvent.
func NewConfigReloadedEvent(path string) ConfigReloadedEvent {
	return ConfigReloadedEvent{
		baseEvent: newBaseEvent("config.reloaded"),
		Path:      path,
	}
}
