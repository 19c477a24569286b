package dispatch

// DefaultQueue is the name used when a queue target is requested with an
// empty name. It is an ordinary queue, distinct from the main context.
const DefaultQueue = "main"

type targetKind int

const (
	kindMain targetKind = iota // zero value: the main context
	kindQueue
)

// Target selects the delivery context for a completion callback.
// The zero Target is Main(). Targets are comparable with ==.
type Target struct {
	kind  targetKind
	queue string
}

// Main returns the Target for the UI-affine main context.
func Main() Target {
	return Target{kind: kindMain}
}

// ToQueue returns the Target for the named FIFO queue.
// An empty name maps to DefaultQueue.
func ToQueue(name string) Target {
	if name == "" {
		name = DefaultQueue
	}
	return Target{kind: kindQueue, queue: name}
}

// IsMain reports whether the target is the main context.
func (t Target) IsMain() bool { return t.kind == kindMain }

// QueueName returns the queue name for a queue target and true, or
// "" and false for the main context.
func (t Target) QueueName() (string, bool) {
	if t.kind != kindQueue {
		return "", false
	}
	return t.queue, true
}

// String renders the target for logs and events.
func (t Target) String() string {
	if t.kind == kindMain {
		return "main"
	}
	return "queue:" + t.queue
}

// ParseTarget maps a config-file target string to a Target.
// "ui" (and the empty string) select the main context; any other string
// names a queue. Note that "main" therefore selects the queue named
// "main", not the main context.
func ParseTarget(s string) Target {
	if s == "" || s == "ui" {
		return Main()
	}
	return ToQueue(s)
}
