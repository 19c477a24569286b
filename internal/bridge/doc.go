// Package bridge launches asynchronous operations and redelivers their
// terminal outcomes to completion callbacks on a caller-chosen delivery
// context.
//
// Each launch runs its operation exactly once on a fresh goroutine with
// a per-launch context for cooperative cancellation, captures the single
// terminal outcome (value, error, or recovered panic), and hands the
// completion to the chosen target: the UI-affine main context (the
// default) or a named FIFO queue.
//
// The two target families differ observably. Main delivery suspends the
// launch goroutine until the completion has run on the main context.
// Queue delivery returns as soon as the completion is enqueued; the
// queue's worker runs it later in FIFO order.
//
// Four entry points cover the four operation shapes. Operations that can
// fail pair with completions that see the error channel; operations that
// cannot fail pair with completions that see only the value, or nothing:
//
//	Launch[T]    func(ctx) (T, error)  →  func(outcome.Result[T])
//	LaunchVoid   func(ctx) error       →  func(error)
//	LaunchValue  func(ctx) T           →  func(T)
//	LaunchNotify func(ctx)             →  func()
//
// Cancellation is advisory: Handle.Cancel cancels the launch context,
// and an operation that honors it reports an error matching
// context.Canceled through the ordinary failure channel. An operation
// that ignores it completes normally.
package bridge
