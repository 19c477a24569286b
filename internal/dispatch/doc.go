// Package dispatch provides the delivery contexts that completion
// callbacks run on: the process's single UI-affine main context and any
// number of named FIFO work queues.
//
// A Target selects where a completion runs. Main() is the UI-affine
// context, executed by whichever MainContext implementation the process
// designated (a standalone Loop, or a TUI's update loop). ToQueue(name)
// is an ordinary named queue with one worker goroutine draining it in
// enqueue order.
//
// Main() and ToQueue("main") are not the same target. The former is the
// designated main-context executor with its serialization discipline and
// blocking hand-off; the latter is a regular queue that happens to carry
// the default queue name. Callers that want the UI-affine context must
// say Main().
//
// Handing work to the main context blocks the caller until the work has
// run (Loop.Perform). Handing work to a named queue returns as soon as
// the work is enqueued (Queue.Enqueue). That difference is part of the
// contract, not an implementation detail.
package dispatch
