// Package outcome models the terminal result of an asynchronous operation.
// An operation ends in exactly one Result: success carrying a value, or
// failure carrying a non-nil error. Cancellation is not a separate signal
// path; a cancelled operation reports an ordinary failure whose error
// matches context.Canceled.
package outcome

import (
	"context"
	"errors"
	"fmt"
)

// Result is the terminal outcome of a single operation invocation.
// The zero Result is a success carrying the zero value of T.
type Result[T any] struct {
	value T
	err   error
}

// Success returns a Result carrying v.
func Success[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Failure returns a Result carrying err.
// A nil err is a programming error and panics: a failure without an error
// would be indistinguishable from a zero-value success.
func Failure[T any](err error) Result[T] {
	if err != nil {
		return Result[T]{err: err}
	}
	panic("outcome: Failure called with nil error")
}

// Value returns the carried value. For a failure it returns the zero value.
func (r Result[T]) Value() T { return r.value }

// Err returns the carried error, nil for a success.
func (r Result[T]) Err() error { return r.err }

// Unpack returns the value and error as an ordinary Go pair.
func (r Result[T]) Unpack() (T, error) { return r.value, r.err }

// IsFailure reports whether the result carries an error.
func (r Result[T]) IsFailure() bool { return r.err != nil }

// IsCanceled reports whether the result's error indicates cancellation.
func (r Result[T]) IsCanceled() bool { return IsCanceled(r.err) }

// String renders the result for logs and debug output.
func (r Result[T]) String() string {
	if r.err != nil {
		return fmt.Sprintf("failure(%v)", r.err)
	}
	return fmt.Sprintf("success(%v)", r.value)
}

// IsCanceled reports whether err represents cooperative cancellation.
// Operations that choose to honor their context's cancellation return an
// error matching context.Canceled, possibly wrapped.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// PanicError folds a panic that escaped an operation into the failure
// channel. Value is the recovered panic value and Stack the goroutine
// stack captured at recovery time.
type PanicError struct {
	Value any
	Stack []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("operation panicked: %v", e.Value)
}
