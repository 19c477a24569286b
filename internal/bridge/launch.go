package bridge

import (
	"context"
	"runtime/debug"

	"github.com/okenna/ferry/internal/outcome"
)

// The entry points are package-level generic functions rather than
// methods because Go methods cannot carry type parameters.

// Launch runs op on a new goroutine and redelivers its Result to
// complete on the launch's target. op receives the launch context and
// is invoked exactly once, even if the handle is cancelled first. A
// panic escaping op is folded into the Result as an *outcome.PanicError.
func Launch[T any](b *Bridge, op func(context.Context) (T, error), complete func(outcome.Result[T]), opts ...LaunchOption) *Handle {
	h := b.newHandle(opts...)
	b.wg.Add(1)
	go b.run(h, func(ctx context.Context) (func(), error) {
		res := captureResult(ctx, op)
		return func() { complete(res) }, res.Err()
	})
	return h
}

// LaunchVoid runs an op with no value to return. complete receives the
// op's error, nil on success. Panics fold into the error as with Launch.
func LaunchVoid(b *Bridge, op func(context.Context) error, complete func(error), opts ...LaunchOption) *Handle {
	h := b.newHandle(opts...)
	b.wg.Add(1)
	go b.run(h, func(ctx context.Context) (func(), error) {
		err := captureErr(ctx, op)
		return func() { complete(err) }, err
	})
	return h
}

// LaunchValue runs an op that cannot fail. complete receives the value
// directly. Because the shape has no failure channel, a panic in op is
// a program bug and propagates.
func LaunchValue[T any](b *Bridge, op func(context.Context) T, complete func(T), opts ...LaunchOption) *Handle {
	h := b.newHandle(opts...)
	b.wg.Add(1)
	go b.run(h, func(ctx context.Context) (func(), error) {
		v := op(ctx)
		return func() { complete(v) }, nil
	})
	return h
}

// LaunchNotify runs an op with neither value nor failure channel.
// complete is called with nothing once the op has finished.
func LaunchNotify(b *Bridge, op func(context.Context), complete func(), opts ...LaunchOption) *Handle {
	h := b.newHandle(opts...)
	b.wg.Add(1)
	go b.run(h, func(ctx context.Context) (func(), error) {
		op(ctx)
		return complete, nil
	})
	return h
}

// captureResult invokes op once and folds its return, error, or escaped
// panic into a single Result.
func captureResult[T any](ctx context.Context, op func(context.Context) (T, error)) (res outcome.Result[T]) {
	defer func() {
		if r := recover(); r != nil {
			res = outcome.Failure[T](&outcome.PanicError{Value: r, Stack: debug.Stack()})
		}
	}()

	v, err := op(ctx)
	if err != nil {
		return outcome.Failure[T](err)
	}
	return outcome.Success(v)
}

// captureErr invokes op once and folds an escaped panic into the error.
func captureErr(ctx context.Context, op func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &outcome.PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return op(ctx)
}
