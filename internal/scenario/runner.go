package scenario

import (
	"context"
	"errors"
	"time"

	"github.com/okenna/ferry/internal/bridge"
	"github.com/okenna/ferry/internal/dispatch"
	"github.com/okenna/ferry/internal/logging"
	"github.com/okenna/ferry/internal/outcome"
)

// StepResult is what a step's completion observed, reported to the
// Runner's callback on the step's delivery context.
type StepResult struct {
	Label  string
	Shape  Shape
	Target dispatch.Target
	Value  string
	Err    error
}

// Runner launches scenario steps through a Bridge, routing each step's
// completion by its label unless the step pins a queue explicitly.
type Runner struct {
	bridge *bridge.Bridge
	router *dispatch.Router
	logger *logging.Logger
	report func(StepResult)
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRunnerLogger sets the logger for step completions.
func WithRunnerLogger(logger *logging.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger.WithComponent("scenario")
		}
	}
}

// WithReport sets a callback invoked with each step's result. The
// callback runs on the step's delivery context, inside the completion.
func WithReport(fn func(StepResult)) RunnerOption {
	return func(r *Runner) {
		r.report = fn
	}
}

// NewRunner creates a Runner. b and router must be non-nil.
func NewRunner(b *bridge.Bridge, router *dispatch.Router, opts ...RunnerOption) *Runner {
	if b == nil {
		panic("scenario: Bridge must not be nil")
	}
	if router == nil {
		panic("scenario: Router must not be nil")
	}

	r := &Runner{
		bridge: b,
		router: router,
		logger: logging.NopLogger(),
		report: func(StepResult) {},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run launches every step in order and returns their handles. It does
// not wait for completions; callers wait on the handles or the Bridge.
func (r *Runner) Run(s *Scenario) []*bridge.Handle {
	handles := make([]*bridge.Handle, 0, len(s.Steps))
	for _, step := range s.Steps {
		handles = append(handles, r.RunStep(step))
	}
	return handles
}

// RunStep launches a single step through the entry point matching its
// shape.
func (r *Runner) RunStep(step Step) *bridge.Handle {
	target := r.target(step)
	opts := []bridge.LaunchOption{
		bridge.On(target),
		bridge.WithLabel(step.Label),
	}

	var handle *bridge.Handle
	switch step.Shape {
	case ShapeResult:
		handle = bridge.Launch(r.bridge,
			func(ctx context.Context) (string, error) {
				if err := sleep(ctx, step.Delay.Std()); err != nil {
					return "", err
				}
				if step.Fail != "" {
					return "", errors.New(step.Fail)
				}
				return step.Value, nil
			},
			func(res outcome.Result[string]) {
				r.done(StepResult{
					Label: step.Label, Shape: step.Shape, Target: target,
					Value: res.Value(), Err: res.Err(),
				})
			},
			opts...)

	case ShapeError:
		handle = bridge.LaunchVoid(r.bridge,
			func(ctx context.Context) error {
				if err := sleep(ctx, step.Delay.Std()); err != nil {
					return err
				}
				if step.Fail != "" {
					return errors.New(step.Fail)
				}
				return nil
			},
			func(err error) {
				r.done(StepResult{Label: step.Label, Shape: step.Shape, Target: target, Err: err})
			},
			opts...)

	case ShapeValue:
		handle = bridge.LaunchValue(r.bridge,
			func(ctx context.Context) string {
				// The shape has no failure channel, so the delay runs to
				// completion even under cancellation.
				time.Sleep(step.Delay.Std())
				return step.Value
			},
			func(v string) {
				r.done(StepResult{Label: step.Label, Shape: step.Shape, Target: target, Value: v})
			},
			opts...)

	case ShapeNotify:
		handle = bridge.LaunchNotify(r.bridge,
			func(ctx context.Context) {
				_ = sleep(ctx, step.Delay.Std())
			},
			func() {
				r.done(StepResult{Label: step.Label, Shape: step.Shape, Target: target})
			},
			opts...)

	default:
		// Parse validates shapes; reaching here is a programming error.
		panic("scenario: unknown shape " + string(step.Shape))
	}

	if d := step.CancelAfter.Std(); d > 0 {
		time.AfterFunc(d, handle.Cancel)
	}
	return handle
}

// target resolves where a step's completion delivers: an explicit queue
// wins over the router.
func (r *Runner) target(step Step) dispatch.Target {
	if step.Queue != "" {
		return dispatch.ParseTarget(step.Queue)
	}
	return r.router.Resolve(step.Label)
}

// done logs a step result and forwards it to the report callback.
func (r *Runner) done(res StepResult) {
	switch {
	case res.Err != nil && outcome.IsCanceled(res.Err):
		r.logger.Info("step canceled", "label", res.Label, "target", res.Target.String())
	case res.Err != nil:
		r.logger.Warn("step failed", "label", res.Label, "target", res.Target.String(), "error", res.Err.Error())
	default:
		r.logger.Info("step completed", "label", res.Label, "target", res.Target.String(), "value", res.Value)
	}
	r.report(res)
}

// sleep waits for d or until ctx is cancelled, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
