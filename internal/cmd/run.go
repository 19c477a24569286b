package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okenna/ferry/internal/bridge"
	"github.com/okenna/ferry/internal/config"
	"github.com/okenna/ferry/internal/dispatch"
	"github.com/okenna/ferry/internal/event"
	"github.com/okenna/ferry/internal/logging"
	"github.com/okenna/ferry/internal/outcome"
	"github.com/okenna/ferry/internal/scenario"
)

var runCmd = &cobra.Command{
	Use:   "run <scenario.yaml>",
	Short: "Run a scenario headless and print each step's outcome",
	Long: `Run executes every step of a scenario file without the dashboard.
Completions routed to the main context run on an in-process loop; queue
deliveries behave exactly as they do under the TUI. Each step's outcome
is printed once all launches have finished.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	s, err := scenario.Load(args[0])
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	bus := event.NewBus()
	queues := dispatch.NewRegistry(
		dispatch.WithRegistryLogger(logger),
		dispatch.WithRegistryBus(bus),
	)
	if err := queues.Register(cfg.Queues.Preregister...); err != nil {
		return fmt.Errorf("failed to pre-register queues: %w", err)
	}

	// The loop stands in for the UI thread in headless mode.
	loop := dispatch.NewLoop(dispatch.WithLoopLogger(logger))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		loop.Run(ctx)
	}()

	b := bridge.New(loop, queues,
		bridge.WithLogger(logger),
		bridge.WithBus(bus),
	)

	router, err := dispatch.NewRouter(cfg.RouterRules())
	if err != nil {
		return err
	}
	router.SetFallback(cfg.DefaultTarget())

	var mu sync.Mutex
	var results []scenario.StepResult
	runner := scenario.NewRunner(b, router,
		scenario.WithRunnerLogger(logger),
		scenario.WithReport(func(r scenario.StepResult) {
			mu.Lock()
			results = append(results, r)
			mu.Unlock()
		}),
	)

	for _, h := range runner.Run(s) {
		select {
		case <-h.Done():
		case <-ctx.Done():
			// Interrupted: cancel what's left and let the drains finish.
			h.Cancel()
			<-h.Done()
		}
	}

	b.Wait()
	queues.Close()
	stop()
	<-loopDone

	mu.Lock()
	defer mu.Unlock()
	printResults(cmd, results)

	for _, r := range results {
		if r.Err != nil && !outcome.IsCanceled(r.Err) {
			return fmt.Errorf("%d of %d steps failed", countFailed(results), len(results))
		}
	}
	return nil
}

// printResults writes one line per completed step, in completion order.
func printResults(cmd *cobra.Command, results []scenario.StepResult) {
	for _, r := range results {
		switch {
		case r.Err != nil && outcome.IsCanceled(r.Err):
			cmd.Printf("canceled  %-20s %s\n", r.Label, r.Target.String())
		case r.Err != nil:
			cmd.Printf("FAIL      %-20s %s  %v\n", r.Label, r.Target.String(), r.Err)
		case r.Value != "":
			cmd.Printf("ok        %-20s %s  value=%s\n", r.Label, r.Target.String(), r.Value)
		default:
			cmd.Printf("ok        %-20s %s\n", r.Label, r.Target.String())
		}
	}
}

func countFailed(results []scenario.StepResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil && !outcome.IsCanceled(r.Err) {
			n++
		}
	}
	return n
}

// newLogger builds the process logger from the logging config.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NopLogger(), nil
	}
	logger, err := logging.NewLogger(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}
