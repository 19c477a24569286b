package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/okenna/ferry/internal/bridge"
	"github.com/okenna/ferry/internal/config"
	"github.com/okenna/ferry/internal/dispatch"
	"github.com/okenna/ferry/internal/event"
	"github.com/okenna/ferry/internal/scenario"
	"github.com/okenna/ferry/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [scenario.yaml]",
	Short: "Open the launch dashboard",
	Long: `Tui opens the interactive dashboard. The dashboard's update loop is
the main delivery context: completions routed there are serialized with
rendering and keyboard handling. An optional scenario file is launched
as soon as the dashboard is up; 'a' starts ad-hoc launches.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the dashboard requires a terminal; use 'ferry run' in scripts")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var s *scenario.Scenario
	if len(args) > 0 {
		if s, err = scenario.Load(args[0]); err != nil {
			return err
		}
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

	router, err := dispatch.NewRouter(cfg.RouterRules())
	if err != nil {
		return err
	}
	router.SetFallback(cfg.DefaultTarget())

	var b *bridge.Bridge
	var runner *scenario.Runner

	app := tui.New(cfg,
		tui.WithAppBus(bus),
		tui.WithAppLogger(logger),
		tui.WithLaunchFunc(func(label, queue string) error {
			runner.RunStep(scenario.Step{
				Label: label,
				Shape: scenario.ShapeValue,
				Delay: scenario.Duration(500 * time.Millisecond),
				Value: label,
				Queue: queue,
			})
			return nil
		}),
	)

	b = bridge.New(app, queues,
		bridge.WithLogger(logger),
		bridge.WithBus(bus),
	)
	runner = scenario.NewRunner(b, router, scenario.WithRunnerLogger(logger))

	// Hot-reload the config file while the dashboard runs.
	if path := viper.ConfigFileUsed(); path != "" {
		w, err := config.NewWatcher(path, func(next *config.Config) {
			logger.SetLevel(next.Logging.Level)
		}, config.WithWatcherLogger(logger), config.WithWatcherBus(bus))
		if err != nil {
			logger.Warn("config hot-reload disabled", "error", err.Error())
		} else {
			w.Start()
			defer w.Stop()
		}
	}

	if s != nil {
		go runner.Run(s)
	}

	if err := app.Run(); err != nil {
		return fmt.Errorf("dashboard error: %w", err)
	}

	// The main context is closed now; wait for in-flight launches to hand
	// off, then drain the queues.
	b.Wait()
	queues.Close()
	return nil
}
