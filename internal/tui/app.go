// Package tui renders the launch dashboard and serves as the process's
// main delivery context. The Bubbletea update loop plays the role of the
// UI thread: completions targeted at the main context are handed into
// Update one at a time, so everything they touch is serialized with
// keyboard handling and rendering.
package tui

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/okenna/ferry/internal/config"
	"github.com/okenna/ferry/internal/dispatch"
	"github.com/okenna/ferry/internal/event"
	"github.com/okenna/ferry/internal/logging"
)

// LaunchFunc starts an ad-hoc launch from the dashboard's input bar.
// queue is empty when the user did not pin a delivery queue.
type LaunchFunc func(label, queue string) error

// App wraps the Bubbletea program and implements dispatch.MainContext.
type App struct {
	program *tea.Program
	model   Model
	bus     *event.Bus
	logger  *logging.Logger
	closed  chan struct{}
}

// AppOption configures an App.
type AppOption func(*App)

// WithAppBus subscribes the dashboard to launch and queue lifecycle
// events.
func WithAppBus(bus *event.Bus) AppOption {
	return func(a *App) {
		a.bus = bus
	}
}

// WithAppLogger sets the logger for UI lifecycle messages.
func WithAppLogger(logger *logging.Logger) AppOption {
	return func(a *App) {
		if logger != nil {
			a.logger = logger.WithComponent("tui")
		}
	}
}

// WithLaunchFunc wires the input bar to a launch entry point.
func WithLaunchFunc(fn LaunchFunc) AppOption {
	return func(a *App) {
		a.model.launch = fn
	}
}

// New creates the dashboard application. The program exists as soon as
// New returns, so Perform may be called before Run.
func New(cfg *config.Config, opts ...AppOption) *App {
	a := &App{
		model:  NewModel(cfg),
		logger: logging.NopLogger(),
		closed: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.program = tea.NewProgram(
		a.model,
		tea.WithAltScreen(),
	)
	return a
}

// Perform implements dispatch.MainContext. The closure is carried into
// the update loop as a message and executed there; Perform blocks until
// it has run, mirroring a suspension hop onto the UI thread.
func (a *App) Perform(fn func()) error {
	select {
	case <-a.closed:
		return dispatch.ErrMainClosed
	default:
	}

	ran := make(chan struct{})
	a.program.Send(performMsg{fn: fn, ran: ran})

	select {
	case <-ran:
		return nil
	case <-a.closed:
		return dispatch.ErrMainClosed
	}
}

// Run starts the dashboard and blocks until the user quits or the
// process receives a termination signal. After Run returns the main
// context is closed and Perform reports ErrMainClosed.
func (a *App) Run() error {
	defer close(a.closed)

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		<-sigChan
		if a.program != nil {
			a.program.Send(tea.Quit())
		}
	}()

	// Forward lifecycle events into the update loop as messages.
	var subs []string
	if a.bus != nil {
		subs = append(subs,
			a.bus.Subscribe("launch.started", func(e event.Event) {
				if ev, ok := e.(event.LaunchStartedEvent); ok {
					a.program.Send(launchStartedMsg{ev: ev})
				}
			}),
			a.bus.Subscribe("launch.finished", func(e event.Event) {
				if ev, ok := e.(event.LaunchFinishedEvent); ok {
					a.program.Send(launchFinishedMsg{ev: ev})
				}
			}),
			a.bus.Subscribe("queue.opened", func(e event.Event) {
				if ev, ok := e.(event.QueueOpenedEvent); ok {
					a.program.Send(queueOpenedMsg{name: ev.Queue})
				}
			}),
			a.bus.Subscribe("queue.closed", func(e event.Event) {
				if ev, ok := e.(event.QueueClosedEvent); ok {
					a.program.Send(queueClosedMsg{name: ev.Queue})
				}
			}),
			a.bus.Subscribe("config.reloaded", func(e event.Event) {
				if ev, ok := e.(event.ConfigReloadedEvent); ok {
					a.program.Send(configReloadedMsg{path: ev.Path})
				}
			}),
		)
	}

	a.logger.Info("dashboard started")
	_, err := a.program.Run()
	a.logger.Info("dashboard stopped")

	signal.Stop(sigChan)
	for _, id := range subs {
		a.bus.Unsubscribe(id)
	}

	return err
}

// Messages

type tickMsg time.Time

// performMsg carries a main-context completion into the update loop.
type performMsg struct {
	fn  func()
	ran chan struct{}
}

type launchStartedMsg struct {
	ev event.LaunchStartedEvent
}

type launchFinishedMsg struct {
	ev event.LaunchFinishedEvent
}

type queueOpenedMsg struct {
	name string
}

type queueClosedMsg struct {
	name string
}

type configReloadedMsg struct {
	path string
}

// Commands

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
