package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/okenna/ferry/internal/event"
	"github.com/okenna/ferry/internal/logging"
)

// debounceDelay coalesces the bursts of filesystem events editors emit
// on save into a single reload.
const debounceDelay = 100 * time.Millisecond

// Watcher reloads the configuration when the config file changes on
// disk. A reload that fails validation is logged and discarded; the
// previous configuration stays in effect.
type Watcher struct {
	path     string
	onReload func(*Config)

	watcher *fsnotify.Watcher
	logger  *logging.Logger
	bus     *event.Bus

	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatcherLogger sets the logger for reload outcomes.
func WithWatcherLogger(logger *logging.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger.WithComponent("config")
		}
	}
}

// WithWatcherBus sets the event bus for config.reloaded events.
func WithWatcherBus(bus *event.Bus) WatcherOption {
	return func(w *Watcher) {
		w.bus = bus
	}
}

// NewWatcher creates a Watcher for the config file at path. onReload is
// called with each successfully loaded configuration. The watcher does
// nothing until Start.
//
// The file's directory is watched rather than the file itself, since
// editors typically replace files via rename.
func NewWatcher(path string, onReload func(*Config), opts ...WatcherOption) (*Watcher, error) {
	if onReload == nil {
		panic("config: onReload must not be nil")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		path:     path,
		onReload: onReload,
		watcher:  fsw,
		logger:   logging.NopLogger(),
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	return w, nil
}

// Start begins watching in a background goroutine.
func (w *Watcher) Start() {
	go w.watchLoop()
}

// Stop stops the watcher and waits for the watch loop to exit.
// Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.watcher.Close()
	})
	<-w.done
}

// watchLoop processes filesystem events for the config file.
func (w *Watcher) watchLoop() {
	defer close(w.done)

	var debounce *time.Timer
	var debounceCh <-chan time.Time

	for {
		select {
		case <-w.stopCh:
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(debounceDelay)
			} else {
				debounce.Reset(debounceDelay)
			}
			debounceCh = debounce.C

		case <-debounceCh:
			debounceCh = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "error", err.Error())
		}
	}
}

// reload reads and validates the file, applying it only on success.
func (w *Watcher) reload() {
	cfg, err := LoadFile(w.path)
	if err != nil {
		w.logger.Warn("config reload rejected", "path", w.path, "error", err.Error())
		return
	}

	w.logger.Info("config reloaded", "path", w.path)
	if w.bus != nil {
		w.bus.Publish(event.NewConfigReloadedEvent(w.path))
	}
	w.onReload(cfg)
}
