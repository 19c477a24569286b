// Package internal contains integration tests that verify the packages
// work together: config-driven routing, launch lifecycle events on the
// bus, and clean drain on shutdown.
package internal

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/okenna/ferry/internal/bridge"
	"github.com/okenna/ferry/internal/config"
	"github.com/okenna/ferry/internal/dispatch"
	"github.com/okenna/ferry/internal/event"
	"github.com/okenna/ferry/internal/scenario"
	"github.com/okenna/ferry/internal/testutil"
)

// stack wires a complete delivery pipeline the way the run command does.
type stack struct {
	bus    *event.Bus
	loop   *dispatch.Loop
	queues *dispatch.Registry
	bridge *bridge.Bridge
}

func newStack(t *testing.T) *stack {
	t.Helper()

	bus := event.NewBus()
	queues := dispatch.NewRegistry(dispatch.WithRegistryBus(bus))
	loop := dispatch.NewLoop()

	ctx, cancel := context.WithCancel(context.Background())
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		loop.Run(ctx)
	}()

	b := bridge.New(loop, queues, bridge.WithBus(bus))

	t.Cleanup(func() {
		b.Wait()
		cancel()
		<-loopDone
		queues.Close()
	})

	return &stack{bus: bus, loop: loop, queues: queues, bridge: b}
}

// TestLaunchLifecycleOnBus verifies that every launch emits started and
// finished events in order, with matching IDs, and that queue lifecycle
// events bracket them.
func TestLaunchLifecycleOnBus(t *testing.T) {
	s := newStack(t)

	var mu sync.Mutex
	var types []string
	var launchIDs []string
	s.bus.SubscribeAll(func(e event.Event) {
		mu.Lock()
		defer mu.Unlock()
		types = append(types, e.EventType())
		switch ev := e.(type) {
		case event.LaunchStartedEvent:
			launchIDs = append(launchIDs, ev.LaunchID)
		case event.LaunchFinishedEvent:
			launchIDs = append(launchIDs, ev.LaunchID)
		}
	})

	h := bridge.LaunchValue(s.bridge,
		func(ctx context.Context) int { return 1 },
		func(int) {},
		bridge.On(dispatch.ToQueue("io")))
	<-h.Done()

	testutil.Eventually(t, 2*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(launchIDs) == 2
	}, "launch lifecycle events not published")

	mu.Lock()
	defer mu.Unlock()
	if launchIDs[0] != launchIDs[1] {
		t.Errorf("started/finished IDs differ: %v", launchIDs)
	}

	sawStarted, sawOpened := false, false
	for _, typ := range types {
		switch typ {
		case "queue.opened":
			sawOpened = true
		case "launch.started":
			sawStarted = true
		case "launch.finished":
			if !sawStarted {
				t.Error("launch.finished published before launch.started")
			}
		}
	}
	if !sawOpened {
		t.Errorf("queue.opened never published; events: %v", types)
	}
}

// TestConfigDrivenRouting loads a config file and verifies that scenario
// steps deliver where the routes say, falling back to the configured
// default target.
func TestConfigDrivenRouting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(`
queues:
  preregister: [io, bg]
  default_target: bg
routes:
  - pattern: "fetch.*"
    target: io
  - pattern: "render.*"
    target: ui
`), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	s := newStack(t)
	if err := s.queues.Register(cfg.Queues.Preregister...); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	router, err := dispatch.NewRouter(cfg.RouterRules())
	if err != nil {
		t.Fatalf("NewRouter failed: %v", err)
	}
	router.SetFallback(cfg.DefaultTarget())

	var mu sync.Mutex
	targets := make(map[string]dispatch.Target)
	runner := scenario.NewRunner(s.bridge, router,
		scenario.WithReport(func(r scenario.StepResult) {
			mu.Lock()
			targets[r.Label] = r.Target
			mu.Unlock()
		}))

	sc, err := scenario.Parse([]byte(`
steps:
  - label: fetch.user
    shape: value
    value: alice
  - label: render.frame
    shape: notify
  - label: other.work
    shape: notify
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	for _, h := range runner.Run(sc) {
		<-h.Done()
	}
	testutil.Eventually(t, 2*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(targets) == 3
	}, "not all steps reported")

	mu.Lock()
	defer mu.Unlock()
	if targets["fetch.user"] != dispatch.ToQueue("io") {
		t.Errorf("fetch.user delivered to %v, want queue:io", targets["fetch.user"])
	}
	if !targets["render.frame"].IsMain() {
		t.Errorf("render.frame delivered to %v, want main", targets["render.frame"])
	}
	if targets["other.work"] != dispatch.ToQueue("bg") {
		t.Errorf("other.work delivered to %v, want queue:bg (fallback)", targets["other.work"])
	}
}

// TestShutdownDrainsQueuedCompletions verifies that completions enqueued
// before Close still run, even when the queue worker is behind.
func TestShutdownDrainsQueuedCompletions(t *testing.T) {
	bus := event.NewBus()
	queues := dispatch.NewRegistry(dispatch.WithRegistryBus(bus))
	loop := dispatch.NewLoop()

	ctx, cancel := context.WithCancel(context.Background())
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		loop.Run(ctx)
	}()

	b := bridge.New(loop, queues, bridge.WithBus(bus))

	const n = 20
	var mu sync.Mutex
	delivered := 0
	handles := make([]<-chan struct{}, 0, n)
	for i := 0; i < n; i++ {
		h := bridge.LaunchNotify(b,
			func(ctx context.Context) { time.Sleep(time.Millisecond) },
			func() {
				mu.Lock()
				delivered++
				mu.Unlock()
			},
			bridge.On(dispatch.ToQueue("drain")))
		handles = append(handles, h.Done())
	}

	for _, done := range handles {
		<-done
	}
	b.Wait()
	queues.Close()
	cancel()
	<-loopDone

	mu.Lock()
	defer mu.Unlock()
	if delivered != n {
		t.Errorf("delivered %d completions, want %d", delivered, n)
	}
}
