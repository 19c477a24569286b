package dispatch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// startLoop runs a Loop on its own goroutine and returns a stop function
// that shuts it down and waits for Run to return.
func startLoop(t *testing.T) (*Loop, func()) {
	t.Helper()

	loop := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		loop.Run(ctx)
	}()
	return loop, func() {
		cancel()
		<-done
	}
}

func TestPerformBlocksUntilRun(t *testing.T) {
	loop, stop := startLoop(t)
	defer stop()

	ran := false
	if err := loop.Perform(func() { ran = true }); err != nil {
		t.Fatalf("Perform returned error: %v", err)
	}
	// Perform returning means the function has executed; no sync needed.
	if !ran {
		t.Error("Perform returned before the function ran")
	}
}

func TestPerformRunsOnLoopGoroutine(t *testing.T) {
	loop := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runDone := make(chan struct{})
	var loopGoroutine atomic.Bool
	go func() {
		defer close(runDone)
		loopGoroutine.Store(true)
		loop.Run(ctx)
	}()

	var observed bool
	if err := loop.Perform(func() { observed = loopGoroutine.Load() }); err != nil {
		t.Fatalf("Perform returned error: %v", err)
	}
	if !observed {
		t.Error("function did not run on the loop goroutine")
	}

	cancel()
	<-runDone
}

func TestLoopSerializesSubmissions(t *testing.T) {
	loop, stop := startLoop(t)
	defer stop()

	var inside atomic.Int32
	var overlapped atomic.Bool
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = loop.Perform(func() {
				if inside.Add(1) > 1 {
					overlapped.Store(true)
				}
				time.Sleep(time.Millisecond)
				inside.Add(-1)
			})
		}()
	}
	wg.Wait()

	if overlapped.Load() {
		t.Error("two submissions ran concurrently on the loop")
	}
}

func TestPerformAfterShutdownReturnsErrMainClosed(t *testing.T) {
	loop := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		loop.Run(ctx)
	}()

	cancel()
	<-done

	err := loop.Perform(func() { t.Error("function ran after shutdown") })
	if !errors.Is(err, ErrMainClosed) {
		t.Errorf("Perform after shutdown = %v, want ErrMainClosed", err)
	}
}

func TestShutdownDrainsPendingWork(t *testing.T) {
	loop := NewLoop()

	// Submit before Run starts, then run with an already-cancelled
	// context: the drain pass must still execute the work.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := make(chan struct{})
	go func() {
		_ = loop.Perform(func() { close(ran) })
	}()

	// Wait for the submission to land in the queue.
	deadline := time.Now().Add(time.Second)
	for {
		loop.mu.Lock()
		queued := len(loop.queue)
		loop.mu.Unlock()
		if queued == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("submission never queued")
		}
		time.Sleep(time.Millisecond)
	}

	loop.Run(ctx)

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("pending work was not drained on shutdown")
	}
}

func TestPanickingSubmissionDoesNotKillLoop(t *testing.T) {
	loop, stop := startLoop(t)
	defer stop()

	if err := loop.Perform(func() { panic("callback bug") }); err != nil {
		t.Fatalf("Perform returned error for panicking function: %v", err)
	}

	ran := false
	if err := loop.Perform(func() { ran = true }); err != nil {
		t.Fatalf("Perform after panic returned error: %v", err)
	}
	if !ran {
		t.Error("loop stopped executing after a panicking submission")
	}
}
