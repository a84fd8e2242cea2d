package shutdown

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestShutdownRunsPhasesInOrder(t *testing.T) {
	c := NewCoordinator(time.Second, zap.NewNop())

	var mu sync.Mutex
	var order []string
	record := func(name string) func(context.Context) error {
		return func(context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
			return nil
		}
	}

	c.RegisterFunc("storage", PhaseStorage, record("storage"))
	c.RegisterFunc("server", PhaseFrontend, record("server"))
	c.RegisterFunc("services", PhaseServices, record("services"))

	if err := c.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	want := []string{"server", "services", "storage"}
	if len(order) != len(want) {
		t.Fatalf("ran %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order = %v, want %v", order, want)
			break
		}
	}
}

func TestShutdownContinuesAfterFailure(t *testing.T) {
	c := NewCoordinator(time.Second, zap.NewNop())

	ran := false
	c.RegisterFunc("broken", PhaseFrontend, func(context.Context) error {
		return fmt.Errorf("close failed")
	})
	c.RegisterFunc("storage", PhaseStorage, func(context.Context) error {
		ran = true
		return nil
	})

	err := c.Shutdown(context.Background())
	if err == nil {
		t.Error("Shutdown should report the handler failure")
	}
	if !ran {
		t.Error("later phase did not run after earlier failure")
	}
}

func TestShutdownRunsOnce(t *testing.T) {
	c := NewCoordinator(time.Second, zap.NewNop())

	calls := 0
	c.RegisterFunc("once", PhaseFrontend, func(context.Context) error {
		calls++
		return nil
	})

	if err := c.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if err := c.Shutdown(context.Background()); err != nil {
		t.Fatalf("second Shutdown: %v", err)
	}
	if calls != 1 {
		t.Errorf("handler ran %d times, want 1", calls)
	}

	select {
	case <-c.Done():
	default:
		t.Error("Done not closed after shutdown")
	}
	if c.Err() != nil {
		t.Errorf("Err = %v, want nil", c.Err())
	}
}

func TestShutdownSamePhaseConcurrent(t *testing.T) {
	c := NewCoordinator(time.Second, zap.NewNop())

	// Both handlers block until the other has started; the phase only
	// completes if they run concurrently.
	var wg sync.WaitGroup
	wg.Add(2)
	both := func(context.Context) error {
		wg.Done()
		wg.Wait()
		return nil
	}
	c.RegisterFunc("a", PhaseServices, both)
	c.RegisterFunc("b", PhaseServices, both)

	errCh := make(chan error, 1)
	go func() { errCh <- c.Shutdown(context.Background()) }()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Shutdown: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("phase handlers deadlocked; not run concurrently")
	}
}
