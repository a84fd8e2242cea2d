// Package shutdown coordinates graceful teardown of the process. Components
// register a handler under a phase; on SIGINT/SIGTERM (or an explicit
// Shutdown call) phases run in ascending order, with handlers inside one
// phase running concurrently. The HTTP listener stops first so no new
// requests arrive while the stores flush and close.
package shutdown

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Phases used by the serve command. Lower phases run first.
const (
	PhaseFrontend = 10 // HTTP server: stop accepting requests
	PhaseServices = 20 // in-flight pipeline work
	PhaseStorage  = 30 // databases and indexes
)

// Handler is implemented by components that need orderly teardown.
type Handler interface {
	OnShutdown(ctx context.Context) error
}

// Func adapts a plain function to Handler.
type Func func(ctx context.Context) error

// OnShutdown implements Handler.
func (f Func) OnShutdown(ctx context.Context) error {
	return f(ctx)
}

type entry struct {
	name    string
	phase   int
	handler Handler
}

// Coordinator runs registered handlers once, phase by phase.
type Coordinator struct {
	timeout time.Duration
	logger  *zap.Logger

	mu      sync.Mutex
	entries []entry

	once sync.Once
	done chan struct{}
	err  error

	sigs chan os.Signal
}

// NewCoordinator creates a coordinator. timeout bounds the whole teardown
// when triggered by a signal; zero means 30 seconds.
func NewCoordinator(timeout time.Duration, logger *zap.Logger) *Coordinator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		timeout: timeout,
		logger:  logger,
		done:    make(chan struct{}),
		sigs:    make(chan os.Signal, 1),
	}
}

// Register adds a handler under a phase.
func (c *Coordinator) Register(name string, phase int, h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, entry{name: name, phase: phase, handler: h})
}

// RegisterFunc adds a plain function under a phase.
func (c *Coordinator) RegisterFunc(name string, phase int, fn func(ctx context.Context) error) {
	c.Register(name, phase, Func(fn))
}

// HandleSignals triggers Shutdown on SIGINT or SIGTERM.
func (c *Coordinator) HandleSignals() {
	signal.Notify(c.sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-c.sigs
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		_ = c.Shutdown(ctx)
	}()
}

// Shutdown runs every registered handler. Later calls return the result of
// the first run. Handler failures are logged and collected; teardown always
// proceeds to the remaining phases.
func (c *Coordinator) Shutdown(ctx context.Context) error {
	c.once.Do(func() {
		c.err = c.run(ctx)
		close(c.done)
	})
	<-c.done
	return c.err
}

// Done is closed once teardown has finished.
func (c *Coordinator) Done() <-chan struct{} {
	return c.done
}

// Err reports the teardown result; nil before Done is closed.
func (c *Coordinator) Err() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}

func (c *Coordinator) run(ctx context.Context) error {
	c.mu.Lock()
	entries := make([]entry, len(c.entries))
	copy(entries, c.entries)
	c.mu.Unlock()

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].phase < entries[j].phase
	})

	var errs []error
	for start := 0; start < len(entries); {
		end := start
		for end < len(entries) && entries[end].phase == entries[start].phase {
			end++
		}

		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		errs = append(errs, c.runPhase(ctx, entries[start:end])...)
		start = end
	}
	return errors.Join(errs...)
}

// runPhase runs one phase's handlers concurrently.
func (c *Coordinator) runPhase(ctx context.Context, entries []entry) []error {
	results := make([]error, len(entries))
	var wg sync.WaitGroup
	for i, e := range entries {
		wg.Add(1)
		go func(i int, e entry) {
			defer wg.Done()
			start := time.Now()
			err := e.handler.OnShutdown(ctx)
			results[i] = err

			logger := c.logger.With(
				zap.String("handler", e.name),
				zap.Int("phase", e.phase),
				zap.Duration("took", time.Since(start)))
			if err != nil {
				logger.Warn("shutdown handler failed", zap.Error(err))
				return
			}
			logger.Debug("shutdown handler done")
		}(i, e)
	}
	wg.Wait()

	var errs []error
	for _, err := range results {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
