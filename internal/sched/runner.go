// Package sched provides the periodic runner that drives monitor cycles.
package sched

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/arloliu/ackwatch/types"
)

// Common errors for runner operations.
var (
	ErrNotStarted     = errors.New("runner not started")
	ErrAlreadyStarted = errors.New("runner already started")
)

// Runner invokes a task on a fixed period from a single goroutine.
//
// At most one invocation of the task is in flight at any time, which is the
// guarantee the monitor cycle relies on. Panics raised by the task are
// recovered and logged so a misbehaving destination cannot kill the
// monitoring loop.
//
// A Runner is restartable: Stop followed by Start resumes ticking with fresh
// internal state.
type Runner struct {
	name     string
	task     func()
	interval time.Duration
	logger   types.Logger

	mu      sync.Mutex
	started bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	ticker  *time.Ticker
}

// New creates a new periodic runner.
//
// Parameters:
//   - name: Identifier used in log output
//   - task: Function invoked once per interval
//   - interval: Tick interval (must be > 0)
//   - logger: Logger for panic reports
//
// Returns:
//   - *Runner: New runner instance, not yet started
func New(name string, task func(), interval time.Duration, logger types.Logger) *Runner {
	return &Runner{
		name:     name,
		task:     task,
		interval: interval,
		logger:   logger,
	}
}

// Start begins invoking the task in the background.
//
// The first invocation happens one interval after Start. Ticking continues
// until Stop is called or the context is canceled.
//
// Parameters:
//   - ctx: Context for cancellation
//
// Returns:
//   - error: ErrAlreadyStarted if already running
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return ErrAlreadyStarted
	}

	r.started = true
	r.stopCh = make(chan struct{})
	r.doneCh = make(chan struct{})
	r.ticker = time.NewTicker(r.interval)

	go r.runLoop(ctx, r.stopCh, r.doneCh, r.ticker)

	return nil
}

// Stop stops the runner and waits for an in-flight task invocation to finish.
//
// Returns:
//   - error: ErrNotStarted if not running
func (r *Runner) Stop() error {
	r.mu.Lock()

	if !r.started {
		r.mu.Unlock()
		return ErrNotStarted
	}

	r.ticker.Stop()
	close(r.stopCh)
	r.started = false
	doneCh := r.doneCh

	r.mu.Unlock()

	<-doneCh

	return nil
}

// Running reports whether the runner is currently started.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.started
}

func (r *Runner) runLoop(ctx context.Context, stopCh, doneCh chan struct{}, ticker *time.Ticker) {
	defer close(doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-ticker.C:
			r.safeRun()
		}
	}
}

// safeRun invokes the task, absorbing panics so the loop keeps ticking.
func (r *Runner) safeRun() {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("periodic task panicked", "runner", r.name, "panic", rec)
		}
	}()

	r.task()
}
