// Package task manages the lifecycle of the goroutines owned by a dispatcher.
package task

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arloliu/go-fpgahal/logger"
)

// DefaultStartTimeout is the default time a task has to report that it started.
const DefaultStartTimeout = 5 * time.Second

// ErrStopped indicates that the Manager was stopped and can't start new tasks.
var ErrStopped = errors.New("task: manager already stopped")

// Func is the body of a task. It must return when ctx is done.
type Func func(ctx context.Context)

// PanicFunc is called with the recovered value when a task body panics.
type PanicFunc func(name string, r any)

// Manager manages the lifecycle of goroutines (tasks).
//
// The Manager derives a context from its parent. Stop cancels it, which signals every task
// to return, and Wait blocks until all of them have returned.
//
// Example Usage:
//
//	mgr := task.NewManager(ctx, logger)
//
//	err := mgr.Start("worker", func(ctx context.Context) {
//	    <-ctx.Done()
//	})
//
//	mgr.Stop()
//	mgr.Wait()
type Manager struct {
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	logger       logger.Logger
	count        atomic.Int32
	startTimeout time.Duration
	onPanic      PanicFunc
}

// NewManager creates a new Manager with ctx as the parent context.
func NewManager(ctx context.Context, l logger.Logger) *Manager {
	mgr := &Manager{logger: l, startTimeout: DefaultStartTimeout}
	mgr.ctx, mgr.cancel = context.WithCancel(ctx)

	return mgr
}

// SetStartTimeout sets how long Start waits for a task to report that it is running.
func (mgr *Manager) SetStartTimeout(d time.Duration) {
	if d > 0 {
		mgr.startTimeout = d
	}
}

// OnPanic registers fn to be called when a task body panics.
// Without a handler the panic is logged at error level and the task ends.
func (mgr *Manager) OnPanic(fn PanicFunc) {
	mgr.onPanic = fn
}

// Context returns the context passed to task bodies.
func (mgr *Manager) Context() context.Context {
	return mgr.ctx
}

// Start starts a new goroutine with the given name running body.
//
// It returns once the goroutine is running, or an error if the manager was stopped or the
// goroutine did not start within the start timeout.
func (mgr *Manager) Start(name string, body Func) error {
	mgr.logger.Debug("start task", "name", name)

	select {
	case <-mgr.ctx.Done():
		return fmt.Errorf("failed to start %s: %w", name, ErrStopped)
	default:
	}

	started := make(chan struct{})
	mgr.wg.Add(1)
	go func() {
		defer mgr.wg.Done()

		mgr.count.Add(1)
		defer func() {
			mgr.count.Add(-1)
			mgr.logger.Debug("task terminated", "name", name, "task_count", mgr.TaskCount())
		}()

		close(started)
		mgr.run(name, body)
	}()

	timer := time.NewTimer(mgr.startTimeout)
	defer timer.Stop()

	select {
	case <-started:
		return nil
	case <-timer.C:
		return fmt.Errorf("timeout waiting for %s to start", name)
	}
}

// run calls body with panic protection.
func (mgr *Manager) run(name string, body Func) {
	defer func() {
		if r := recover(); r != nil {
			if mgr.onPanic != nil {
				mgr.onPanic(name, r)
				return
			}
			mgr.logger.Error("panic in task", "name", name, "panic", r)
		}
	}()

	body(mgr.ctx)
}

// Stop signals all running tasks to return.
func (mgr *Manager) Stop() {
	mgr.cancel()
}

// Wait waits for all tasks to return.
func (mgr *Manager) Wait() {
	mgr.wg.Wait()
}

// TaskCount returns the number of currently running tasks.
func (mgr *Manager) TaskCount() int {
	return int(mgr.count.Load())
}
