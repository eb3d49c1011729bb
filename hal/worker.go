package hal

import (
	"context"
	"time"

	"github.com/arloliu/go-fpgahal/trace"
)

// run is the body of the worker task.
func (d *dispatcher) run(ctx context.Context) {
	hw := newHardwareContext(d.id)
	d.logger.Debug("hardware worker started", "name", d.cfg.Name(), "queue", d.cfg.QueueKind().String())

	defer d.shutdown(hw)

	for {
		if d.stopping(ctx) {
			return
		}

		j, ok := d.queue.Dequeue()
		if !ok {
			select {
			case <-d.notify:
			case <-d.closing:
			case <-ctx.Done():
			}

			continue
		}
		d.metrics.decQueueDepth()
		d.execute(hw, j)
	}
}

func (d *dispatcher) stopping(ctx context.Context) bool {
	select {
	case <-d.closing:
		return true
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func (d *dispatcher) execute(hw *HardwareContext, j job) {
	d.current = j
	d.record(j.id(), j.name(), trace.KindExecuting, 0, nil)

	start := time.Now()
	err := j.execute(hw)
	elapsed := time.Since(start)
	d.current = nil

	if err != nil {
		d.metrics.incFailedCount()
	} else {
		d.metrics.incCompletedCount()
	}
	d.record(j.id(), j.name(), trace.KindCompleted, elapsed, err)
	j.resolve()
}

// shutdown runs when the worker returns or a command panics. It stops submissions and
// resolves the interrupted command and every queued one with ErrWorkerGone.
func (d *dispatcher) shutdown(hw *HardwareContext) {
	d.alive.Store(false)

	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	abandoned := 0
	if d.current != nil {
		d.crashed = d.current
		d.current = nil
		if d.abandon(d.crashed) {
			abandoned++
		}
	}

	for {
		j, ok := d.queue.Dequeue()
		if !ok {
			break
		}
		d.metrics.decQueueDepth()
		if d.abandon(j) {
			abandoned++
		}
	}

	if abandoned > 0 {
		d.logger.Warn("commands abandoned", "count", abandoned)
	}
	d.logger.Debug("hardware worker stopped", "executed", hw.executed)
}

func (d *dispatcher) abandon(j job) bool {
	if !j.abandon() {
		return false
	}
	d.metrics.incAbandonedCount()
	d.record(j.id(), j.name(), trace.KindAbandoned, 0, ErrWorkerGone)

	return true
}

// onPanic is called by the task manager after shutdown when a command panicked.
func (d *dispatcher) onPanic(name string, r any) {
	if d.crashed == nil {
		d.logger.Error("panic in hardware worker", "task", name, "panic", r)
		return
	}

	d.logger.Error("command panicked, hardware worker stopped",
		"command", d.crashed.name(), "id", d.crashed.id(), "panic", r)
}
