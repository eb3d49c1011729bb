package hal

import (
	"context"
	"sync"
	"time"

	"github.com/arloliu/go-fpgahal/internal/pool"
)

// CommandFuture is the pending result of a submitted command.
//
// It is written exactly once, by the worker when the command returns or with ErrWorkerGone
// when the command is abandoned, and may be read any number of times from any goroutine.
// The result is stored before Done is closed, so a reader that observed Done sees it.
type CommandFuture[T any] struct {
	id    uint64
	name  string
	state atomicState
	once  sync.Once
	done  chan struct{}
	val   T
	err   error
}

func newCommandFuture[T any](id uint64, name string) *CommandFuture[T] {
	return &CommandFuture[T]{
		id:   id,
		name: name,
		done: make(chan struct{}),
	}
}

// ID returns the command ID. IDs are unique within a dispatcher and increase in queue order.
func (f *CommandFuture[T]) ID() uint64 {
	return f.id
}

// Name returns the command name.
func (f *CommandFuture[T]) Name() string {
	return f.name
}

// State returns the current dispatch state of the command.
func (f *CommandFuture[T]) State() CommandState {
	return f.state.Get()
}

// Done returns a channel that is closed once the result is available.
func (f *CommandFuture[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the command resolves and returns its result.
//
// The error is the command's own error, or ErrWorkerGone if the worker terminated before the
// command completed. Calling Wait again returns the same result without blocking.
func (f *CommandFuture[T]) Wait() (T, error) {
	<-f.done
	return f.val, f.err
}

// Poll returns the result if the command has resolved, without blocking.
// ready is false while the command is still pending.
func (f *CommandFuture[T]) Poll() (val T, ready bool, err error) {
	select {
	case <-f.done:
		return f.val, true, f.err
	default:
		var zero T
		return zero, false, nil
	}
}

// WaitContext is like Wait but returns ctx.Err() if ctx is done first.
// The command keeps its place in the queue.
func (f *CommandFuture[T]) WaitContext(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// WaitTimeout is like Wait but returns ErrWaitTimeout if the command does not resolve within d.
// The command keeps its place in the queue and the future can be waited on again.
func (f *CommandFuture[T]) WaitTimeout(d time.Duration) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	default:
	}

	if pool.After(d, f.done) {
		return f.val, f.err
	}

	var zero T
	return zero, ErrWaitTimeout
}

func (f *CommandFuture[T]) complete(val T, err error) bool {
	resolved := false
	f.once.Do(func() {
		f.val, f.err = val, err
		f.state.ToCompleted()
		close(f.done)
		resolved = true
	})

	return resolved
}

func (f *CommandFuture[T]) abandon() bool {
	resolved := false
	f.once.Do(func() {
		f.err = ErrWorkerGone
		f.state.ToAbandoned()
		close(f.done)
		resolved = true
	})

	return resolved
}
