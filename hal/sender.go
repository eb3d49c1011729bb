package hal

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/arloliu/go-fpgahal/internal/queue"
	"github.com/arloliu/go-fpgahal/internal/task"
	"github.com/arloliu/go-fpgahal/logger"
	"github.com/arloliu/go-fpgahal/trace"
)

// dispatcher is the state shared by every clone of a CommandSender.
type dispatcher struct {
	id       uuid.UUID
	idStr    string
	cfg      *Config
	logger   logger.Logger
	recorder trace.Recorder
	taskMgr  *task.Manager
	metrics  Metrics
	ids      commandIDGenerator

	queue  queue.Queue[job]
	notify chan struct{}

	// mu serializes submissions and orders them against shutdown. IDs are assigned
	// and jobs enqueued under it, so ID order is queue order, and a job enqueued
	// under it is either executed or drained by the worker.
	mu     sync.Mutex
	closed bool

	refs      atomic.Int32
	closing   chan struct{}
	closeOnce sync.Once
	alive     atomic.Bool
	done      chan struct{}

	// worker goroutine only
	current job
	crashed job
}

// CommandSender submits commands to the single hardware worker.
//
// A CommandSender is safe for concurrent use by multiple goroutines. Clone returns an
// additional handle to the same worker; the worker stops when every clone has been closed
// or when the context given to Spawn is done.
type CommandSender struct {
	d      *dispatcher
	closed atomic.Bool
}

// Spawn starts the hardware worker goroutine and returns the first sender.
//
// The worker owns the only HardwareContext of the dispatcher and executes submitted commands
// one at a time in submission order. When the last sender is closed or ctx is done, the
// worker finishes the command it is executing and resolves every command still queued with
// ErrWorkerGone.
func Spawn(ctx context.Context, opts ...Option) (*CommandSender, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	d := &dispatcher{
		id:       id,
		idStr:    id.String(),
		cfg:      cfg,
		logger:   cfg.Logger().With("dispatcher", id.String()),
		recorder: cfg.Recorder(),
		queue:    newJobQueue(cfg.QueueKind()),
		notify:   make(chan struct{}, 1),
		closing:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	d.refs.Store(1)
	d.alive.Store(true)

	d.taskMgr = task.NewManager(ctx, d.logger)
	d.taskMgr.SetStartTimeout(cfg.StartTimeout())
	d.taskMgr.OnPanic(d.onPanic)

	if err := d.taskMgr.Start(cfg.Name(), d.run); err != nil {
		d.taskMgr.Stop()
		return nil, err
	}

	go func() {
		d.taskMgr.Wait()
		d.taskMgr.Stop()
		close(d.done)
	}()

	return &CommandSender{d: d}, nil
}

// Clone returns a new sender for the same worker.
// Cloning a closed sender returns a closed sender.
func (s *CommandSender) Clone() *CommandSender {
	c := &CommandSender{d: s.d}
	if s.closed.Load() {
		c.closed.Store(true)
		return c
	}
	s.d.refs.Add(1)

	return c
}

// Close releases this sender. Submitting through it afterwards fails with ErrSenderClosed.
//
// When the last open sender is closed the worker stops, see Spawn. Close is idempotent and
// does not wait for the worker, use Done for that.
func (s *CommandSender) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	if s.d.refs.Add(-1) == 0 {
		s.d.closeQueue()
	}

	return nil
}

// Done returns a channel that is closed after the worker has exited and every
// pending command has been resolved.
func (s *CommandSender) Done() <-chan struct{} {
	return s.d.done
}

// Alive reports whether the worker still accepts commands.
func (s *CommandSender) Alive() bool {
	return s.d.alive.Load()
}

// DispatcherID returns the unique ID of the dispatcher behind this sender.
func (s *CommandSender) DispatcherID() uuid.UUID {
	return s.d.id
}

// Name returns the configured dispatcher name.
func (s *CommandSender) Name() string {
	return s.d.cfg.Name()
}

// Metrics returns the metrics shared by every clone of this sender.
func (s *CommandSender) Metrics() *Metrics {
	return &s.d.metrics
}

// Submit hands cmd to the worker and returns a future for its result.
//
// Submit never blocks on the hardware. It fails with an error matching ErrSubmission and
// ErrSenderClosed if s was closed, or ErrSubmission and ErrWorkerGone if the worker no longer
// accepts commands.
func Submit[T any](s *CommandSender, cmd Command[T]) (*CommandFuture[T], error) {
	d := s.d
	if cmd == nil {
		d.metrics.incRejectedCount()
		return nil, fmt.Errorf("%w: %w", ErrSubmission, ErrNilCommand)
	}
	if s.closed.Load() {
		d.metrics.incRejectedCount()
		return nil, fmt.Errorf("%w: %w", ErrSubmission, ErrSenderClosed)
	}

	name := commandName(cmd)

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.metrics.incRejectedCount()

		return nil, fmt.Errorf("%w: %w", ErrSubmission, ErrWorkerGone)
	}
	future := newCommandFuture[T](d.ids.genID(), name)
	future.state.ToQueued()
	d.record(future.id, future.name, trace.KindSubmitted, 0, nil)
	d.metrics.incSubmittedCount()
	d.queue.Enqueue(&commandJob[T]{cmd: cmd, future: future})
	d.mu.Unlock()

	d.wake()

	return future, nil
}

// SubmitFunc submits fn as a command named name.
func SubmitFunc[T any](s *CommandSender, name string, fn func(hw *HardwareContext) (T, error)) (*CommandFuture[T], error) {
	return Submit(s, NamedFunc(name, fn))
}

// Do submits cmd and waits for its result. Dispatch failures and command failures are both
// returned as the error, use IsDispatchError to tell them apart.
func Do[T any](s *CommandSender, cmd Command[T]) (T, error) {
	future, err := Submit(s, cmd)
	if err != nil {
		var zero T
		return zero, err
	}

	return future.Wait()
}

func (d *dispatcher) wake() {
	select {
	case d.notify <- struct{}{}:
	default:
	}
}

// closeQueue stops accepting commands and tells the worker to stop.
func (d *dispatcher) closeQueue() {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		d.mu.Unlock()

		d.logger.Debug("all senders closed")
		close(d.closing)
	})
}

func (d *dispatcher) record(id uint64, name string, kind trace.Kind, elapsed time.Duration, err error) {
	ev := trace.Event{
		Timestamp:    time.Now(),
		DispatcherID: d.idStr,
		CommandID:    id,
		Command:      name,
		Kind:         kind,
		Duration:     elapsed,
	}
	if err != nil {
		ev.Error = err.Error()
	}

	d.recorder.Record(ev)
}
