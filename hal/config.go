package hal

import (
	"fmt"
	"strings"
	"time"

	"github.com/arloliu/go-fpgahal/internal/queue"
	"github.com/arloliu/go-fpgahal/internal/task"
	"github.com/arloliu/go-fpgahal/logger"
	"github.com/arloliu/go-fpgahal/trace"
)

// QueueKind selects the queue implementation between senders and the worker.
type QueueKind uint8

const (
	// LockFreeQueue is an unbounded lock-free linked queue. It is the default.
	LockFreeQueue QueueKind = iota
	// SliceQueue is an unbounded mutex guarded slice.
	SliceQueue
)

func (k QueueKind) String() string {
	switch k {
	case LockFreeQueue:
		return "lockfree"
	case SliceQueue:
		return "slice"
	default:
		return fmt.Sprintf("QueueKind(%d)", uint8(k))
	}
}

// ParseQueueKind converts "lockfree" or "slice" to a QueueKind. An empty name selects LockFreeQueue.
func ParseQueueKind(name string) (QueueKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "lockfree", "lock-free":
		return LockFreeQueue, nil
	case "slice":
		return SliceQueue, nil
	default:
		return LockFreeQueue, fmt.Errorf("%w: %q", ErrInvalidQueueKind, name)
	}
}

const slicePrealloc = 64

func newJobQueue(kind QueueKind) queue.Queue[job] {
	if kind == SliceQueue {
		return queue.NewSliceQueue[job](slicePrealloc)
	}

	return queue.NewLockFreeQueue[job]()
}

// Config represents the configuration of a dispatcher.
// It is immutable once the dispatcher is spawned.
type Config struct {
	// name identifies the dispatcher in logs and names the worker task.
	// Defaults to "hal-worker".
	name string

	// queueKind selects the queue implementation.
	// Defaults to LockFreeQueue.
	queueKind QueueKind

	// startTimeout bounds how long Spawn waits for the worker goroutine to run.
	// Defaults to 5 seconds.
	startTimeout time.Duration

	// logger receives dispatcher logs. Defaults to logger.GetLogger().
	logger logger.Logger

	// recorder receives dispatch trace events. Defaults to trace.NopRecorder.
	recorder trace.Recorder
}

// NewConfig creates a dispatcher configuration with default values and applies opts in order.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		name:         "hal-worker",
		queueKind:    LockFreeQueue,
		startTimeout: task.DefaultStartTimeout,
		logger:       logger.GetLogger(),
		recorder:     trace.NopRecorder{},
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(cfg); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

func (cfg *Config) Name() string { return cfg.name }

func (cfg *Config) QueueKind() QueueKind { return cfg.queueKind }

func (cfg *Config) StartTimeout() time.Duration { return cfg.startTimeout }

func (cfg *Config) Logger() logger.Logger { return cfg.logger }

func (cfg *Config) Recorder() trace.Recorder { return cfg.recorder }

// Option represents a functional option for configuring a dispatcher.
type Option interface {
	apply(*Config) error
}

type optFunc struct {
	name      string
	applyFunc func(*Config) error
}

func (o *optFunc) apply(cfg *Config) error {
	if cfg == nil {
		return ErrConfigNil
	}

	return o.applyFunc(cfg)
}

func newOptFunc(name string, f func(*Config) error) *optFunc {
	return &optFunc{name: name, applyFunc: f}
}

// WithName sets the dispatcher name used in logs and as the worker task name.
// An error is returned if name is empty.
func WithName(name string) Option {
	return newOptFunc("WithName", func(cfg *Config) error {
		name = strings.TrimSpace(name)
		if name == "" {
			return ErrInvalidName
		}
		cfg.name = name

		return nil
	})
}

// WithQueue selects the queue implementation.
// An error is returned if kind is not LockFreeQueue or SliceQueue.
func WithQueue(kind QueueKind) Option {
	return newOptFunc("WithQueue", func(cfg *Config) error {
		if kind != LockFreeQueue && kind != SliceQueue {
			return fmt.Errorf("%w: %s", ErrInvalidQueueKind, kind)
		}
		cfg.queueKind = kind

		return nil
	})
}

// WithStartTimeout sets how long Spawn waits for the worker goroutine to start.
// It should be between 10 milliseconds and 60 seconds.
func WithStartTimeout(d time.Duration) Option {
	return newOptFunc("WithStartTimeout", func(cfg *Config) error {
		if d < 10*time.Millisecond || d > 60*time.Second {
			return fmt.Errorf("start timeout %s is out of range [10ms, 60s]", d)
		}
		cfg.startTimeout = d

		return nil
	})
}

// WithLogger sets the logger. A nil logger keeps the default one.
func WithLogger(l logger.Logger) Option {
	return newOptFunc("WithLogger", func(cfg *Config) error {
		if l != nil {
			cfg.logger = l
		}

		return nil
	})
}

// WithRecorder sets the trace recorder. A nil recorder disables tracing.
//
// The recorder is called from submitting goroutines and from the worker, see trace.Recorder.
func WithRecorder(r trace.Recorder) Option {
	return newOptFunc("WithRecorder", func(cfg *Config) error {
		if r == nil {
			r = trace.NopRecorder{}
		}
		cfg.recorder = r

		return nil
	})
}
