package trace

import (
	"errors"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"

	"github.com/arloliu/go-fpgahal/logger"
)

// Recorder receives dispatch events.
//
// Record is called from the submitting goroutine for KindSubmitted and from the worker
// goroutine for every other kind, so implementations must be safe for concurrent use.
// Record must not block for long: it runs on the worker between hardware commands.
type Recorder interface {
	Record(ev Event)
}

// NopRecorder discards all events.
type NopRecorder struct{}

func (NopRecorder) Record(Event) {}

var _ Recorder = NopRecorder{}

// FileRecorder appends CBOR encoded events to a file.
type FileRecorder struct {
	mu      sync.Mutex
	file    *os.File
	encoder *cbor.Encoder
	closed  bool
	errs    int
}

var _ Recorder = (*FileRecorder)(nil)

// NewFileRecorder opens path for appending, creating it with mode 0644 if needed.
func NewFileRecorder(path string) (*FileRecorder, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}

	return &FileRecorder{file: f, encoder: newEncoder(f)}, nil
}

// Record writes ev to the file. Events recorded after Close are dropped.
func (r *FileRecorder) Record(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	if err := r.encoder.Encode(ev); err != nil {
		r.errs++
	}
}

// WriteErrors returns the number of events that failed to encode or write.
func (r *FileRecorder) WriteErrors() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.errs
}

// Close closes the file. It is safe to call Close more than once.
func (r *FileRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	return r.file.Close()
}

// LoggerRecorder writes events to a logger.Logger at debug level.
type LoggerRecorder struct {
	logger logger.Logger
}

var _ Recorder = (*LoggerRecorder)(nil)

// NewLoggerRecorder creates a LoggerRecorder writing to l.
func NewLoggerRecorder(l logger.Logger) *LoggerRecorder {
	return &LoggerRecorder{logger: l}
}

func (r *LoggerRecorder) Record(ev Event) {
	kv := []any{"dispatcher", ev.DispatcherID, "id", ev.CommandID, "command", ev.Command}
	if ev.Kind == KindCompleted {
		kv = append(kv, "duration", ev.Duration)
	}
	if ev.Error != "" {
		kv = append(kv, "error", ev.Error)
	}

	r.logger.Debug("command "+ev.Kind.String(), kv...)
}

// MultiRecorder sends events to several recorders in order.
type MultiRecorder struct {
	recorders []Recorder
}

var _ Recorder = (*MultiRecorder)(nil)

// NewMultiRecorder creates a MultiRecorder. Nil recorders are skipped.
func NewMultiRecorder(recorders ...Recorder) *MultiRecorder {
	m := &MultiRecorder{}
	for _, r := range recorders {
		if r != nil {
			m.recorders = append(m.recorders, r)
		}
	}

	return m
}

func (m *MultiRecorder) Record(ev Event) {
	for _, r := range m.recorders {
		r.Record(ev)
	}
}

// Close closes every recorder that implements io.Closer and joins their errors.
func (m *MultiRecorder) Close() error {
	var errs []error
	for _, r := range m.recorders {
		if c, ok := r.(interface{ Close() error }); ok {
			errs = append(errs, c.Close())
		}
	}

	return errors.Join(errs...)
}
