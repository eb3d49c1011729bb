package trace

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Filter narrows the events returned by a Reader.
// Zero-valued fields match every event.
type Filter struct {
	// DispatcherID matches the dispatcher instance exactly.
	DispatcherID string

	// Command matches the command name exactly.
	Command string

	// CommandID matches a single command when non-zero.
	CommandID uint64

	// Kind matches one dispatch step.
	Kind *Kind

	// FailedOnly keeps only events that carry an error.
	FailedOnly bool

	// Since keeps events at or after this time.
	Since time.Time

	// Until keeps events before this time.
	Until time.Time
}

// Match reports whether ev satisfies every criterion of f.
func (f *Filter) Match(ev Event) bool {
	if f.DispatcherID != "" && ev.DispatcherID != f.DispatcherID {
		return false
	}
	if f.Command != "" && ev.Command != f.Command {
		return false
	}
	if f.CommandID != 0 && ev.CommandID != f.CommandID {
		return false
	}
	if f.Kind != nil && ev.Kind != *f.Kind {
		return false
	}
	if f.FailedOnly && !ev.Failed() {
		return false
	}
	if !f.Since.IsZero() && ev.Timestamp.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && !ev.Timestamp.Before(f.Until) {
		return false
	}

	return true
}

// Reader streams events from a trace file.
type Reader struct {
	closer  io.Closer
	decoder *cbor.Decoder
	filter  Filter
}

// Open opens a trace file for reading every event.
func Open(path string) (*Reader, error) {
	return OpenFiltered(path, Filter{})
}

// OpenFiltered opens a trace file for reading the events matching filter.
func OpenFiltered(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	return &Reader{closer: f, decoder: newDecoder(f), filter: filter}, nil
}

// NewReader reads events from r. Close does not close r.
func NewReader(r io.Reader, filter Filter) *Reader {
	return &Reader{closer: nopCloser{}, decoder: newDecoder(r), filter: filter}
}

// Next returns the next matching event, or io.EOF at the end of the stream.
func (r *Reader) Next() (Event, error) {
	for {
		var ev Event
		if err := r.decoder.Decode(&ev); err != nil {
			if errors.Is(err, io.EOF) {
				return Event{}, io.EOF
			}

			return Event{}, err
		}

		if r.filter.Match(ev) {
			return ev, nil
		}
	}
}

// All reads the remaining matching events.
func (r *Reader) All() ([]Event, error) {
	var events []Event
	for {
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, ev)
	}
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.closer.Close()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
