package trace

import (
	"fmt"
	"time"
)

// Kind is the dispatch step an Event describes.
type Kind uint8

const (
	// KindSubmitted is recorded when a command is accepted by a sender.
	KindSubmitted Kind = iota
	// KindExecuting is recorded when the worker starts executing a command.
	KindExecuting
	// KindCompleted is recorded when a command returned, successfully or with an error.
	KindCompleted
	// KindAbandoned is recorded when a command was resolved without running to completion.
	KindAbandoned
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindSubmitted:
		return "SUBMITTED"
	case KindExecuting:
		return "EXECUTING"
	case KindCompleted:
		return "COMPLETED"
	case KindAbandoned:
		return "ABANDONED"
	default:
		return fmt.Sprintf("KIND(%d)", uint8(k))
	}
}

// ParseKind converts a kind name, case sensitive as printed by String, to a Kind.
func ParseKind(name string) (Kind, bool) {
	for k := KindSubmitted; k <= KindAbandoned; k++ {
		if k.String() == name {
			return k, true
		}
	}

	return 0, false
}

// Event is a single dispatch trace record.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred.
	Timestamp time.Time `cbor:"1,keyasint"`

	// DispatcherID identifies the dispatcher instance (UUID).
	DispatcherID string `cbor:"2,keyasint"`

	// CommandID is the per-dispatcher command sequence number.
	CommandID uint64 `cbor:"3,keyasint"`

	// Command is the command name.
	Command string `cbor:"4,keyasint,omitempty"`

	// Kind is the dispatch step.
	Kind Kind `cbor:"5,keyasint"`

	// Duration is the execution time, set on completed events.
	Duration time.Duration `cbor:"6,keyasint,omitempty"`

	// Error is the command or dispatch error text, if any.
	Error string `cbor:"7,keyasint,omitempty"`
}

// Failed reports whether the event carries an error.
func (e Event) Failed() bool {
	return e.Error != ""
}

// String formats the event as a single line.
func (e Event) String() string {
	s := fmt.Sprintf("%s %s #%d %s", e.Timestamp.Format(time.RFC3339Nano), e.Kind, e.CommandID, e.Command)
	if e.Kind == KindCompleted {
		s += " " + e.Duration.String()
	}
	if e.Error != "" {
		s += " error=" + e.Error
	}

	return s
}
