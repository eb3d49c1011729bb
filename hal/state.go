package hal

import "sync/atomic"

// CommandState is the dispatch state of a submitted command.
//
//	Submitted -> Queued -> Executing -> Completed
//	                 \          \
//	                  +----------+--> Abandoned
//
// Completed and Abandoned are terminal.
type CommandState uint32

const (
	StateSubmitted CommandState = iota
	StateQueued
	StateExecuting
	StateCompleted
	StateAbandoned
)

func (s CommandState) String() string {
	switch s {
	case StateSubmitted:
		return "Submitted"
	case StateQueued:
		return "Queued"
	case StateExecuting:
		return "Executing"
	case StateCompleted:
		return "Completed"
	case StateAbandoned:
		return "Abandoned"
	default:
		return "Unknown"
	}
}

// IsTerminal reports whether s is Completed or Abandoned.
func (s CommandState) IsTerminal() bool {
	return s == StateCompleted || s == StateAbandoned
}

type atomicState struct {
	state atomic.Uint32
}

func (st *atomicState) Get() CommandState {
	return CommandState(st.state.Load())
}

func (st *atomicState) ToQueued() bool {
	return st.state.CompareAndSwap(uint32(StateSubmitted), uint32(StateQueued))
}

func (st *atomicState) ToExecuting() bool {
	return st.state.CompareAndSwap(uint32(StateQueued), uint32(StateExecuting))
}

func (st *atomicState) ToCompleted() bool {
	return st.state.CompareAndSwap(uint32(StateExecuting), uint32(StateCompleted))
}

func (st *atomicState) ToAbandoned() bool {
	if st.state.CompareAndSwap(uint32(StateQueued), uint32(StateAbandoned)) {
		return true
	}

	return st.state.CompareAndSwap(uint32(StateExecuting), uint32(StateAbandoned))
}
