package hal

import "errors"

var (
	// ErrSubmission indicates that a command could not be handed to the worker.
	// It is always joined with ErrSenderClosed or ErrWorkerGone, or ErrNilCommand.
	ErrSubmission = errors.New("command submission failed")

	// ErrSenderClosed indicates that the CommandSender used for submission was already closed.
	ErrSenderClosed = errors.New("command sender closed")

	// ErrWorkerGone indicates that the hardware worker terminated before the command completed,
	// or that it is no longer accepting commands.
	ErrWorkerGone = errors.New("hardware worker gone")

	// ErrNilCommand indicates that a nil command was submitted.
	ErrNilCommand = errors.New("nil command")
)

var (
	// ErrWaitTimeout indicates that a bounded wait elapsed before the command resolved.
	// The command is not cancelled and the future stays valid.
	ErrWaitTimeout = errors.New("timeout waiting for command result")
)

var (
	// ErrInvalidQueueKind indicates an unknown queue kind name or value.
	ErrInvalidQueueKind = errors.New("invalid queue kind")

	// ErrInvalidName indicates an empty dispatcher name.
	ErrInvalidName = errors.New("dispatcher name is empty")

	// ErrConfigNil indicates that a nil Config was provided.
	ErrConfigNil = errors.New("dispatcher config is nil")
)

// IsDispatchError reports whether err means the dispatch subsystem itself is unusable,
// as opposed to a failure returned by the command's own execution.
func IsDispatchError(err error) bool {
	return errors.Is(err, ErrSubmission) || errors.Is(err, ErrWorkerGone) || errors.Is(err, ErrSenderClosed)
}
