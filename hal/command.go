package hal

import (
	"fmt"

	"github.com/google/uuid"
)

// HardwareContext is the exclusive gate to the hardware.
//
// Exactly one HardwareContext exists per dispatcher. The worker goroutine creates it when it
// starts and passes it to every command it executes; it cannot be constructed or obtained
// anywhere else. A command must not retain it after Execute returns.
type HardwareContext struct {
	dispatcher uuid.UUID
	executed   uint64
}

func newHardwareContext(dispatcher uuid.UUID) *HardwareContext {
	return &HardwareContext{dispatcher: dispatcher}
}

// Command is a unit of hardware work producing a T.
//
// Execute runs on the worker goroutine, strictly after every command submitted before it
// and before every command submitted after it. An error returned by Execute is delivered to
// the caller unmodified.
type Command[T any] interface {
	Execute(hw *HardwareContext) (T, error)
}

// CommandFunc adapts an ordinary function to a Command.
type CommandFunc[T any] func(hw *HardwareContext) (T, error)

func (f CommandFunc[T]) Execute(hw *HardwareContext) (T, error) {
	return f(hw)
}

// Named is implemented by commands that report a name for logs and traces.
// Commands without a name are identified by their Go type.
type Named interface {
	Name() string
}

type namedCommand[T any] struct {
	name string
	fn   CommandFunc[T]
}

func (c namedCommand[T]) Execute(hw *HardwareContext) (T, error) {
	return c.fn(hw)
}

func (c namedCommand[T]) Name() string {
	return c.name
}

// NamedFunc wraps fn in a Command reporting name.
func NamedFunc[T any](name string, fn func(hw *HardwareContext) (T, error)) Command[T] {
	return namedCommand[T]{name: name, fn: fn}
}

func commandName(cmd any) string {
	if n, ok := cmd.(Named); ok {
		return n.Name()
	}

	return fmt.Sprintf("%T", cmd)
}

// job is a type erased command together with its completion slot.
type job interface {
	id() uint64
	name() string
	// execute runs the command and keeps its result. It returns the command error.
	execute(hw *HardwareContext) error
	// resolve publishes the result kept by execute.
	resolve()
	// abandon resolves the future with ErrWorkerGone unless it is already resolved.
	abandon() bool
}

type commandJob[T any] struct {
	cmd    Command[T]
	future *CommandFuture[T]
	val    T
	err    error
}

func (j *commandJob[T]) id() uint64 { return j.future.id }

func (j *commandJob[T]) name() string { return j.future.name }

func (j *commandJob[T]) execute(hw *HardwareContext) error {
	j.future.state.ToExecuting()
	hw.executed++

	j.val, j.err = j.cmd.Execute(hw)

	return j.err
}

func (j *commandJob[T]) resolve() {
	j.future.complete(j.val, j.err)
}

func (j *commandJob[T]) abandon() bool {
	return j.future.abandon()
}
