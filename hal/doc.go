// Package hal serializes access to a single FPGA hardware interface.
//
// Any number of goroutines may talk to the hardware, but none of them touches it directly.
// Each one builds a Command and submits it through a CommandSender. A single worker
// goroutine, started by Spawn, executes the commands one at a time in submission order
// against the only HardwareContext, and writes each result exactly once into the
// CommandFuture returned at submission:
//
//	sender, err := hal.Spawn(ctx, hal.WithName("fpga"))
//	if err != nil {
//	    return err
//	}
//	defer sender.Close()
//
//	future, err := hal.SubmitFunc(sender, "ReadDIO", func(hw *hal.HardwareContext) (bool, error) {
//	    return dio.Read(hw, h)
//	})
//	if err != nil {
//	    return err // the dispatcher is unusable
//	}
//
//	level, err := future.Wait()
//
// # Ordering
//
// All commands from all senders run in the single order in which they reached the queue.
// A command runs to completion before the next one starts; there is never more than one
// hardware operation in flight.
//
// # Termination
//
// The worker stops when every clone of the sender has been closed, when the context given
// to Spawn is done, or when a command panics. It never interrupts a running command, except
// by panicking out of it. Commands still queued when it stops, and a command that panicked,
// resolve with ErrWorkerGone. Later submissions fail with ErrSubmission.
//
// # Errors
//
// A command's own error is returned unmodified from the future. IsDispatchError reports
// whether an error comes from the dispatcher instead.
package hal
