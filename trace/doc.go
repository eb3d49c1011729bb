// Package trace records the life of every command that passes through a hal dispatcher.
//
// A Recorder receives one Event per state change of a command: submitted, executing,
// completed and abandoned. FileRecorder appends events to a CBOR encoded ".htrace" file
// and Reader streams them back, optionally narrowed by a Filter:
//
//	rec, err := trace.NewFileRecorder("/var/log/fpga/dispatch.htrace")
//	if err != nil {
//	    return err
//	}
//	defer rec.Close()
//
//	sender, err := hal.Spawn(ctx, hal.WithRecorder(rec))
//
// LoggerRecorder forwards events to a logger.Logger at debug level and MultiRecorder fans
// out to several recorders.
package trace
