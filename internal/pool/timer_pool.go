// Package pool provides pooled timers used for bounded waits on command futures.
package pool

import (
	"sync"
	"time"
)

var timerPool sync.Pool

// GetTimer returns a timer for the given duration d from the pool.
//
// Return back the timer to the pool with PutTimer.
func GetTimer(d time.Duration) *time.Timer {
	if v := timerPool.Get(); v != nil {
		t, _ := v.(*time.Timer) // only *time.Timer is put into the pool
		if t.Reset(d) {
			// timer was active, drain the channel to prevent a stale fire
			select {
			case <-t.C:
			default:
			}
		}

		return t
	}

	return time.NewTimer(d)
}

// PutTimer stops t and returns it to the pool.
//
// t cannot be accessed after returning to the pool.
func PutTimer(t *time.Timer) {
	if !t.Stop() {
		// drain t.C if it wasn't obtained by the caller yet
		select {
		case <-t.C:
		default:
		}
	}
	timerPool.Put(t)
}

// After waits until d elapses or done is closed, using a pooled timer.
// It returns true if done was closed first.
func After(d time.Duration, done <-chan struct{}) bool {
	t := GetTimer(d)
	defer PutTimer(t)

	select {
	case <-done:
		return true
	case <-t.C:
		return false
	}
}
