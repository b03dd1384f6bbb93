// Package clock provides the wall-clock capability the timer-driven
// mechanisms (Dutch, English, Japanese, candle, penny) and the
// controller's finalization poll loop depend on, so tests can drive time
// deterministically instead of sleeping on the real clock.
package clock

import "time"

// Clock abstracts wall-clock progression.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
	After(d time.Duration) <-chan time.Time
}

// Real is the production Clock backed by the OS clock.
type Real struct{}

func (Real) Now() time.Time                         { return time.Now() }
func (Real) Sleep(d time.Duration)                  { time.Sleep(d) }
func (Real) After(d time.Duration) <-chan time.Time { return time.After(d) }

// System is the default Clock used when none is supplied.
var System Clock = Real{}
