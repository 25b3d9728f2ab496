// Package clock abstracts time so that countdown-driven game transitions can be
// tested deterministically instead of racing wall-clock timers.
package clock

import "time"

// Timer is a scheduled callback that can be stopped before it fires.
type Timer interface {
	// Stop prevents the timer from firing. It reports whether it stopped the
	// timer before the callback started.
	Stop() bool
}

// Clock tells the current time and schedules callbacks.
type Clock interface {
	Now() time.Time
	// AfterFunc schedules f to run after d has elapsed.
	AfterFunc(d time.Duration, f func()) Timer
}

// System is a Clock backed by the runtime timers.
type System struct{}

func NewSystem() System {
	return System{}
}

func (System) Now() time.Time {
	return time.Now()
}

func (System) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
