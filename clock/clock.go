// Package clock abstracts time for injectable services. Bind Clock to
// System in production wiring and to a Synthetic in tests.
package clock

import "time"

// Clock tells time and sleeps.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
	Sleep(d time.Duration)
}

// System is the real wall clock.
type System struct{}

// NewSystem returns the wall clock.
func NewSystem() *System {
	return &System{}
}

func (*System) Now() time.Time {
	return time.Now()
}

func (*System) Since(t time.Time) time.Duration {
	return time.Since(t)
}

func (*System) Sleep(d time.Duration) {
	time.Sleep(d)
}
