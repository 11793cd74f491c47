package clock

import "time"

// Timer is a pending callback that can be cancelled
type Timer interface {
	// Stop prevents the callback from firing, reporting whether it was still pending
	Stop() bool
}

// Clock provides time operations that can be mocked for testing
type Clock interface {
	Now() time.Time

	// AfterFunc runs f in its own goroutine once d has elapsed
	AfterFunc(d time.Duration, f func()) Timer
}

// RealClock implements Clock using the system time
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current time
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// AfterFunc schedules f on a runtime timer
func (c *RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
