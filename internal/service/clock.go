package service

import "time"

// Clock is the single source of "now" for elapsed-time computation and
// continuity-window checks. Injected so billing tests can run against a
// fixed time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall-clock implementation of Clock.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Ensure SystemClock implements Clock.
var _ Clock = SystemClock{}
