package clock

import "time"

// Clock is the source of round timing and audit timestamps
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

// New creates a new SystemClock
func New() *SystemClock {
	return &SystemClock{}
}

// Now returns the current time in UTC. The monotonic reading is stripped so
// a round start time compares equal after it has been through storage.
func (c *SystemClock) Now() time.Time {
	return time.Now().UTC()
}
