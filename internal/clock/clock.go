// Package clock abstracts time so lifecycle timings (cooldown, reservation
// deadlines, warmup retries) are testable without sleeping.
package clock

import "time"

// Clock time source
type Clock interface {
	Now() time.Time
}

// Real wall-clock time source
type Real struct{}

func (Real) Now() time.Time {
	return time.Now()
}

// Manual hand-advanced clock for tests. Not safe for concurrent use; the core
// is single-threaded and tests drive it from one goroutine.
type Manual struct {
	now time.Time
}

// NewManual starts a manual clock at the given instant
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	return m.now
}

// Advance moves the clock forward by d
func (m *Manual) Advance(d time.Duration) {
	m.now = m.now.Add(d)
}

// Set jumps the clock to t
func (m *Manual) Set(t time.Time) {
	m.now = t
}
