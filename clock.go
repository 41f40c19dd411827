package tangguh

import "time"

// Clock abstracts the time source used for circuit breaker cooldown
// arithmetic so tests can control the passage of time. The time.Time values
// returned by the real clock carry a monotonic reading, so cooldown
// comparisons are unaffected by wall-clock adjustments.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
	// Since returns the duration elapsed since t.
	Since(t time.Time) time.Duration
}

// realClock is a zero-value Clock backed by the time package.
type realClock struct{}

func (realClock) Now() time.Time                  { return time.Now() }
func (realClock) Since(t time.Time) time.Duration { return time.Since(t) }
