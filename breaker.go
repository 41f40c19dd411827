package tangguh

import (
	"sync"
	"time"
)

// resilienceState tracks consecutive failures and the circuit cooldown for
// one Client. All reads and writes go through a single mutex; the lock is
// held only for counter updates, never across network calls or sleeps.
type resilienceState struct {
	mu            sync.Mutex
	failureStreak int
	openUntil     time.Time // zero value means the circuit is closed
}

// gate decides whether a request may proceed. When the circuit is open and
// the cooldown has not elapsed it returns open=true with the remaining
// duration. When the cooldown has elapsed it clears openUntil (the implicit
// half-open transition) and reports trial=true; the caller proceeds with a
// trial request. There is no single-trial gating: every caller arriving
// after expiry proceeds.
func (s *resilienceState) gate(now time.Time) (remaining time.Duration, open, trial bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.openUntil.IsZero() {
		return 0, false, false
	}
	if now.Before(s.openUntil) {
		return s.openUntil.Sub(now), true, false
	}
	s.openUntil = time.Time{}
	return 0, false, true
}

// recordSuccess fully resets the state: streak to zero, circuit closed.
func (s *resilienceState) recordSuccess() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failureStreak = 0
	s.openUntil = time.Time{}
}

// recordFailure increments the failure streak and opens the circuit once the
// streak reaches threshold, resetting the streak to zero. It returns the
// streak after the increment and whether this failure opened the circuit.
func (s *resilienceState) recordFailure(now time.Time, threshold int, reset time.Duration) (streak int, opened bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failureStreak++
	streak = s.failureStreak
	if s.failureStreak >= threshold {
		s.openUntil = now.Add(reset)
		s.failureStreak = 0
		opened = true
	}
	return streak, opened
}

// snapshot returns the current counters without mutating them. openness is
// recomputed against now so an elapsed cooldown reads as closed even though
// openUntil is still set; the stored timestamp is only cleared by the next
// request passing the gate.
func (s *resilienceState) snapshot(now time.Time) (streak int, openUntil time.Time, open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	open = !s.openUntil.IsZero() && now.Before(s.openUntil)
	return s.failureStreak, s.openUntil, open
}

// ResilienceSnapshot is a point-in-time view of a Client's failure tracking,
// exposed for metrics and health reporting.
type ResilienceSnapshot struct {
	// FailureStreak is the number of consecutive failures since the last
	// success or circuit-open event.
	FailureStreak int

	// OpenUntil is the raw cooldown deadline; zero when the circuit has not
	// been opened (or was cleared by a successful exchange).
	OpenUntil time.Time

	// CircuitOpen reports whether a request issued now would be rejected.
	CircuitOpen bool

	// MaxRetries is the configured retry limit.
	MaxRetries int
}

// ResilienceState returns a snapshot of the client's failure streak and
// circuit status. Reading the snapshot never mutates the cooldown state.
func (c *Client) ResilienceState() ResilienceSnapshot {
	streak, openUntil, open := c.state.snapshot(c.clock.Now())
	return ResilienceSnapshot{
		FailureStreak: streak,
		OpenUntil:     openUntil,
		CircuitOpen:   open,
		MaxRetries:    c.maxRetries,
	}
}
