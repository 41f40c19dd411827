// Package backoff provides delay strategies for the retry loop.
package backoff

import (
	"math/rand/v2"
	"time"
)

// Strategy computes the delay before a retry attempt.
type Strategy interface {
	// Delay returns the duration to wait after the given attempt index
	// (0-indexed: attempt 0 is the first failed attempt).
	Delay(attempt int) time.Duration
}

// ExponentialJitter doubles a base factor per attempt and adds a uniform
// random jitter: Factor * 2^attempt + uniform(0, Jitter). The result for
// attempt a therefore lies in [Factor*2^a, Factor*2^a + Jitter].
type ExponentialJitter struct {
	Factor time.Duration
	Jitter time.Duration
}

// Delay implements Strategy.
func (s ExponentialJitter) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	// Clamp the exponent so the multiplication cannot overflow.
	if attempt > 30 {
		attempt = 30
	}

	delay := time.Duration(float64(s.Factor) * pow(2.0, attempt))
	if delay < 0 {
		delay = 0
	}
	if s.Jitter > 0 {
		delay += time.Duration(rand.Int64N(int64(s.Jitter) + 1))
	}
	return delay
}

// Constant returns the same delay for every attempt. Used mainly in tests
// and as a building block for custom strategies.
type Constant struct {
	D time.Duration
}

// Delay implements Strategy.
func (s Constant) Delay(int) time.Duration { return s.D }

// pow calculates base^exponent using integer exponentiation.
func pow(base float64, exponent int) float64 {
	result := 1.0
	for i := 0; i < exponent; i++ {
		result *= base
	}
	return result
}
