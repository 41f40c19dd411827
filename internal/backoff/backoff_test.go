package backoff

import (
	"testing"
	"time"
)

func TestExponentialJitterBounds(t *testing.T) {
	strategy := ExponentialJitter{
		Factor: 100 * time.Millisecond,
		Jitter: 50 * time.Millisecond,
	}

	for attempt := 0; attempt < 5; attempt++ {
		floor := time.Duration(float64(strategy.Factor) * pow(2.0, attempt))
		ceiling := floor + strategy.Jitter

		for i := 0; i < 100; i++ {
			delay := strategy.Delay(attempt)
			if delay < floor || delay > ceiling {
				t.Fatalf("attempt %d: delay %v outside [%v, %v]", attempt, delay, floor, ceiling)
			}
		}
	}
}

func TestExponentialJitterZeroJitterIsDeterministic(t *testing.T) {
	strategy := ExponentialJitter{Factor: 250 * time.Millisecond}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 250 * time.Millisecond},
		{1, 500 * time.Millisecond},
		{2, time.Second},
		{3, 2 * time.Second},
	}
	for _, tt := range tests {
		if got := strategy.Delay(tt.attempt); got != tt.want {
			t.Errorf("Delay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestExponentialJitterClampsAttempt(t *testing.T) {
	strategy := ExponentialJitter{Factor: time.Nanosecond}

	if got := strategy.Delay(-5); got != strategy.Delay(0) {
		t.Errorf("negative attempt should clamp to 0, got %v", got)
	}

	// Very large attempts clamp to a finite exponent instead of overflowing.
	if got := strategy.Delay(1000); got < 0 {
		t.Errorf("expected non-negative delay for large attempt, got %v", got)
	}
}

func TestConstant(t *testing.T) {
	strategy := Constant{D: 42 * time.Millisecond}
	for attempt := 0; attempt < 4; attempt++ {
		if got := strategy.Delay(attempt); got != 42*time.Millisecond {
			t.Errorf("Delay(%d) = %v, want 42ms", attempt, got)
		}
	}
}
