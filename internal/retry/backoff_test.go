package retry

import (
	"testing"
	"time"
)

func TestExponentialBackoff_DelayGrowth(t *testing.T) {
	b := NewExponentialBackoff(
		WithInitialDelay(100*time.Millisecond),
		WithMultiplier(2),
	)

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{4, 800 * time.Millisecond},
	}

	for _, tt := range tests {
		if got := b.Delay(tt.attempt); got != tt.want {
			t.Errorf("Delay(%d): expected %v, got %v", tt.attempt, tt.want, got)
		}
	}
}

func TestExponentialBackoff_Cap(t *testing.T) {
	b := NewExponentialBackoff(
		WithInitialDelay(100*time.Millisecond),
		WithMultiplier(2),
		WithCap(250*time.Millisecond),
	)

	if got := b.Delay(1); got != 100*time.Millisecond {
		t.Errorf("Delay(1): expected 100ms, got %v", got)
	}
	if got := b.Delay(2); got != 200*time.Millisecond {
		t.Errorf("Delay(2): expected 200ms, got %v", got)
	}
	// 400ms capped to 250ms
	if got := b.Delay(3); got != 250*time.Millisecond {
		t.Errorf("Delay(3): expected cap of 250ms, got %v", got)
	}
	if got := b.Delay(10); got != 250*time.Millisecond {
		t.Errorf("Delay(10): expected cap of 250ms, got %v", got)
	}
}

func TestExponentialBackoff_JitterDeterministic(t *testing.T) {
	// jitterFunc 0.5 maps to zero offset: delay unchanged
	b := NewExponentialBackoff(
		WithInitialDelay(100*time.Millisecond),
		WithMultiplier(2),
		WithJitterFactor(0.1),
		WithJitterFunc(func() float64 { return 0.5 }),
	)
	if got := b.Delay(1); got != 100*time.Millisecond {
		t.Errorf("Expected zero jitter offset at midpoint, got %v", got)
	}

	// jitterFunc 1.0 maps to the maximum positive offset: delay * 1.5
	b = NewExponentialBackoff(
		WithInitialDelay(100*time.Millisecond),
		WithJitterFactor(0.5),
		WithJitterFunc(func() float64 { return 1.0 }),
	)
	if got := b.Delay(1); got != 150*time.Millisecond {
		t.Errorf("Expected +50%% jitter, got %v", got)
	}

	// jitterFunc 0.0 maps to the maximum negative offset: delay * 0.5
	b = NewExponentialBackoff(
		WithInitialDelay(100*time.Millisecond),
		WithJitterFactor(0.5),
		WithJitterFunc(func() float64 { return 0.0 }),
	)
	if got := b.Delay(1); got != 50*time.Millisecond {
		t.Errorf("Expected -50%% jitter, got %v", got)
	}
}

func TestExponentialBackoff_JitterBounds(t *testing.T) {
	b := NewExponentialBackoff(
		WithInitialDelay(100*time.Millisecond),
		WithJitterFactor(0.2),
	)

	for i := 0; i < 100; i++ {
		got := b.Delay(1)
		// One nanosecond of slack for float truncation at the edges
		if got < 80*time.Millisecond-time.Nanosecond || got > 120*time.Millisecond {
			t.Fatalf("Jittered delay %v outside [80ms, 120ms]", got)
		}
	}
}

func TestExponentialBackoff_AttemptClamped(t *testing.T) {
	b := NewExponentialBackoff(WithInitialDelay(100 * time.Millisecond))

	if got := b.Delay(0); got != 100*time.Millisecond {
		t.Errorf("Delay(0): expected clamp to first attempt, got %v", got)
	}
	if got := b.Delay(-5); got != 100*time.Millisecond {
		t.Errorf("Delay(-5): expected clamp to first attempt, got %v", got)
	}
}

func TestExponentialBackoff_Defaults(t *testing.T) {
	b := NewExponentialBackoff()

	if b.InitialDelay() != time.Second {
		t.Errorf("Expected 1s default initial delay, got %v", b.InitialDelay())
	}
	if b.Multiplier() != 2.0 {
		t.Errorf("Expected multiplier 2.0, got %v", b.Multiplier())
	}
	if b.Cap() != 0 {
		t.Errorf("Expected no cap by default, got %v", b.Cap())
	}

	// Invalid values fall back to defaults
	b = NewExponentialBackoff(WithInitialDelay(-1), WithMultiplier(0))
	if b.InitialDelay() != time.Second || b.Multiplier() != 2.0 {
		t.Errorf("Expected invalid options replaced with defaults, got %v/%v",
			b.InitialDelay(), b.Multiplier())
	}
}
