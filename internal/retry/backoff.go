package retry

import (
	"math"
	"math/rand"
	"time"
)

// ExponentialBackoff computes retry delays that grow geometrically:
// the wait before retry attempt n (1-based) is initialDelay * multiplier^(n-1),
// optionally capped and jittered.
type ExponentialBackoff struct {
	initialDelay time.Duration
	multiplier   float64

	// cap bounds the delay; zero means uncapped
	cap time.Duration

	// jitter adds +/- jitter*delay randomness (0.0-1.0); zero disables it
	jitter float64

	// jitterFunc provides random values in [0, 1). Tests set this to a
	// deterministic function; nil means rand.Float64.
	jitterFunc func() float64
}

// BackoffOption is a functional option for configuring ExponentialBackoff.
type BackoffOption func(*ExponentialBackoff)

// WithInitialDelay sets the delay before the first retry attempt.
func WithInitialDelay(d time.Duration) BackoffOption {
	return func(b *ExponentialBackoff) { b.initialDelay = d }
}

// WithMultiplier sets the factor by which delay increases between attempts.
func WithMultiplier(m float64) BackoffOption {
	return func(b *ExponentialBackoff) { b.multiplier = m }
}

// WithCap bounds the delay between retry attempts. Zero means no bound.
func WithCap(d time.Duration) BackoffOption {
	return func(b *ExponentialBackoff) { b.cap = d }
}

// WithJitterFactor sets the jitter factor (0.0-1.0) added to delays.
func WithJitterFactor(j float64) BackoffOption {
	return func(b *ExponentialBackoff) { b.jitter = j }
}

// WithJitterFunc sets a custom source of random values for jitter.
func WithJitterFunc(f func() float64) BackoffOption {
	return func(b *ExponentialBackoff) { b.jitterFunc = f }
}

// NewExponentialBackoff creates an exponential backoff strategy.
// Defaults: 1s initial delay, multiplier 2, no cap, no jitter.
func NewExponentialBackoff(opts ...BackoffOption) *ExponentialBackoff {
	b := &ExponentialBackoff{
		initialDelay: time.Second,
		multiplier:   2.0,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.initialDelay <= 0 {
		b.initialDelay = time.Second
	}
	if b.multiplier <= 0 {
		b.multiplier = 2.0
	}
	return b
}

// Delay returns the wait before retry attempt n (1-based):
// initialDelay * multiplier^(n-1), capped, then jittered.
func (b *ExponentialBackoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	delay := float64(b.initialDelay) * math.Pow(b.multiplier, float64(attempt-1))
	if b.cap > 0 && delay > float64(b.cap) {
		delay = float64(b.cap)
	}

	if b.jitter > 0 {
		jitterFunc := b.jitterFunc
		if jitterFunc == nil {
			jitterFunc = rand.Float64
		}
		// Map [0,1) to [-1,1) and scale: delay * (1 +/- jitter)
		offset := (jitterFunc() - 0.5) * 2.0
		delay *= 1.0 + b.jitter*offset
	}

	if delay < 0 {
		delay = 0
	}
	return time.Duration(delay)
}

// InitialDelay returns the configured initial delay.
func (b *ExponentialBackoff) InitialDelay() time.Duration { return b.initialDelay }

// Multiplier returns the configured multiplier.
func (b *ExponentialBackoff) Multiplier() float64 { return b.multiplier }

// Cap returns the configured delay bound.
func (b *ExponentialBackoff) Cap() time.Duration { return b.cap }
