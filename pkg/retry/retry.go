// Package retry implements bounded retry with exponential backoff for calls
// to unreliable external services (SMTP, object storage, realtime push).
package retry

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// Policy configures the retry behavior.
type Policy struct {
	// MaxAttempts is the total number of tries, including the first one.
	MaxAttempts int
	// BaseDelay is the delay before the first retry.
	BaseDelay time.Duration
	// MaxDelay caps the backoff growth.
	MaxDelay time.Duration
	// Multiplier grows the delay per attempt.
	Multiplier float64
	// Jitter adds randomness to each delay (0.0 to 1.0).
	Jitter float64
}

// DefaultPolicy matches the historical behavior: one try plus three retries,
// delay doubling per attempt, capped at ten seconds.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 4,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    10 * time.Second,
		Multiplier:  2.0,
		Jitter:      0.1,
	}
}

// Do runs fn until it succeeds, the attempts are exhausted, or ctx is
// cancelled. On exhaustion the last error is returned.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.delay(attempt)):
			}
		}

		if lastErr = fn(); lastErr == nil {
			return nil
		}
	}
	return lastErr
}

// delay computes the backoff for the given retry attempt (attempt >= 1).
func (p Policy) delay(attempt int) time.Duration {
	base := p.BaseDelay
	if base <= 0 {
		base = 100 * time.Millisecond
	}
	multiplier := p.Multiplier
	if multiplier < 1 {
		multiplier = 2.0
	}

	d := time.Duration(float64(base) * math.Pow(multiplier, float64(attempt-1)))
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	if p.Jitter > 0 {
		// Spread delays by +-jitter to avoid synchronized retries.
		delta := (rand.Float64()*2 - 1) * p.Jitter * float64(d)
		d = time.Duration(float64(d) + delta)
	}
	if d < 0 {
		d = 0
	}
	return d
}
