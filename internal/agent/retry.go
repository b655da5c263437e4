package agent

import (
	"context"
	"math/rand"
	"time"
)

// RetryPolicy governs how model backend calls are retried. Delay grows
// exponentially per attempt, with optional jitter to avoid lockstep retries.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Jitter      bool
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: 500 * time.Millisecond, Jitter: true}
}

// Do runs fn until it succeeds, attempts run out, or the context ends. The
// last error is returned when all attempts fail.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := p.BaseDelay * time.Duration(1<<uint(attempt-1))
			if jitter := int64(delay) / 2; p.Jitter && jitter > 0 {
				delay += time.Duration(rand.Int63n(jitter))
			}
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return lastErr
		}
	}
	return lastErr
}
