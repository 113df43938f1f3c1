package resilience

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// Backoff configures Retry. Zero fields take the defaults noted below.
type Backoff struct {
	// Attempts is the total number of calls including the first (default: 3).
	Attempts int
	// Initial is the wait after the first failure (default: 1s).
	Initial time.Duration
	// Max caps any single wait (default: 30s).
	Max time.Duration
	// Factor multiplies the wait after each failure (default: 2).
	Factor float64
	// Jitter spreads each wait by up to this fraction in either direction.
	Jitter float64
	// Retryable reports whether err is worth another attempt. Context
	// errors never are.
	Retryable func(err error) bool
	// OnRetry is called before each wait.
	OnRetry func(attempt int, err error, wait time.Duration)
}

func (b *Backoff) applyDefaults() {
	if b.Attempts <= 0 {
		b.Attempts = 3
	}
	if b.Initial <= 0 {
		b.Initial = time.Second
	}
	if b.Max <= 0 {
		b.Max = 30 * time.Second
	}
	if b.Factor < 1 {
		b.Factor = 2
	}
}

// Wait returns the delay after the given failed attempt (1-based).
func (b Backoff) Wait(attempt int) time.Duration {
	b.applyDefaults()
	wait := float64(b.Initial)
	for i := 1; i < attempt; i++ {
		wait *= b.Factor
		if wait >= float64(b.Max) {
			break
		}
	}
	if b.Jitter > 0 {
		wait += wait * b.Jitter * (rand.Float64()*2 - 1)
	}
	return time.Duration(min(max(wait, 0), float64(b.Max)))
}

// Retry calls fn until it succeeds, returns a non-retryable error, the
// attempts are used up or ctx is done. The last error is wrapped with the
// attempt count.
func Retry[T any](ctx context.Context, b Backoff, fn func(ctx context.Context, attempt int) (T, error)) (T, error) {
	b.applyDefaults()
	var zero T
	var err error
	for attempt := 1; attempt <= b.Attempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}

		var result T
		result, err = fn(ctx, attempt)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return zero, err
		}
		if b.Retryable != nil && !b.Retryable(err) {
			return zero, err
		}
		if attempt == b.Attempts {
			break
		}

		wait := b.Wait(attempt)
		if b.OnRetry != nil {
			b.OnRetry(attempt, err, wait)
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
	return zero, fmt.Errorf("after %d attempts: %w", b.Attempts, err)
}
