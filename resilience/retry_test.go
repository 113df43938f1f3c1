package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")

func fast(attempts int) Backoff {
	return Backoff{Attempts: attempts, Initial: time.Millisecond, Max: 2 * time.Millisecond}
}

func TestRetry_SucceedsAfterFailures(t *testing.T) {
	var retries []int
	b := fast(3)
	b.OnRetry = func(attempt int, err error, _ time.Duration) {
		assert.ErrorIs(t, err, errTransient)
		retries = append(retries, attempt)
	}

	got, err := Retry(context.Background(), b, func(_ context.Context, attempt int) (string, error) {
		if attempt < 3 {
			return "", errTransient
		}
		return "connected", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "connected", got)
	assert.Equal(t, []int{1, 2}, retries)
}

func TestRetry_GivesUp(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), fast(4), func(context.Context, int) (int, error) {
		calls++
		return 0, errTransient
	})
	assert.ErrorIs(t, err, errTransient)
	assert.Contains(t, err.Error(), "after 4 attempts")
	assert.Equal(t, 4, calls)
}

func TestRetry_NonRetryable(t *testing.T) {
	permanent := errors.New("bad dsn")
	b := fast(5)
	b.Retryable = func(err error) bool { return !errors.Is(err, permanent) }

	calls := 0
	_, err := Retry(context.Background(), b, func(context.Context, int) (int, error) {
		calls++
		return 0, permanent
	})
	assert.Same(t, permanent, err)
	assert.Equal(t, 1, calls)
}

func TestRetry_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	b := Backoff{Attempts: 10, Initial: time.Hour}
	b.OnRetry = func(int, error, time.Duration) { cancel() }

	_, err := Retry(ctx, b, func(context.Context, int) (int, error) { return 0, errTransient })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBackoff_Wait(t *testing.T) {
	b := Backoff{Initial: time.Second, Max: 5 * time.Second, Factor: 2}
	assert.Equal(t, time.Second, b.Wait(1))
	assert.Equal(t, 2*time.Second, b.Wait(2))
	assert.Equal(t, 4*time.Second, b.Wait(3))
	assert.Equal(t, 5*time.Second, b.Wait(4))
	assert.Equal(t, 5*time.Second, b.Wait(40))

	b.Jitter = 0.5
	for range 20 {
		w := b.Wait(1)
		assert.GreaterOrEqual(t, w, 500*time.Millisecond)
		assert.LessOrEqual(t, w, 1500*time.Millisecond)
	}
}
