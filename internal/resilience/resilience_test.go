package resilience

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/errors"
)

func TestCircuitBreaker_Transitions(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 2, RecoveryTimeout: time.Minute, SuccessThreshold: 1})
	cb.now = func() time.Time { return now }

	failing := func() error { return errors.New("upstream down") }
	ok := func() error { return nil }

	require.Error(t, cb.Call(failing))
	assert.Equal(t, StateClosed, cb.State())
	require.Error(t, cb.Call(failing))
	assert.Equal(t, StateOpen, cb.State())

	var cbErr *CircuitBreakerError
	require.ErrorAs(t, cb.Call(ok), &cbErr)

	now = now.Add(2 * time.Minute)
	require.NoError(t, cb.Call(ok))
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, 0, cb.Failures())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, RecoveryTimeout: time.Minute})
	cb.now = func() time.Time { return now }

	require.Error(t, cb.Call(func() error { return errors.New("down") }))
	now = now.Add(2 * time.Minute)
	require.Error(t, cb.Call(func() error { return errors.New("still down") }))

	assert.Equal(t, StateOpen, cb.State())
	assert.Equal(t, "open", cb.Stats()["state"])
}

func TestRetryWithConfig(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, BackoffFactor: 2}

	t.Run("retries retryable errors", func(t *testing.T) {
		attempts := 0
		err := RetryWithConfig(context.Background(), cfg, func() error {
			attempts++
			if attempts < 3 {
				return apperrors.NewNetworkError("flaky", nil)
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("stops on non-retryable errors", func(t *testing.T) {
		attempts := 0
		err := RetryWithConfig(context.Background(), cfg, func() error {
			attempts++
			return apperrors.NewValidationError("bad", nil)
		})
		require.Error(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("honours cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := RetryWithConfig(ctx, cfg, func() error { return nil })
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestCalculateDelay(t *testing.T) {
	cfg := RetryConfig{InitialDelay: 100 * time.Millisecond, MaxDelay: time.Second, BackoffFactor: 2}

	assert.Equal(t, 100*time.Millisecond, calculateDelay(cfg, 0))
	assert.Equal(t, 400*time.Millisecond, calculateDelay(cfg, 2))
	assert.Equal(t, time.Second, calculateDelay(cfg, 10))

	cfg.JitterEnabled = true
	d := calculateDelay(cfg, 0)
	assert.GreaterOrEqual(t, d, 100*time.Millisecond)
	assert.Less(t, d, 110*time.Millisecond)
}

func TestIsRetryableHTTPStatus(t *testing.T) {
	for _, code := range []int{408, 429, 500, 502, 503, 504} {
		assert.True(t, isRetryableHTTPStatus(code), code)
	}
	for _, code := range []int{200, 400, 401, 403, 404} {
		assert.False(t, isRetryableHTTPStatus(code), code)
	}
	assert.Equal(t, "unexpected status 503: 503 Service Unavailable",
		NewHTTPError(http.StatusServiceUnavailable, "503 Service Unavailable").Error())
}
