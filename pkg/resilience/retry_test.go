package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chimera-labs/chimera/pkg/chimeraerrors"
)

// Scenario 2 (spec.md §8): retry succeeds on the third attempt, with
// exponential delays of ~0.01s then ~0.02s and no jitter.
func TestRetrySucceedsOnThirdAttempt(t *testing.T) {
	results := []error{errors.New("fail"), errors.New("fail"), nil}
	calls := 0
	var delays []time.Duration

	r := NewRetry(RetryPolicy{
		MaxAttempts: 3,
		Strategy:    StrategyExponential,
		BaseDelay:   10 * time.Millisecond,
		MaxDelay:    time.Second,
		RetryIf:     func(error) bool { return true },
		OnRetry: func(attempt int, err error, delay time.Duration) {
			delays = append(delays, delay)
		},
	})

	err := r.Execute(context.Background(), func(context.Context) error {
		defer func() { calls++ }()
		return results[calls]
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	require.Len(t, delays, 2)
	assert.InDelta(t, 10*time.Millisecond, delays[0], float64(2*time.Millisecond))
	assert.InDelta(t, 20*time.Millisecond, delays[1], float64(2*time.Millisecond))
}

// Scenario 4 (spec.md §8): a non-retryable domain error is raised on the
// first attempt; the wrapped function is invoked exactly once.
func TestRetryDoesNotRetryNonRetryableError(t *testing.T) {
	calls := 0
	nonRetryable := chimeraerrors.New(chimeraerrors.KindUser, "domain.bad_request", "bad input").
		WithRetryable(false)

	r := NewRetry(RetryPolicy{MaxAttempts: 5, BaseDelay: time.Millisecond})

	err := r.Execute(context.Background(), func(context.Context) error {
		calls++
		return nonRetryable
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, nonRetryable)
}

func TestRetryStrategiesComputeExpectedDelays(t *testing.T) {
	linear := NewRetry(RetryPolicy{Strategy: StrategyLinear, BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second})
	assert.Equal(t, 100*time.Millisecond, linear.delay(0))
	assert.Equal(t, 200*time.Millisecond, linear.delay(1))
	assert.Equal(t, 300*time.Millisecond, linear.delay(2))

	constant := NewRetry(RetryPolicy{Strategy: StrategyConstant, BaseDelay: 50 * time.Millisecond, MaxDelay: time.Second})
	assert.Equal(t, 50*time.Millisecond, constant.delay(0))
	assert.Equal(t, 50*time.Millisecond, constant.delay(5))

	exp := NewRetry(RetryPolicy{Strategy: StrategyExponential, BaseDelay: 10 * time.Millisecond, MaxDelay: 35 * time.Millisecond})
	assert.Equal(t, 10*time.Millisecond, exp.delay(0))
	assert.Equal(t, 20*time.Millisecond, exp.delay(1))
	assert.Equal(t, 35*time.Millisecond, exp.delay(2)) // capped by MaxDelay
}

func TestRetryExhaustionWrapsLastError(t *testing.T) {
	boom := errors.New("boom")
	r := NewRetry(RetryPolicy{MaxAttempts: 2, BaseDelay: time.Millisecond, RetryIf: func(error) bool { return true }})

	err := r.Execute(context.Background(), func(context.Context) error {
		return boom
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
