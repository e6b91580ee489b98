package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenario 3 (spec.md §8): breaker(threshold=3, recovery=0.1s). Three
// failing calls open the breaker; the fourth fails fast without invoking the
// function. After the recovery timeout, two successful calls transition
// CLOSED via HALF_OPEN.
func TestCircuitBreakerOpensAfterThresholdAndRecovers(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:             "downstream",
		FailureThreshold: 3,
		RecoveryTimeout:  100 * time.Millisecond,
	})

	boom := errors.New("boom")
	for i := 0; i < 3; i++ {
		err := cb.Execute(context.Background(), func(context.Context) error { return boom })
		require.Error(t, err)
	}
	assert.Equal(t, StateOpen, cb.State())

	invoked := false
	err := cb.Execute(context.Background(), func(context.Context) error {
		invoked = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, invoked, "fourth call must fail fast without invoking the wrapped function")

	time.Sleep(150 * time.Millisecond)

	require.NoError(t, cb.Execute(context.Background(), func(context.Context) error { return nil }))
	assert.Equal(t, StateHalfOpen, cb.State())
	require.NoError(t, cb.Execute(context.Background(), func(context.Context) error { return nil }))
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreakerRegistrySharesInstanceByName(t *testing.T) {
	registry := NewRegistry()
	a := registry.GetOrCreate(CircuitBreakerConfig{Name: "shared"})
	b := registry.GetOrCreate(CircuitBreakerConfig{Name: "shared"})
	assert.Same(t, a, b)

	snapshot := registry.Snapshot()
	assert.Equal(t, StateClosed, snapshot["shared"])
}

func TestCircuitBreakerResetForcesClosed(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "resettable", FailureThreshold: 1})
	boom := errors.New("boom")
	require.Error(t, cb.Execute(context.Background(), func(context.Context) error { return boom }))
	assert.Equal(t, StateOpen, cb.State())

	cb.Reset()
	assert.Equal(t, StateClosed, cb.State())
}
