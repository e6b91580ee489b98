package resilience

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackRunsOnPrimaryFailure(t *testing.T) {
	f := WithFallback(
		func(context.Context) error { return errors.New("primary down") },
		func(_ context.Context, err error) error { return nil },
		nil,
	)
	assert.NoError(t, f.Execute(context.Background()))
}

func TestFallbackSkippedWhenPrimarySucceeds(t *testing.T) {
	fallbackCalled := false
	f := WithFallback(
		func(context.Context) error { return nil },
		func(_ context.Context, err error) error { fallbackCalled = true; return nil },
		nil,
	)
	require.NoError(t, f.Execute(context.Background()))
	assert.False(t, fallbackCalled)
}

func TestFallbackConditionCanRejectFailover(t *testing.T) {
	primaryErr := errors.New("not eligible for fallback")
	f := WithFallback(
		func(context.Context) error { return primaryErr },
		func(_ context.Context, err error) error { return nil },
		func(err error) bool { return false },
	)
	err := f.Execute(context.Background())
	assert.ErrorIs(t, err, primaryErr)
}
