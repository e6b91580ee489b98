package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chimera-labs/chimera/pkg/chimeraerrors"
)

func TestWithTimeoutReturnsResultWithinBudget(t *testing.T) {
	err := WithTimeout(context.Background(), 50*time.Millisecond, func(context.Context) error {
		return nil
	})
	require.NoError(t, err)
}

func TestWithTimeoutFailsWhenBudgetExceeded(t *testing.T) {
	err := WithTimeout(context.Background(), 10*time.Millisecond, func(ctx context.Context) error {
		select {
		case <-time.After(time.Second):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	require.Error(t, err)
	var domainErr *chimeraerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.True(t, domainErr.Retryable)
}
