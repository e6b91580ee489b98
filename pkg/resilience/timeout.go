package resilience

import (
	"context"
	"time"

	"github.com/chimera-labs/chimera/pkg/chimeraerrors"
)

// WithTimeout runs fn, bounded to d. If fn does not return within the
// budget, WithTimeout returns a timeout-flavored retryable error and
// abandons fn — cancellation reaches fn only if fn itself observes ctx.Done
// the way every I/O call in this codebase is required to (spec.md §4.7;
// pair with Retry to retry transient timeouts).
func WithTimeout(ctx context.Context, d time.Duration, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- fn(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return chimeraerrors.Wrap(chimeraerrors.KindSystem, "resilience.timeout",
			"operation exceeded timeout budget", ctx.Err()).WithRetryable(true)
	}
}
