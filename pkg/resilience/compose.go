package resilience

import (
	"context"
	"time"
)

// CompositeConfig stacks Timeout, Retry, and CircuitBreaker around a single
// call. Composition order is fixed per spec.md §4.7: Timeout innermost,
// Retry around it, CircuitBreaker outermost.
type CompositeConfig struct {
	Timeout time.Duration
	Retry   RetryPolicy
	Breaker *CircuitBreaker
}

// Compose builds a single func(context.Context) error that applies Timeout,
// then Retry, then CircuitBreaker, in that nesting order.
func Compose(cfg CompositeConfig) func(context.Context, func(context.Context) error) error {
	retry := NewRetry(cfg.Retry)
	return func(ctx context.Context, fn func(context.Context) error) error {
		timed := func(ctx context.Context) error {
			if cfg.Timeout <= 0 {
				return fn(ctx)
			}
			return WithTimeout(ctx, cfg.Timeout, fn)
		}
		retried := func(ctx context.Context) error {
			return retry.Execute(ctx, timed)
		}
		if cfg.Breaker == nil {
			return retried(ctx)
		}
		return cfg.Breaker.Execute(ctx, retried)
	}
}
