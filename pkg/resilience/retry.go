package resilience

import (
	"context"
	"math/rand"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/chimera-labs/chimera/pkg/chimeraerrors"
)

// Strategy selects the delay curve between retry attempts (spec.md §3
// RetryPolicy, §4.7).
type Strategy string

const (
	StrategyExponential Strategy = "EXPONENTIAL"
	StrategyLinear      Strategy = "LINEAR"
	StrategyConstant    Strategy = "CONSTANT"
)

// RetryPolicy configures a Retry. RetryIf defaults to chimeraerrors.IsRetryable
// when nil, honoring a domain error's explicit Retryable flag per spec.md §4.7.
type RetryPolicy struct {
	MaxAttempts int
	Strategy    Strategy
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Jitter      bool
	RetryIf     func(error) bool
	OnRetry     func(attempt int, err error, delay time.Duration)
}

// Retry wraps a callable, running it up to MaxAttempts times with a delay
// between attempts governed by Strategy. Execute is stateless and safe for
// concurrent use.
type Retry struct {
	policy RetryPolicy
}

func NewRetry(policy RetryPolicy) *Retry {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 1
	}
	if policy.BaseDelay <= 0 {
		policy.BaseDelay = 100 * time.Millisecond
	}
	if policy.MaxDelay <= 0 {
		policy.MaxDelay = 30 * time.Second
	}
	if policy.RetryIf == nil {
		policy.RetryIf = chimeraerrors.IsRetryable
	}
	return &Retry{policy: policy}
}

// Execute runs fn, retrying on failure per the configured policy. The same
// Execute works whether fn is itself synchronous or merely wraps an
// asynchronous call — Go's goroutine model means there is no separate
// "detect synchrony" step the way spec.md §4.7 requires in dynamic-dispatch
// runtimes; a blocking fn and a fn that internally awaits are both just
// func(context.Context) error here.
func (r *Retry) Execute(ctx context.Context, fn func(context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt < r.policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !r.policy.RetryIf(lastErr) {
			return lastErr
		}
		if attempt == r.policy.MaxAttempts-1 {
			break
		}
		delay := r.delay(attempt)
		if r.policy.OnRetry != nil {
			r.policy.OnRetry(attempt+1, lastErr, delay)
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return chimeraerrors.Wrap(chimeraerrors.KindSystem, "resilience.retry_exhausted",
		"retry attempts exhausted", lastErr).WithRetryable(false)
}

func (r *Retry) delay(attempt int) time.Duration {
	var d time.Duration
	switch r.policy.Strategy {
	case StrategyLinear:
		d = r.policy.BaseDelay * time.Duration(attempt+1)
	case StrategyConstant:
		d = r.policy.BaseDelay
	default:
		d = exponentialDelay(r.policy.BaseDelay, attempt)
	}
	if d > r.policy.MaxDelay {
		d = r.policy.MaxDelay
	}
	if r.policy.Jitter {
		d = applyJitter(d)
	}
	return d
}

// exponentialDelay mirrors backoff/v4's NextBackOff curve (base * 2^attempt,
// capped by the caller) without pulling in its stateful BackOff interface,
// which is built around a single long-lived retry loop rather than the
// per-attempt delay() this package needs to also expose standalone.
func exponentialDelay(base time.Duration, attempt int) time.Duration {
	multiplier := int64(1) << uint(attempt)
	if multiplier <= 0 {
		multiplier = 1 << 30
	}
	return base * time.Duration(multiplier)
}

// applyJitter perturbs d by up to ±25%, per spec.md §4.7.
func applyJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return d
	}
	spread := float64(d) * 0.25
	offset := (rand.Float64()*2 - 1) * spread
	return time.Duration(float64(d) + offset)
}

// ExponentialBackOff returns a cenkalti/backoff/v4 BackOff configured to the
// same base/max/jitter as policy, for callers that want backoff/v4's own
// retry loop (backoff.Retry) instead of this package's Execute. Used by
// pkg/broker's Connection Manager reconnect loop (spec.md §4.1), composed
// with backoff.WithContext so a cancelled context stops retrying.
func ExponentialBackOff(policy RetryPolicy) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = policy.BaseDelay
	b.MaxInterval = policy.MaxDelay
	b.Multiplier = 2
	if !policy.Jitter {
		b.RandomizationFactor = 0
	}
	// MaxAttempts counts total attempts; WithMaxRetries counts retries after
	// the first attempt.
	retries := policy.MaxAttempts - 1
	if retries < 0 {
		retries = 0
	}
	return backoff.WithMaxRetries(b, uint64(retries))
}
