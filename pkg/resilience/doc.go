/*
Package resilience implements C7: retry, circuit breaker, fallback, and
timeout as composable decorators around a func(context.Context) error
(spec.md §4.7).

Each primitive is independently usable. When stacked, the composition order
is fixed: Timeout innermost, Retry around it, Circuit Breaker outermost —
so a single call honors its deadline, retries honor that per-attempt
deadline, and the breaker counts logical call outcomes rather than
per-attempt noise. Compose builds that stack.

Retry wraps github.com/cenkalti/backoff/v4 for the EXPONENTIAL strategy and
implements LINEAR/CONSTANT directly, since backoff/v4 has no native linear
policy. CircuitBreaker wraps github.com/sony/gobreaker's generic
CircuitBreaker[any], translating its Counts-based state machine into the
named CLOSED/OPEN/HALF_OPEN registry spec.md §3 describes.
*/
package resilience
