package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/chimera-labs/chimera/pkg/chimeraerrors"
	"github.com/chimera-labs/chimera/pkg/metrics"
)

func breakerStateValue(s State) float64 {
	switch s {
	case StateHalfOpen:
		return 1
	case StateOpen:
		return 2
	default:
		return 0
	}
}

// State mirrors spec.md §3 CircuitBreakerState.state.
type State string

const (
	StateClosed   State = "CLOSED"
	StateOpen     State = "OPEN"
	StateHalfOpen State = "HALF_OPEN"
)

// CircuitBreakerConfig configures a named breaker (spec.md §4.7).
type CircuitBreakerConfig struct {
	Name             string
	FailureThreshold uint32
	RecoveryTimeout  time.Duration
	OnStateChange    func(name string, from, to State)
}

// CircuitBreaker prevents cascading failures by failing fast once
// FailureThreshold consecutive failures are observed, recovering through a
// HALF_OPEN probe phase after RecoveryTimeout. It wraps gobreaker's generic
// CircuitBreaker[any], whose own half-open semantics (MaxRequests consecutive
// successes closes the breaker) already match spec.md §4.7's "two successes
// since half-open closes it" transition when MaxRequests is set to 2.
type CircuitBreaker struct {
	name string
	cfg  CircuitBreakerConfig
	cb   *gobreaker.CircuitBreaker[any]
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.RecoveryTimeout <= 0 {
		cfg.RecoveryTimeout = 30 * time.Second
	}
	return &CircuitBreaker{name: cfg.Name, cfg: cfg, cb: newGobreaker(cfg)}
}

func newGobreaker(cfg CircuitBreakerConfig) *gobreaker.CircuitBreaker[any] {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 2,
		Interval:    0,
		Timeout:     cfg.RecoveryTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
	}
	settings.OnStateChange = func(name string, from, to gobreaker.State) {
		toState := translateState(to)
		metrics.BreakerState.WithLabelValues(name).Set(breakerStateValue(toState))
		if toState == StateOpen {
			metrics.BreakerTripsTotal.WithLabelValues(name).Inc()
		}
		if cfg.OnStateChange != nil {
			cfg.OnStateChange(name, translateState(from), toState)
		}
	}
	return gobreaker.NewCircuitBreaker[any](settings)
}

func translateState(s gobreaker.State) State {
	switch s {
	case gobreaker.StateOpen:
		return StateOpen
	case gobreaker.StateHalfOpen:
		return StateHalfOpen
	default:
		return StateClosed
	}
}

// Execute runs fn through the breaker. When the breaker is OPEN, fn is never
// invoked and Execute fails fast with a retryable "service unavailable"
// error (spec.md §4.7).
func (b *CircuitBreaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, fn(ctx)
	})
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return chimeraerrors.New(chimeraerrors.KindSystem, "resilience.circuit_open",
			"circuit breaker \""+b.name+"\" is open").WithRetryable(true)
	}
	return err
}

// State reports the breaker's current state.
func (b *CircuitBreaker) State() State {
	return translateState(b.cb.State())
}

// Reset forces the breaker back to CLOSED. gobreaker has no native reset, so
// this recreates the underlying breaker with the same settings as the
// simplest way to clear accumulated counts without duplicating its internal
// state machine.
func (b *CircuitBreaker) Reset() {
	b.cb = newGobreaker(b.cfg)
}

// Registry is a process-wide, named lookup of circuit breakers so operators
// can introspect breaker state (spec.md §3 "Named breakers may be registered
// globally for introspection").
type Registry struct {
	mu       sync.RWMutex
	breakers map[string]*CircuitBreaker
}

func NewRegistry() *Registry {
	return &Registry{breakers: make(map[string]*CircuitBreaker)}
}

// GetOrCreate returns the named breaker, creating it with cfg on first use.
func (r *Registry) GetOrCreate(cfg CircuitBreakerConfig) *CircuitBreaker {
	r.mu.RLock()
	cb, ok := r.breakers[cfg.Name]
	r.mu.RUnlock()
	if ok {
		return cb
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cb, ok := r.breakers[cfg.Name]; ok {
		return cb
	}
	cb = NewCircuitBreaker(cfg)
	r.breakers[cfg.Name] = cb
	return cb
}

// Snapshot returns the current state of every registered breaker, keyed by
// name. (`chimera inspect breakers` does not use it; that command reads the
// chimera_breaker_state metric from a running agent's /metrics endpoint.)
func (r *Registry) Snapshot() map[string]State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]State, len(r.breakers))
	for name, cb := range r.breakers {
		out[name] = cb.State()
	}
	return out
}
