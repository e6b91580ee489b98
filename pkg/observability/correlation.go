package observability

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/chimera-labs/chimera/pkg/log"
)

type correlationIDKey struct{}

// WithCorrelationID returns a context carrying correlationID as the ambient
// value for the logical flow, the Go analogue of the source's process-wide
// context-var (spec.md §9). It does not mutate ctx's parent, so sibling
// goroutines that forked from ctx before this call are unaffected — this is
// what prevents cross-contamination between concurrent, unrelated handlers.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, correlationID)
}

// CorrelationID returns the ambient correlation id bound to ctx, or "" if
// none is bound.
func CorrelationID(ctx context.Context) string {
	v, _ := ctx.Value(correlationIDKey{}).(string)
	return v
}

// Logger returns a zerolog.Logger derived from base that stamps ctx's
// ambient correlation id as a structured field, satisfying the invariant
// that every log record emitted while a correlation-id is ambient carries
// it (spec.md §8).
func Logger(ctx context.Context, base zerolog.Logger) zerolog.Logger {
	return log.WithCorrelationID(base, CorrelationID(ctx))
}
