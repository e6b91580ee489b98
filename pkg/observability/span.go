package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// StartHandlerSpan starts the span around a single handler invocation,
// parented on the context produced by ExtractTraceContext, with the
// attributes spec.md §4.8 requires: agent-name, routing-key, correlation-id.
func StartHandlerSpan(ctx context.Context, tracer trace.Tracer, agentName, routingKey string) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, "handle "+routingKey,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("agent.name", agentName),
			attribute.String("routing_key", routingKey),
			attribute.String("correlation_id", CorrelationID(ctx)),
		),
	)
	return ctx, span
}
