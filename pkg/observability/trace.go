package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

var propagator = propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})

// InjectTraceContext writes the active span's W3C trace context
// (traceparent, optional tracestate) into headers, mutating it in place.
// Called by the publisher whenever a span is active (spec.md §4.3, §4.8).
func InjectTraceContext(ctx context.Context, headers map[string]string) {
	propagator.Inject(ctx, propagation.MapCarrier(headers))
}

// ExtractTraceContext reads a W3C trace context out of headers and returns
// a context whose span context is that of the remote parent. If headers
// carry no traceparent, the returned context is ctx unchanged (a root span
// will be created). Called by the subscriber on every delivery before
// starting the handler span (spec.md §4.4, §4.8).
func ExtractTraceContext(ctx context.Context, headers map[string]string) context.Context {
	return propagator.Extract(ctx, propagation.MapCarrier(headers))
}

// Tracer returns the named tracer used to start handler spans.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
