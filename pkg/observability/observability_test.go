package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestCorrelationIDRoundTripsThroughContext(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "corr-42")
	assert.Equal(t, "corr-42", CorrelationID(ctx))
}

func TestCorrelationIDEmptyWhenUnset(t *testing.T) {
	assert.Equal(t, "", CorrelationID(context.Background()))
}

func TestCorrelationIDDoesNotLeakToSiblingContext(t *testing.T) {
	parent := context.Background()
	a := WithCorrelationID(parent, "flow-a")
	b := WithCorrelationID(parent, "flow-b")

	assert.Equal(t, "flow-a", CorrelationID(a))
	assert.Equal(t, "flow-b", CorrelationID(b))
	assert.Equal(t, "", CorrelationID(parent))
}

func TestInjectExtractTraceContextRoundTrips(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())
	otel.SetTracerProvider(tp)

	tracer := tp.Tracer("test")
	ctx, span := tracer.Start(context.Background(), "publish")
	headers := map[string]string{}
	InjectTraceContext(ctx, headers)
	span.End()

	assert.Contains(t, headers, "traceparent")

	extracted := ExtractTraceContext(context.Background(), headers)
	extractedCtx, childSpan := tracer.Start(extracted, "consume")
	defer childSpan.End()

	parentSpanCtx := span.SpanContext()
	childSpanCtx := trace.SpanContextFromContext(extractedCtx)
	assert.Equal(t, parentSpanCtx.TraceID(), childSpanCtx.TraceID())
}
