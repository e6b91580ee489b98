/*
Package observability implements C8: correlation-id propagation, structured
log fields, and W3C trace-context inject/extract across message headers
(spec.md §4.8).

Go has no implicit task-local storage the way a coroutine runtime's
context-var does (spec.md §9 "Design Notes"), so the ambient correlation id
here is carried explicitly as a context.Context value — the idiomatic Go
analogue — rather than a global. This also sidesteps the cross-contamination
risk the source's context-var approach has to guard against: each call
chain's context.Context is its own value, so concurrent handlers can never
see one another's correlation id.

Trace propagation wraps go.opentelemetry.io/otel's W3C tracecontext
propagator: InjectTraceContext writes `traceparent`/`tracestate` into a
map[string]string suitable for AMQP message headers, and ExtractTraceContext
reads them back out, making the extracted context the parent of the handler
span (spec.md §4.8, §8).
*/
package observability
