/*
Package agent implements C5 (Agent Core) and C6 (Correlation Registry):
the struct that fuses a broker.Publisher and broker.Subscriber behind a
routing-key→RouteHandler map, where each handler deserializes its own
payload (spec.md §4.5, §4.6), plus the in-process correlation-id→CorrelationEntry
map that request/response flows use to stitch a reply back to its caller.

Composition over inheritance, per spec.md §9: there is no abstract base
agent class here, only an Agent struct holding a publisher, a subscriber,
a correlation registry, and the caller-supplied Routes.
*/
package agent
