/*
Package metrics provides Prometheus metrics collection and exposition for
Chimera agents.

Collectors are package-level Prometheus vectors, registered once via
MustRegister in init(), following the teacher's pkg/metrics package-level
collector pattern. Categories:

  - Broker: messages published/consumed, publish/handler latency
  - Correlation registry: in-flight count, reaped-total
  - Circuit breaker: per-breaker state gauge, trip counter
  - Session store: read/write counters
  - Alert engine: fired-total by severity, evaluation latency, active rule count
  - Notification dispatcher: sent-total by channel and outcome

Handler() exposes the registry over HTTP for Prometheus scraping; Timer is
a small helper for observing operation duration into a histogram.
*/
package metrics
