/*
Package retrieval implements the data_retrieval-family collaborator: it
answers data_retrieval.request with a deterministic price series for the
requested symbol, standing in for the exchange REST client spec.md §1
explicitly places out of scope. The fetch itself is wrapped in
pkg/resilience's Compose (timeout, retry, circuit breaker) exactly as
spec.md §4.7 requires of handlers that call external dependencies, and a
pkg/health.HTTPChecker probes the configured upstream endpoint for
readiness reporting.
*/
package retrieval
