/*
Package health provides the building blocks for probing whether a dependency
is reachable: an HTTP checker for a collaborator agent's /health endpoint, a
TCP checker for raw socket dependencies (the broker, the session store), and
an exec checker for CLI-only probes. All three implement the common Checker
interface so a caller can hold a slice of them and run Check uniformly.

Status layers hysteresis on top of a single Checker: a configured number of
consecutive failures (Retries) before flipping Healthy to false, and
InStartPeriod, which reports whether the StartPeriod grace window is still
open (Update itself does not consult it). Status is a standalone helper: no
other package uses it, and the retrieval agent's upstream probe reports each
Check result directly to pkg/metrics's ComponentHealth registry.
*/
package health
