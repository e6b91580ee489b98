/*
Package log provides Chimera's structured logging, a thin layer over
rs/zerolog producing newline-delimited JSON by default (spec.md §6).

Init configures the package-global Logger from a Config (level, JSON vs.
console output). WithComponent/WithAgent derive child loggers carrying a
static field; WithCorrelationID derives one that stamps a per-flow
correlation id on every record, which is how pkg/observability satisfies
the "every log record emitted while a correlation-id is ambient contains
that id" testable property without every call site passing it explicitly.
*/
package log
