/*
Package alert implements C13: the alert engine of spec.md §4.12.

AddRule/RemoveRule manage an in-memory working set backed by pkg/state's
durable rule store. Evaluate tests incoming metric samples against every
enabled rule for that metric, honoring per-rule cooldown and deriving
severity from relative deviation from threshold, in the spirit of the
cooldown/severity vocabulary used by condition-evaluation engines such as
jordigilh-kubernaut's remediation request model (other_examples). The
concurrency shape (mutex-guarded map, stamp-then-return) follows
pkg/agent/correlation.go's CorrelationRegistry.
*/
package alert
