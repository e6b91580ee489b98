/*
Package analysis implements the analysis-family collaborator: it consumes
analysis.request, computes mean/standard-deviation/z-score over the
supplied series, and publishes analysis.result. Real statistical modeling
is out of scope per spec.md §1 — this is the minimal deterministic
computation needed to give the monitoring collaborator (pkg/agents/
monitoring) a real metric to evaluate alert rules against.
*/
package analysis
