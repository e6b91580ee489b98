/*
Package factcheck implements the fact_check-family collaborator: it
consumes fact_check.request, checks the claim against a small fixed table
of known facts, and publishes fact_check.result with a verdict. Real
fact-checking against external sources is out of scope per spec.md §1;
this exists to exercise the publish path with its own payload shape.
*/
package factcheck
