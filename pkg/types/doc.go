/*
Package types defines the core data structures shared across Chimera's
agent runtime: message metadata, routing-key constants, and the
environment-driven process Config.

Payload bodies themselves (query requests, retrieval results, analysis
bundles, ...) are intentionally not modeled here — per spec.md §1 they are
negotiated between collaborators and are opaque to the core. Only the
envelope metadata and routing-key vocabulary live in this package; see
pkg/envelope for the serialize/deserialize helpers that use it.
*/
package types
