/*
Package chimeraerrors implements the error taxonomy of spec.md §7: every
domain error carries a Kind, a stable Code, a human Message, a Retryable
flag, optional structured Details, and an optional SuggestedAction.

Errors are values, not exceptions. Each boundary in the system — a handler,
a retry step, a publish — produces an *Error instead of panicking, and the
Agent Core converts one escaping a handler into a nack, routing the message
to its dead-letter queue (spec.md §4.5, §7).
*/
package chimeraerrors
