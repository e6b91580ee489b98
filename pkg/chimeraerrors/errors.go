package chimeraerrors

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind is the error taxonomy of spec.md §7.
type Kind string

const (
	KindDataSource     Kind = "DataSource"
	KindDataProcessing Kind = "DataProcessing"
	KindAnalysis       Kind = "Analysis"
	KindQuery          Kind = "Query"
	KindLLM            Kind = "LLM"
	KindVerification   Kind = "Verification"
	KindSystem         Kind = "System"
	KindUser           Kind = "User"
)

// defaultRetryable mirrors the "Retryable" column of the spec.md §7 table.
// It is the answer the predicate falls back to when an *Error does not
// carry an explicit Retryable override.
var defaultRetryable = map[Kind]bool{
	KindDataSource:     true,
	KindDataProcessing: false,
	KindAnalysis:       false,
	KindQuery:          false,
	KindLLM:            true,
	KindVerification:   false,
	KindSystem:         true,
	KindUser:           false,
}

// Error is the single domain error type used throughout Chimera.
type Error struct {
	Kind            Kind
	Code            string
	Message         string
	Retryable       bool
	Details         map[string]any
	SuggestedAction string
	Err             error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error whose Retryable flag defaults to the kind's normal
// behavior from spec.md §7; use WithRetryable to override.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Retryable: defaultRetryable[kind]}
}

// Wrap attaches an upstream error as the cause of a new domain error.
func Wrap(kind Kind, code, message string, err error) *Error {
	e := New(kind, code, message)
	e.Err = err
	return e
}

// WithRetryable overrides the Retryable flag explicitly. Retry primitives
// MUST honor this override (spec.md §4.7): a false value here is never
// retried, regardless of kind.
func (e *Error) WithRetryable(retryable bool) *Error {
	e.Retryable = retryable
	return e
}

// WithDetails attaches structured details.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// WithSuggestedAction attaches a human-facing remediation hint.
func (e *Error) WithSuggestedAction(action string) *Error {
	e.SuggestedAction = action
	return e
}

// Envelope is the standardized shape external callers receive (spec.md §7):
//
//	{ error: { code, message, retryable, details?, suggested_action? }, request_id?, timestamp }
type Envelope struct {
	Error     EnvelopeError `json:"error"`
	RequestID string        `json:"request_id,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

type EnvelopeError struct {
	Code            string         `json:"code"`
	Message         string         `json:"message"`
	Retryable       bool           `json:"retryable"`
	Details         map[string]any `json:"details,omitempty"`
	SuggestedAction string         `json:"suggested_action,omitempty"`
}

// ToEnvelope converts the error into the standardized external shape.
func (e *Error) ToEnvelope(requestID string) Envelope {
	return Envelope{
		Error: EnvelopeError{
			Code:            e.Code,
			Message:         e.Message,
			Retryable:       e.Retryable,
			Details:         e.Details,
			SuggestedAction: e.SuggestedAction,
		},
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
	}
}

// MarshalEnvelope is a convenience for handlers that need the raw bytes to
// publish on an error routing key.
func (e *Error) MarshalEnvelope(requestID string) ([]byte, error) {
	return json.Marshal(e.ToEnvelope(requestID))
}

// IsRetryable reports whether err should be retried: an *Error honors its
// own explicit flag; any other error kind is treated as retryable, since
// unclassified errors are most often transient I/O failures.
func IsRetryable(err error) bool {
	var de *Error
	if ok := asError(err, &de); ok {
		return de.Retryable
	}
	return true
}

// asError is a tiny errors.As wrapper kept local to avoid importing errors
// in call sites that only need the boolean.
func asError(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
