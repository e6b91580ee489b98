package query

import "github.com/chimera-labs/chimera/pkg/types"

// Request is the query.request payload.
type Request struct {
	Metadata types.Metadata `json:"metadata"`
	SessionID string        `json:"session_id"`
	Symbol    string        `json:"symbol"`
	Text      string        `json:"text"`
}

// Response is the query.response payload.
type Response struct {
	Metadata types.Metadata `json:"metadata"`
	SessionID string        `json:"session_id"`
	Text      string        `json:"text"`
	Entities  []string      `json:"entities,omitempty"`
}
