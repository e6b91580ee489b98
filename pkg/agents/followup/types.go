package followup

import "github.com/chimera-labs/chimera/pkg/types"

// Request is the followup.request payload.
type Request struct {
	Metadata types.Metadata `json:"metadata"`
	SessionID string        `json:"session_id"`
}

// Response is the followup.suggestions payload.
type Response struct {
	Metadata    types.Metadata `json:"metadata"`
	SessionID    string        `json:"session_id"`
	Suggestions  []string      `json:"suggestions"`
}
