package narrative

import (
	"github.com/chimera-labs/chimera/pkg/agents/analysis"
	"github.com/chimera-labs/chimera/pkg/types"
)

// Request is the narrative.request payload.
type Request struct {
	Metadata types.Metadata   `json:"metadata"`
	Bundle    analysis.Result `json:"bundle"`
}

// Response is the narrative.generated payload.
type Response struct {
	Metadata types.Metadata `json:"metadata"`
	Symbol    string        `json:"symbol"`
	Text      string        `json:"text"`
}
