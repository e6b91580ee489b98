package factcheck

import "github.com/chimera-labs/chimera/pkg/types"

// Verdict is the outcome of checking a claim.
type Verdict string

const (
	VerdictSupported   Verdict = "supported"
	VerdictDisputed     Verdict = "disputed"
	VerdictUnverifiable Verdict = "unverifiable"
)

// Request is the fact_check.request payload.
type Request struct {
	Metadata types.Metadata `json:"metadata"`
	Claim     string        `json:"claim"`
}

// Response is the fact_check.result payload.
type Response struct {
	Metadata types.Metadata `json:"metadata"`
	Claim     string        `json:"claim"`
	Verdict   Verdict       `json:"verdict"`
	Note      string        `json:"note,omitempty"`
}
