package retrieval

import "github.com/chimera-labs/chimera/pkg/types"

// Request is the data_retrieval.request payload.
type Request struct {
	Metadata types.Metadata `json:"metadata"`
	Symbol    string        `json:"symbol"`
	Points    int           `json:"points"`
}

// Response is the data_retrieval.response payload.
type Response struct {
	Metadata types.Metadata `json:"metadata"`
	Symbol    string        `json:"symbol"`
	Values    []float64     `json:"values"`
}
