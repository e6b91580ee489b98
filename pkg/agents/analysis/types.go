package analysis

import "github.com/chimera-labs/chimera/pkg/types"

// Request is the analysis.request payload.
type Request struct {
	Metadata types.Metadata `json:"metadata"`
	Symbol    string        `json:"symbol"`
	Values    []float64     `json:"values"`
}

// Result is the analysis.result payload.
type Result struct {
	Metadata types.Metadata `json:"metadata"`
	Symbol    string        `json:"symbol"`
	Latest    float64       `json:"latest"`
	Mean      float64       `json:"mean"`
	StdDev    float64       `json:"std_dev"`
	ZScore    float64       `json:"z_score"`
}
