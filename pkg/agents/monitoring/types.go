package monitoring

import (
	"github.com/chimera-labs/chimera/pkg/alert"
	"github.com/chimera-labs/chimera/pkg/state"
	"github.com/chimera-labs/chimera/pkg/types"
)

// RuleAction is the operation a RuleConfig message requests.
type RuleAction string

const (
	RuleActionAdd    RuleAction = "add"
	RuleActionRemove RuleAction = "remove"
)

// RuleConfig is the monitoring.rule.config payload.
type RuleConfig struct {
	Metadata types.Metadata  `json:"metadata"`
	Action   RuleAction      `json:"action"`
	Rule     state.AlertRule `json:"rule"`
}

// AlertEvent is the monitoring.alert payload.
type AlertEvent struct {
	Metadata types.Metadata `json:"metadata"`
	Alert    alert.Alert    `json:"alert"`
}
