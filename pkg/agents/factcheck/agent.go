package factcheck

import (
	"context"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/google/uuid"

	"github.com/chimera-labs/chimera/pkg/agent"
	"github.com/chimera-labs/chimera/pkg/broker"
	"github.com/chimera-labs/chimera/pkg/envelope"
	"github.com/chimera-labs/chimera/pkg/types"
)

// knownFacts is a fixed, deterministic table standing in for the external
// fact sources this collaborator would consult in production.
var knownFacts = map[string]bool{
	"bitcoin has a fixed supply cap of 21 million":        true,
	"ethereum moved to proof of stake in 2022":             true,
	"all cryptocurrencies use proof of work":                false,
	"stablecoins are always fully collateralized in cash": false,
}

// Agent is the fact_check collaborator.
type Agent struct {
	core *agent.Agent
}

func New(channels *broker.ChannelManager) *Agent {
	a := &Agent{}
	a.core = agent.New(channels, agent.Config{
		Name:        "fact_check",
		Exchange:    types.DefaultExchange,
		RoutingKeys: []types.RoutingKey{types.RoutingFactCheckReq},
		Prefetch:    10,
		Routes: agent.RouteMap{
			types.RoutingFactCheckReq: a.handleRequest,
		},
	})
	return a
}

// Run drives the agent's consume loop until ctx is cancelled.
func (a *Agent) Run(ctx context.Context) error {
	return a.core.Run(ctx)
}

func (a *Agent) handleRequest(ctx context.Context, body []byte, headers amqp.Table) error {
	var req Request
	if err := envelope.Deserialize(body, &req); err != nil {
		return err
	}
	correlationID, _ := headers["correlation_id"].(string)

	verdict, supported := lookup(req.Claim)
	resp := Response{
		Metadata: types.NewMetadata(uuid.NewString(), correlationID, "fact_check", ""),
		Claim:    req.Claim,
		Verdict:  verdict,
	}
	if supported {
		resp.Note = "matched a known claim"
	}

	_, err := a.core.PublishEvent(ctx, resp, types.RoutingFactCheckRes, correlationID)
	return err
}

func lookup(claim string) (Verdict, bool) {
	normalized := strings.ToLower(strings.TrimSpace(claim))
	supported, known := knownFacts[normalized]
	if !known {
		return VerdictUnverifiable, false
	}
	if supported {
		return VerdictSupported, true
	}
	return VerdictDisputed, true
}
