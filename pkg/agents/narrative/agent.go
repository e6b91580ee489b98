package narrative

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/google/uuid"

	"github.com/chimera-labs/chimera/pkg/agent"
	"github.com/chimera-labs/chimera/pkg/agents/analysis"
	"github.com/chimera-labs/chimera/pkg/broker"
	"github.com/chimera-labs/chimera/pkg/envelope"
	"github.com/chimera-labs/chimera/pkg/types"
)

// Agent is the narrative collaborator.
type Agent struct {
	core *agent.Agent
}

func New(channels *broker.ChannelManager) *Agent {
	a := &Agent{}
	a.core = agent.New(channels, agent.Config{
		Name:        "narrative",
		Exchange:    types.DefaultExchange,
		RoutingKeys: []types.RoutingKey{types.RoutingNarrativeReq},
		Prefetch:    10,
		Routes: agent.RouteMap{
			types.RoutingNarrativeReq: a.handleRequest,
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

	resp := Response{
		Metadata: types.NewMetadata(uuid.NewString(), correlationID, "narrative", ""),
		Symbol:   req.Bundle.Symbol,
		Text:     render(req.Bundle),
	}

	_, err := a.core.PublishEvent(ctx, resp, types.RoutingNarrativeGen, correlationID)
	return err
}

func render(b analysis.Result) string {
	direction := "steady"
	switch {
	case b.ZScore > 1:
		direction = "trending up"
	case b.ZScore < -1:
		direction = "trending down"
	}
	return fmt.Sprintf("%s is %s: latest %.2f against a mean of %.2f (z-score %.2f)",
		b.Symbol, direction, b.Latest, b.Mean, b.ZScore)
}
