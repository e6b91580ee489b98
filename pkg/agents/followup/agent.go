package followup

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/google/uuid"

	"github.com/chimera-labs/chimera/pkg/agent"
	"github.com/chimera-labs/chimera/pkg/broker"
	"github.com/chimera-labs/chimera/pkg/envelope"
	"github.com/chimera-labs/chimera/pkg/session"
	"github.com/chimera-labs/chimera/pkg/types"
)

// Agent is the followup collaborator.
type Agent struct {
	core     *agent.Agent
	sessions *session.Store
}

func New(channels *broker.ChannelManager, sessions *session.Store) *Agent {
	a := &Agent{sessions: sessions}
	a.core = agent.New(channels, agent.Config{
		Name:        "followup",
		Exchange:    types.DefaultExchange,
		RoutingKeys: []types.RoutingKey{types.RoutingFollowupReq},
		Prefetch:    10,
		Routes: agent.RouteMap{
			types.RoutingFollowupReq: a.handleRequest,
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

	var suggestions []string
	if a.sessions != nil {
		extracted, err := a.sessions.ExtractForQuery(ctx, req.SessionID, nil)
		if err != nil {
			return err
		}
		suggestions = suggestionsFrom(extracted)
	}

	resp := Response{
		Metadata:    types.NewMetadata(uuid.NewString(), correlationID, "followup", ""),
		SessionID:   req.SessionID,
		Suggestions: suggestions,
	}

	_, err := a.core.PublishEvent(ctx, resp, types.RoutingFollowupSugg, correlationID)
	return err
}

func suggestionsFrom(extracted session.ExtractedContext) []string {
	if len(extracted.Entities) == 0 {
		return []string{"ask about a specific symbol to get tailored follow-ups"}
	}
	out := make([]string, 0, len(extracted.Entities))
	for _, e := range extracted.Entities {
		out = append(out, fmt.Sprintf("want the latest analysis for %s?", e))
	}
	return out
}
