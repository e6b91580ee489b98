package query

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/google/uuid"

	"github.com/chimera-labs/chimera/pkg/agent"
	"github.com/chimera-labs/chimera/pkg/agents/retrieval"
	"github.com/chimera-labs/chimera/pkg/broker"
	"github.com/chimera-labs/chimera/pkg/chimeraerrors"
	"github.com/chimera-labs/chimera/pkg/envelope"
	"github.com/chimera-labs/chimera/pkg/session"
	"github.com/chimera-labs/chimera/pkg/types"
)

// Agent is the query collaborator: it fields incoming questions, kicks off
// a data_retrieval.request, and assembles the final query.response once
// the matching data_retrieval.response arrives (spec.md §4.5/§4.6).
type Agent struct {
	core     *agent.Agent
	sessions *session.Store
}

// New builds the query agent. sessions may be nil, in which case session
// history is skipped entirely.
func New(channels *broker.ChannelManager, sessions *session.Store) *Agent {
	a := &Agent{sessions: sessions}
	a.core = agent.New(channels, agent.Config{
		Name:        "query",
		Exchange:    types.DefaultExchange,
		RoutingKeys: []types.RoutingKey{types.RoutingQueryRequest, types.RoutingRetrievalResp},
		Prefetch:    10,
		Routes: agent.RouteMap{
			types.RoutingQueryRequest:  a.handleQueryRequest,
			types.RoutingRetrievalResp: a.handleRetrievalResponse,
		},
	})
	return a
}

// Run drives the agent's consume loop until ctx is cancelled.
func (a *Agent) Run(ctx context.Context) error {
	return a.core.Run(ctx)
}

// CleanupOldCorrelations reaps data_retrieval.response correlation entries
// older than maxAge. Query is the only collaborator that issues
// PublishRequest, so it is the only one that accumulates correlation state
// needing a periodic reap; intended to be driven by a pkg/scheduler job.
func (a *Agent) CleanupOldCorrelations(maxAge time.Duration) int {
	return a.core.CleanupOldCorrelations(maxAge)
}

func (a *Agent) handleQueryRequest(ctx context.Context, body []byte, _ amqp.Table) error {
	var req Request
	if err := envelope.Deserialize(body, &req); err != nil {
		return err
	}

	if a.sessions != nil {
		if err := a.sessions.AppendQuery(ctx, req.SessionID, req.Text, "", nil); err != nil {
			return err
		}
	}

	retrievalReq := retrieval.Request{
		Metadata: types.NewMetadata(uuid.NewString(), "", "query", ""),
		Symbol:   req.Symbol,
	}
	requestContext := map[string]any{
		"session_id": req.SessionID,
		"text":       req.Text,
	}
	_, err := a.core.PublishRequest(ctx, retrievalReq, types.RoutingRetrievalReq, types.RoutingRetrievalResp, requestContext)
	return err
}

func (a *Agent) handleRetrievalResponse(ctx context.Context, body []byte, headers amqp.Table) error {
	var resp retrieval.Response
	if err := envelope.Deserialize(body, &resp); err != nil {
		return err
	}

	correlationID, _ := headers["correlation_id"].(string)
	entry, ok := a.core.GetCorrelationContext(correlationID)
	if !ok {
		return chimeraerrors.New(chimeraerrors.KindQuery, "query.correlation_missing",
			fmt.Sprintf("no correlation context for id %q", correlationID))
	}
	sessionID, _ := entry.Context["session_id"].(string)

	final := Response{
		Metadata:  types.NewMetadata(uuid.NewString(), correlationID, "query", ""),
		SessionID: sessionID,
		Text:      answerFrom(resp),
	}
	if a.sessions != nil {
		extracted, err := a.sessions.ExtractForQuery(ctx, sessionID, nil)
		if err == nil {
			final.Entities = extracted.Entities
		}
	}

	if err := a.core.PublishResponse(ctx, final, types.RoutingQueryResponse, correlationID); err != nil {
		return err
	}
	a.core.ClearCorrelation(correlationID)
	return nil
}

func answerFrom(resp retrieval.Response) string {
	if len(resp.Values) == 0 {
		return fmt.Sprintf("no data available for %s", resp.Symbol)
	}
	latest := resp.Values[len(resp.Values)-1]
	return fmt.Sprintf("%s: %d data points retrieved, latest value %.2f", resp.Symbol, len(resp.Values), latest)
}
