package analysis

import (
	"context"
	"math"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/google/uuid"

	"github.com/chimera-labs/chimera/pkg/agent"
	"github.com/chimera-labs/chimera/pkg/broker"
	"github.com/chimera-labs/chimera/pkg/envelope"
	"github.com/chimera-labs/chimera/pkg/types"
)

// Agent is the analysis collaborator.
type Agent struct {
	core *agent.Agent
}

func New(channels *broker.ChannelManager) *Agent {
	a := &Agent{}
	a.core = agent.New(channels, agent.Config{
		Name:        "analysis",
		Exchange:    types.DefaultExchange,
		RoutingKeys: []types.RoutingKey{types.RoutingAnalysisReq},
		Prefetch:    10,
		Routes: agent.RouteMap{
			types.RoutingAnalysisReq: a.handleRequest,
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

	mean, stddev := meanStdDev(req.Values)
	var latest float64
	if len(req.Values) > 0 {
		latest = req.Values[len(req.Values)-1]
	}

	result := Result{
		Metadata: types.NewMetadata(uuid.NewString(), correlationID, "analysis", ""),
		Symbol:   req.Symbol,
		Latest:   latest,
		Mean:     mean,
		StdDev:   stddev,
		ZScore:   zScore(latest, mean, stddev),
	}

	_, err := a.core.PublishEvent(ctx, result, types.RoutingAnalysisResult, correlationID)
	return err
}

func meanStdDev(values []float64) (mean, stddev float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(len(values))

	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

func zScore(value, mean, stddev float64) float64 {
	if stddev == 0 {
		return 0
	}
	return (value - mean) / stddev
}
