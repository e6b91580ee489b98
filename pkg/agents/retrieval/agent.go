package retrieval

import (
	"context"
	"hash/fnv"
	"math/rand"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/google/uuid"

	"github.com/chimera-labs/chimera/pkg/agent"
	"github.com/chimera-labs/chimera/pkg/broker"
	"github.com/chimera-labs/chimera/pkg/envelope"
	"github.com/chimera-labs/chimera/pkg/health"
	"github.com/chimera-labs/chimera/pkg/metrics"
	"github.com/chimera-labs/chimera/pkg/resilience"
	"github.com/chimera-labs/chimera/pkg/types"
)

const defaultPoints = 20

// Agent is the data_retrieval collaborator.
type Agent struct {
	core    *agent.Agent
	execute func(context.Context, func(context.Context) error) error
	checker *health.HTTPChecker
}

// New builds the retrieval agent. breaker guards the (simulated) upstream
// fetch; healthURL, if non-empty, is probed by CheckUpstream and reported
// through pkg/metrics's health registry under the "data_source" component.
func New(channels *broker.ChannelManager, breaker *resilience.CircuitBreaker, healthURL string) *Agent {
	a := &Agent{
		execute: resilience.Compose(resilience.CompositeConfig{
			Timeout: 5 * time.Second,
			Retry: resilience.RetryPolicy{
				MaxAttempts: 3,
				Strategy:    resilience.StrategyExponential,
				BaseDelay:   100 * time.Millisecond,
			},
			Breaker: breaker,
		}),
	}
	if healthURL != "" {
		a.checker = health.NewHTTPChecker(healthURL)
		metrics.RegisterComponent("data_source", true, "")
	}
	a.core = agent.New(channels, agent.Config{
		Name:        "data_retrieval",
		Exchange:    types.DefaultExchange,
		RoutingKeys: []types.RoutingKey{types.RoutingRetrievalReq},
		Prefetch:    10,
		Routes: agent.RouteMap{
			types.RoutingRetrievalReq: a.handleRequest,
		},
	})
	return a
}

// Run drives the agent's consume loop until ctx is cancelled.
func (a *Agent) Run(ctx context.Context) error {
	return a.core.Run(ctx)
}

// CheckUpstream probes the configured upstream endpoint, if any, and
// updates the "data_source" health component. Intended to be driven by a
// pkg/scheduler job.
func (a *Agent) CheckUpstream(ctx context.Context) {
	if a.checker == nil {
		return
	}
	result := a.checker.Check(ctx)
	metrics.UpdateComponent("data_source", result.Healthy, result.Message)
}

func (a *Agent) handleRequest(ctx context.Context, body []byte, headers amqp.Table) error {
	var req Request
	if err := envelope.Deserialize(body, &req); err != nil {
		return err
	}
	if req.Points <= 0 {
		req.Points = defaultPoints
	}

	var values []float64
	err := a.execute(ctx, func(context.Context) error {
		values = generateSeries(req.Symbol, req.Points)
		return nil
	})
	if err != nil {
		return err
	}

	correlationID, _ := headers["correlation_id"].(string)
	replyTo, _ := headers["reply_to"].(string)
	if replyTo == "" {
		replyTo = string(types.RoutingRetrievalResp)
	}

	resp := Response{
		Metadata: types.NewMetadata(uuid.NewString(), correlationID, "data_retrieval", ""),
		Symbol:   req.Symbol,
		Values:   values,
	}
	return a.core.PublishResponse(ctx, resp, types.RoutingKey(replyTo), correlationID)
}

// generateSeries produces a deterministic pseudo price walk for symbol, so
// the retrieval path is exercisable without a real exchange client (out of
// scope per spec.md §1).
func generateSeries(symbol string, points int) []float64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(symbol))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	base := 100 + rng.Float64()*900
	values := make([]float64, points)
	v := base
	for i := range values {
		v += (rng.Float64() - 0.5) * base * 0.02
		values[i] = v
	}
	return values
}
