package monitoring

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/google/uuid"

	"github.com/chimera-labs/chimera/pkg/agent"
	"github.com/chimera-labs/chimera/pkg/agents/analysis"
	"github.com/chimera-labs/chimera/pkg/alert"
	"github.com/chimera-labs/chimera/pkg/broker"
	"github.com/chimera-labs/chimera/pkg/envelope"
	"github.com/chimera-labs/chimera/pkg/log"
	"github.com/chimera-labs/chimera/pkg/notify"
	"github.com/chimera-labs/chimera/pkg/types"
)

// Agent is the monitoring collaborator: rule administration plus
// evaluation of every incoming analysis result against the active rules.
type Agent struct {
	core     *agent.Agent
	engine   *alert.Engine
	notifier *notify.Dispatcher
}

func New(channels *broker.ChannelManager, engine *alert.Engine, notifier *notify.Dispatcher) *Agent {
	a := &Agent{engine: engine, notifier: notifier}
	a.core = agent.New(channels, agent.Config{
		Name:        "monitoring",
		Exchange:    types.DefaultExchange,
		RoutingKeys: []types.RoutingKey{types.RoutingMonitorConfig, types.RoutingAnalysisResult},
		Prefetch:    10,
		Routes: agent.RouteMap{
			types.RoutingMonitorConfig:  a.handleRuleConfig,
			types.RoutingAnalysisResult: a.handleAnalysisResult,
		},
	})
	return a
}

// Run drives the agent's consume loop until ctx is cancelled.
func (a *Agent) Run(ctx context.Context) error {
	return a.core.Run(ctx)
}

func (a *Agent) handleRuleConfig(_ context.Context, body []byte, _ amqp.Table) error {
	var cfg RuleConfig
	if err := envelope.Deserialize(body, &cfg); err != nil {
		return err
	}

	switch cfg.Action {
	case RuleActionRemove:
		return a.engine.RemoveRule(cfg.Rule.ID)
	default:
		return a.engine.AddRule(cfg.Rule)
	}
}

func (a *Agent) handleAnalysisResult(ctx context.Context, body []byte, headers amqp.Table) error {
	var result analysis.Result
	if err := envelope.Deserialize(body, &result); err != nil {
		return err
	}
	correlationID, _ := headers["correlation_id"].(string)

	fired := a.engine.Evaluate(result.Symbol+".z_score", result.ZScore)
	for _, a2 := range fired {
		if err := a.publishAndNotify(ctx, a2, correlationID); err != nil {
			log.WithComponent("monitoring").Error().Err(err).Str("rule_id", a2.RuleID).Msg("failed to publish or notify for fired alert")
		}
	}
	return nil
}

func (a *Agent) publishAndNotify(ctx context.Context, fired alert.Alert, correlationID string) error {
	event := AlertEvent{
		Metadata: types.NewMetadata(uuid.NewString(), correlationID, "monitoring", ""),
		Alert:    fired,
	}
	if _, err := a.core.PublishEvent(ctx, event, types.RoutingMonitorAlert, correlationID); err != nil {
		return err
	}

	if a.notifier == nil {
		return nil
	}
	rule, ok := a.engine.Rule(fired.RuleID)
	if !ok || len(rule.NotificationChannelIDs) == 0 {
		return nil
	}
	for _, result := range a.notifier.Send(ctx, fired, rule.NotificationChannelIDs) {
		if result.Err != nil {
			log.WithComponent("monitoring").Warn().Err(result.Err).Str("channel_id", result.ChannelID).Msg("notification delivery failed")
		}
	}
	return nil
}
