package monitoring

import (
	"context"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chimera-labs/chimera/pkg/alert"
	"github.com/chimera-labs/chimera/pkg/envelope"
	"github.com/chimera-labs/chimera/pkg/state"
)

func newTestAgent(t *testing.T) *Agent {
	t.Helper()
	engine, err := alert.NewEngine(nil)
	require.NoError(t, err)
	return &Agent{engine: engine}
}

func TestHandleRuleConfigAddRegistersRule(t *testing.T) {
	a := newTestAgent(t)

	body, err := envelope.Serialize(RuleConfig{
		Action: RuleActionAdd,
		Rule: state.AlertRule{
			ID:   "rule-1",
			Name: "z-score spike",
			Condition: state.Condition{
				Metric:    "BTC.z_score",
				Operator:  state.OperatorGreaterThan,
				Threshold: 2,
			},
			Enabled: true,
		},
	})
	require.NoError(t, err)

	require.NoError(t, a.handleRuleConfig(context.Background(), body, amqp.Table{}))

	rule, ok := a.engine.Rule("rule-1")
	require.True(t, ok)
	assert.Equal(t, "z-score spike", rule.Name)
}

func TestHandleRuleConfigRemoveDeregistersRule(t *testing.T) {
	a := newTestAgent(t)
	require.NoError(t, a.engine.AddRule(state.AlertRule{
		ID:   "rule-1",
		Name: "z-score spike",
		Condition: state.Condition{
			Metric:    "BTC.z_score",
			Operator:  state.OperatorGreaterThan,
			Threshold: 2,
		},
		Enabled: true,
	}))

	body, err := envelope.Serialize(RuleConfig{
		Action: RuleActionRemove,
		Rule:   state.AlertRule{ID: "rule-1"},
	})
	require.NoError(t, err)

	require.NoError(t, a.handleRuleConfig(context.Background(), body, amqp.Table{}))

	_, ok := a.engine.Rule("rule-1")
	assert.False(t, ok)
}

func TestHandleRuleConfigUnknownActionDefaultsToAdd(t *testing.T) {
	a := newTestAgent(t)

	body, err := envelope.Serialize(RuleConfig{
		Action: RuleAction("bogus"),
		Rule: state.AlertRule{
			ID:   "rule-2",
			Name: "fallback-add",
			Condition: state.Condition{
				Metric:    "ETH.z_score",
				Operator:  state.OperatorLessThan,
				Threshold: -2,
			},
			Enabled: true,
		},
	})
	require.NoError(t, err)

	require.NoError(t, a.handleRuleConfig(context.Background(), body, amqp.Table{}))

	_, ok := a.engine.Rule("rule-2")
	assert.True(t, ok)
}
