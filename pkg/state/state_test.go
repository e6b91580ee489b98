package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndGetRuleRoundTrips(t *testing.T) {
	s := newTestStore(t)
	rule := &AlertRule{
		ID:   "rule-1",
		Name: "price spike",
		Condition: Condition{
			Metric:          "btc_price",
			Operator:        OperatorGreaterThan,
			Threshold:       50000,
			DurationSeconds: 60,
			CooldownSeconds: 300,
		},
		NotificationChannelIDs: []string{"email-1"},
		Enabled:                true,
	}

	require.NoError(t, s.CreateRule(rule))

	got, err := s.GetRule("rule-1")
	require.NoError(t, err)
	assert.Equal(t, rule, got)
}

func TestGetRuleNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetRule("missing")
	assert.Error(t, err)
}

func TestCreateRuleReplacesExisting(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateRule(&AlertRule{ID: "rule-1", Name: "v1"}))
	require.NoError(t, s.CreateRule(&AlertRule{ID: "rule-1", Name: "v2"}))

	got, err := s.GetRule("rule-1")
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Name)
}

func TestUpdateRulePersistsChanges(t *testing.T) {
	s := newTestStore(t)
	rule := &AlertRule{ID: "rule-1", Name: "v1", Enabled: true}
	require.NoError(t, s.CreateRule(rule))

	rule.Enabled = false
	require.NoError(t, s.UpdateRule(rule))

	got, err := s.GetRule("rule-1")
	require.NoError(t, err)
	assert.False(t, got.Enabled)
}

func TestListRulesReturnsAllPersistedRules(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateRule(&AlertRule{ID: "rule-1"}))
	require.NoError(t, s.CreateRule(&AlertRule{ID: "rule-2"}))

	rules, err := s.ListRules()
	require.NoError(t, err)
	assert.Len(t, rules, 2)
}

func TestDeleteRuleRemovesIt(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.CreateRule(&AlertRule{ID: "rule-1"}))
	require.NoError(t, s.DeleteRule("rule-1"))

	_, err := s.GetRule("rule-1")
	assert.Error(t, err)
}

func TestDeleteRuleOnAbsentIDIsNoOp(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.DeleteRule("never-existed"))
}
