package alert

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chimera-labs/chimera/pkg/log"
	"github.com/chimera-labs/chimera/pkg/metrics"
	"github.com/chimera-labs/chimera/pkg/state"
)

// Severity is the derived urgency of a fired alert (spec.md §4.12).
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

const maxRuleHistory = 100

// Alert is one fired evaluation of a rule's condition.
type Alert struct {
	ID        string
	RuleID    string
	RuleName  string
	Metric    string
	Value     float64
	Threshold float64
	Operator  state.Operator
	Severity  Severity
	Timestamp time.Time
}

// ruleState is a rule's in-memory working copy plus cooldown/history state.
type ruleState struct {
	rule        state.AlertRule
	lastAlertAt time.Time
	history     []Alert
}

// Engine is the alert engine of C13. When backed by a non-nil store, rule
// mutations are persisted atomically before taking effect in memory.
type Engine struct {
	mu    sync.Mutex
	rules map[string]*ruleState
	store *state.Store
}

// NewEngine creates an Engine, optionally backed by store for durable rule
// persistence. If store is non-nil, its existing rules are loaded
// immediately (spec.md §3: "Persisted; loaded at agent startup").
func NewEngine(store *state.Store) (*Engine, error) {
	e := &Engine{rules: make(map[string]*ruleState), store: store}
	if store == nil {
		return e, nil
	}

	rules, err := store.ListRules()
	if err != nil {
		return nil, err
	}
	for _, r := range rules {
		e.rules[r.ID] = &ruleState{rule: *r}
	}
	return e, nil
}

// AddRule registers rule, persisting it first if the engine has a store.
func (e *Engine) AddRule(rule state.AlertRule) error {
	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}

	if e.store != nil {
		if err := e.store.CreateRule(&rule); err != nil {
			return err
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	existing, ok := e.rules[rule.ID]
	if ok {
		existing.rule = rule
	} else {
		e.rules[rule.ID] = &ruleState{rule: rule}
	}
	metrics.RulesActive.Set(float64(len(e.rules)))
	return nil
}

// RemoveRule deregisters the rule with the given id, deleting it from the
// backing store first if present.
func (e *Engine) RemoveRule(id string) error {
	if e.store != nil {
		if err := e.store.DeleteRule(id); err != nil {
			return err
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.rules, id)
	metrics.RulesActive.Set(float64(len(e.rules)))
	return nil
}

// Rule returns a copy of the rule with the given id.
func (e *Engine) Rule(id string) (state.AlertRule, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	rs, ok := e.rules[id]
	if !ok {
		return state.AlertRule{}, false
	}
	return rs.rule, true
}

// History returns the alerts previously fired for rule id, most recent
// last.
func (e *Engine) History(id string) []Alert {
	e.mu.Lock()
	defer e.mu.Unlock()
	rs, ok := e.rules[id]
	if !ok {
		return nil
	}
	out := make([]Alert, len(rs.history))
	copy(out, rs.history)
	return out
}

// Evaluate tests value against every enabled rule whose condition metric is
// metric, honoring each rule's cooldown. timestamp defaults to time.Now()
// when omitted (spec.md §4.12: "evaluate(metric, value, timestamp?)").
func (e *Engine) Evaluate(metric string, value float64, timestamp ...time.Time) []Alert {
	at := time.Now()
	if len(timestamp) > 0 {
		at = timestamp[0]
	}

	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.AlertEvaluationDuration)

	e.mu.Lock()
	defer e.mu.Unlock()

	var fired []Alert
	for _, rs := range e.rules {
		if !rs.rule.Enabled || rs.rule.Condition.Metric != metric {
			continue
		}
		if !conditionMet(rs.rule.Condition, value) {
			continue
		}

		cooldown := time.Duration(rs.rule.Condition.CooldownSeconds) * time.Second
		if !rs.lastAlertAt.IsZero() && at.Sub(rs.lastAlertAt) < cooldown {
			continue
		}

		a := Alert{
			ID:        uuid.New().String(),
			RuleID:    rs.rule.ID,
			RuleName:  rs.rule.Name,
			Metric:    metric,
			Value:     value,
			Threshold: rs.rule.Condition.Threshold,
			Operator:  rs.rule.Condition.Operator,
			Severity:  severityFor(value, rs.rule.Condition.Threshold),
			Timestamp: at,
		}

		rs.lastAlertAt = at
		rs.history = append(rs.history, a)
		if len(rs.history) > maxRuleHistory {
			rs.history = rs.history[len(rs.history)-maxRuleHistory:]
		}

		fired = append(fired, a)
		metrics.AlertsFiredTotal.WithLabelValues(string(a.Severity)).Inc()
		log.WithComponent("alert").Info().
			Str("rule_id", rs.rule.ID).
			Str("metric", metric).
			Float64("value", value).
			Str("severity", string(a.Severity)).
			Msg("alert fired")
	}
	return fired
}

func conditionMet(c state.Condition, value float64) bool {
	switch c.Operator {
	case state.OperatorGreaterThan:
		return value > c.Threshold
	case state.OperatorLessThan:
		return value < c.Threshold
	case state.OperatorGreaterThanOrEqual:
		return value >= c.Threshold
	case state.OperatorLessThanOrEqual:
		return value <= c.Threshold
	case state.OperatorEqual:
		return value == c.Threshold
	default:
		return false
	}
}

// severityFor derives severity from value's relative deviation from
// threshold (spec.md §4.12): >50% critical, >20% high, >10% medium, else
// low. A zero threshold is treated as maximally deviated by any nonzero
// value, since relative deviation is undefined at zero.
func severityFor(value, threshold float64) Severity {
	if threshold == 0 {
		if value == 0 {
			return SeverityLow
		}
		return SeverityCritical
	}

	deviation := (value - threshold) / threshold
	if deviation < 0 {
		deviation = -deviation
	}

	switch {
	case deviation > 0.5:
		return SeverityCritical
	case deviation > 0.2:
		return SeverityHigh
	case deviation > 0.1:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
