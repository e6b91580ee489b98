package state

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	bolt "go.etcd.io/bbolt"

	"github.com/chimera-labs/chimera/pkg/chimeraerrors"
)

var bucketRules = []byte("rules")

// Operator is a condition comparison operator (spec.md §3).
type Operator string

const (
	OperatorGreaterThan        Operator = ">"
	OperatorLessThan           Operator = "<"
	OperatorGreaterThanOrEqual Operator = "≥"
	OperatorLessThanOrEqual    Operator = "≤"
	OperatorEqual              Operator = "="
)

// Condition is the numeric test an AlertRule evaluates (spec.md §3).
type Condition struct {
	Metric          string   `json:"metric"`
	Operator        Operator `json:"operator"`
	Threshold       float64  `json:"threshold"`
	DurationSeconds int      `json:"duration_seconds"`
	CooldownSeconds int      `json:"cooldown_seconds"`
}

// AlertRule is the persisted monitoring rule of spec.md §3, keyed
// `monitoring:rule:<id>` (spec.md §6).
type AlertRule struct {
	ID                     string    `json:"id"`
	Name                   string    `json:"name"`
	Condition              Condition `json:"condition"`
	NotificationChannelIDs []string  `json:"notification_channel_ids"`
	Enabled                bool      `json:"enabled"`
}

// Store is the bbolt-backed AlertRule store of C11, adapted from the
// teacher's bucket-per-entity pattern down to a single rules bucket.
type Store struct {
	db *bolt.DB
}

// NewStore opens (creating if absent) a bbolt database under dataDir and
// ensures the rules bucket exists.
func NewStore(dataDir string) (*Store, error) {
	dbPath := filepath.Join(dataDir, "chimera.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, chimeraerrors.Wrap(chimeraerrors.KindDataSource, "state.open_failed", "failed to open rule store", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRules)
		return err
	})
	if err != nil {
		db.Close()
		return nil, chimeraerrors.Wrap(chimeraerrors.KindDataSource, "state.init_failed", "failed to create rules bucket", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func ruleKey(id string) []byte {
	return []byte(id)
}

// CreateRule persists rule, replacing any existing rule with the same id.
func (s *Store) CreateRule(rule *AlertRule) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRules)
		data, err := json.Marshal(rule)
		if err != nil {
			return err
		}
		return b.Put(ruleKey(rule.ID), data)
	})
	if err != nil {
		return chimeraerrors.Wrap(chimeraerrors.KindDataSource, "state.create_rule_failed", "failed to persist alert rule", err)
	}
	return nil
}

// UpdateRule persists rule atomically, replacing its prior value (the
// teacher's CreateNode/UpdateNode is a single upsert; this store follows
// suit).
func (s *Store) UpdateRule(rule *AlertRule) error {
	return s.CreateRule(rule)
}

// GetRule returns the rule with the given id, or a not-found error.
func (s *Store) GetRule(id string) (*AlertRule, error) {
	var rule AlertRule
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRules)
		data := b.Get(ruleKey(id))
		if data == nil {
			return fmt.Errorf("alert rule not found: %s", id)
		}
		return json.Unmarshal(data, &rule)
	})
	if err != nil {
		return nil, chimeraerrors.Wrap(chimeraerrors.KindSystem, "state.rule_not_found", "alert rule not found", err)
	}
	return &rule, nil
}

// ListRules returns every persisted rule.
func (s *Store) ListRules() ([]*AlertRule, error) {
	var rules []*AlertRule
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRules)
		return b.ForEach(func(k, v []byte) error {
			var rule AlertRule
			if err := json.Unmarshal(v, &rule); err != nil {
				return err
			}
			rules = append(rules, &rule)
			return nil
		})
	})
	if err != nil {
		return nil, chimeraerrors.Wrap(chimeraerrors.KindDataSource, "state.list_rules_failed", "failed to list alert rules", err)
	}
	return rules, nil
}

// DeleteRule removes the rule with the given id. Deleting an absent id is a
// no-op, matching bbolt's Delete semantics.
func (s *Store) DeleteRule(id string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRules)
		return b.Delete(ruleKey(id))
	})
	if err != nil {
		return chimeraerrors.Wrap(chimeraerrors.KindDataSource, "state.delete_rule_failed", "failed to delete alert rule", err)
	}
	return nil
}
