package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chimera-labs/chimera/pkg/chimeraerrors"
	"github.com/chimera-labs/chimera/pkg/metrics"
)

const (
	keyPrefix  = "chimera:context:"
	defaultTTL = time.Hour
)

// Store is the Redis-backed session context store of spec.md §4.10. Each
// session's Context is a single JSON blob; per-session locks keep
// append_query's read-modify-write atomic against concurrent handlers in
// this process (Redis alone does not serialize a read-then-write round
// trip without WATCH/transactions, which this store's access pattern
// doesn't need given sessions are handled by one agent process at a time).
type Store struct {
	client *redis.Client
	ttl    time.Duration

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client, ttl: defaultTTL, locks: make(map[string]*sync.Mutex)}
}

func (s *Store) lockFor(sessionID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[sessionID] = l
	}
	return l
}

func key(sessionID string) string {
	return keyPrefix + sessionID
}

// Get returns the session's context, or an empty Context if none exists.
// A read slides the TTL per spec.md §3.
func (s *Store) Get(ctx context.Context, sessionID string) (Context, error) {
	metrics.SessionReadsTotal.Inc()
	raw, err := s.client.Get(ctx, key(sessionID)).Bytes()
	if err == redis.Nil {
		return Context{}, nil
	}
	if err != nil {
		return Context{}, chimeraerrors.Wrap(chimeraerrors.KindDataSource, "session.get_failed", "failed to read session context", err)
	}

	var c Context
	if err := json.Unmarshal(raw, &c); err != nil {
		return Context{}, chimeraerrors.Wrap(chimeraerrors.KindDataProcessing, "session.decode_failed", "failed to decode session context", err)
	}
	s.client.Expire(ctx, key(sessionID), s.ttl)
	return c, nil
}

// Save overwrites the session's context wholesale.
func (s *Store) Save(ctx context.Context, sessionID string, c Context) error {
	body, err := json.Marshal(c)
	if err != nil {
		return chimeraerrors.Wrap(chimeraerrors.KindDataProcessing, "session.encode_failed", "failed to encode session context", err)
	}
	if err := s.client.Set(ctx, key(sessionID), body, s.ttl).Err(); err != nil {
		return chimeraerrors.Wrap(chimeraerrors.KindDataSource, "session.save_failed", "failed to write session context", err)
	}
	metrics.SessionWritesTotal.Inc()
	return nil
}

// Update applies mutate to the session's current context (creating one if
// absent) and saves the result, serialized against other Update/AppendQuery
// calls for the same session id.
func (s *Store) Update(ctx context.Context, sessionID string, mutate func(Context) Context) error {
	lock := s.lockFor(sessionID)
	lock.Lock()
	defer lock.Unlock()

	current, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if current.CreatedAt.IsZero() {
		current = newContext()
	}
	return s.Save(ctx, sessionID, mutate(current))
}

// AppendQuery records one query-history entry, retaining only the last 10
// (spec.md §4.10).
func (s *Store) AppendQuery(ctx context.Context, sessionID, query, intent string, entities []string) error {
	return s.Update(ctx, sessionID, func(c Context) Context {
		return appendQuery(c, QueryEntry{
			Query:     query,
			Intent:    intent,
			Entities:  entities,
			Timestamp: time.Now(),
		})
	})
}

// ExtractForQuery merges entity/time/metric context from the session's
// recent history against currentEntities (spec.md §4.10).
func (s *Store) ExtractForQuery(ctx context.Context, sessionID string, currentEntities []string) (ExtractedContext, error) {
	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return ExtractedContext{}, err
	}
	return extractForQuery(c, currentEntities), nil
}

// Clear deletes the session's context entirely.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, key(sessionID)).Err(); err != nil {
		return chimeraerrors.Wrap(chimeraerrors.KindDataSource, "session.clear_failed", "failed to clear session context", err)
	}
	return nil
}

// ExtendTTL slides the session's TTL without reading or modifying its
// context.
func (s *Store) ExtendTTL(ctx context.Context, sessionID string) error {
	if err := s.client.Expire(ctx, key(sessionID), s.ttl).Err(); err != nil {
		return chimeraerrors.Wrap(chimeraerrors.KindDataSource, "session.extend_ttl_failed", "failed to extend session TTL", err)
	}
	return nil
}
