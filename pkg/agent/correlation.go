package agent

import (
	"sync"
	"time"

	"github.com/chimera-labs/chimera/pkg/metrics"
)

// CorrelationEntry tracks one in-flight request/response chain (spec.md §3).
type CorrelationEntry struct {
	RequestRoutingKey string
	ReplyRoutingKey   string
	Context           map[string]any
	CreatedAt         time.Time
}

// CorrelationRegistry is an in-process mapping from correlation-id to
// CorrelationEntry (spec.md §4.6). Reaping is an explicit operation the
// agent calls on its own cadence — never a background goroutine started
// implicitly by the registry itself.
type CorrelationRegistry struct {
	mu      sync.Mutex
	entries map[string]CorrelationEntry
}

func NewCorrelationRegistry() *CorrelationRegistry {
	return &CorrelationRegistry{entries: make(map[string]CorrelationEntry)}
}

// Store records a new entry, overwriting any existing entry for the same id.
func (r *CorrelationRegistry) Store(correlationID string, entry CorrelationEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[correlationID] = entry
	metrics.CorrelationsInFlight.Set(float64(len(r.entries)))
}

// Get returns the entry for correlationID and whether it was present.
// Absence is tolerated by callers (spec.md §4.6) — it is not a hard error.
func (r *CorrelationRegistry) Get(correlationID string) (CorrelationEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[correlationID]
	return entry, ok
}

// Clear removes the entry for correlationID, if present.
func (r *CorrelationRegistry) Clear(correlationID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, correlationID)
	metrics.CorrelationsInFlight.Set(float64(len(r.entries)))
}

// CleanupOldCorrelations removes every entry whose CreatedAt is older than
// now-maxAge and returns the count reaped. Idempotent: a second call with
// the same age removes nothing further (spec.md §8 law).
func (r *CorrelationRegistry) CleanupOldCorrelations(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	r.mu.Lock()
	defer r.mu.Unlock()
	reaped := 0
	for id, entry := range r.entries {
		if entry.CreatedAt.Before(cutoff) {
			delete(r.entries, id)
			reaped++
		}
	}
	metrics.CorrelationsInFlight.Set(float64(len(r.entries)))
	metrics.CorrelationsReapedTotal.Add(float64(reaped))
	return reaped
}
