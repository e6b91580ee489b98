package agent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenario 1 (spec.md §8): get_correlation_context is non-null before
// clear_correlation, null after.
func TestCorrelationRegistryStoreGetClear(t *testing.T) {
	r := NewCorrelationRegistry()
	r.Store("c1", CorrelationEntry{RequestRoutingKey: "test.request", ReplyRoutingKey: "test.response", CreatedAt: time.Now()})

	entry, ok := r.Get("c1")
	require.True(t, ok)
	assert.Equal(t, "test.request", entry.RequestRoutingKey)

	r.Clear("c1")
	_, ok = r.Get("c1")
	assert.False(t, ok)
}

func TestCorrelationRegistryGetAbsentIsTolerated(t *testing.T) {
	r := NewCorrelationRegistry()
	_, ok := r.Get("missing")
	assert.False(t, ok)
}

// Scenario 6 (spec.md §8): cleanup_old_correlations(3600) removes only the
// entry older than one hour.
func TestCleanupOldCorrelationsReapsOnlyStaleEntries(t *testing.T) {
	r := NewCorrelationRegistry()
	r.Store("stale", CorrelationEntry{CreatedAt: time.Now().Add(-2 * time.Hour)})
	r.Store("fresh", CorrelationEntry{CreatedAt: time.Now().Add(-30 * time.Minute)})

	reaped := r.CleanupOldCorrelations(time.Hour)
	assert.Equal(t, 1, reaped)

	_, staleStillThere := r.Get("stale")
	assert.False(t, staleStillThere)
	_, freshStillThere := r.Get("fresh")
	assert.True(t, freshStillThere)
}

func TestCleanupOldCorrelationsIsIdempotent(t *testing.T) {
	r := NewCorrelationRegistry()
	r.Store("stale", CorrelationEntry{CreatedAt: time.Now().Add(-2 * time.Hour)})

	assert.Equal(t, 1, r.CleanupOldCorrelations(time.Hour))
	assert.Equal(t, 0, r.CleanupOldCorrelations(time.Hour))
}
