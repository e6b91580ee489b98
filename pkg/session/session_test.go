package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAppendQueryCapsHistoryAtTen(t *testing.T) {
	c := newContext()
	for i := 0; i < 15; i++ {
		c = appendQuery(c, QueryEntry{Query: "q", Timestamp: time.Now()})
	}
	assert.Len(t, c.History, maxQueryHistory)
}

func TestExtractForQueryReturnsEntitiesInAtLeastTwoOfLastThree(t *testing.T) {
	now := time.Now()
	c := Context{History: []QueryEntry{
		{Query: "q1", Entities: []string{"bitcoin"}, Timestamp: now.Add(-3 * time.Minute)},
		{Query: "q2", Entities: []string{"bitcoin", "ethereum"}, Timestamp: now.Add(-2 * time.Minute)},
		{Query: "q3", Entities: []string{"ethereum"}, Timestamp: now.Add(-time.Minute)},
	}}

	extracted := extractForQuery(c, nil)
	assert.Equal(t, "q3", extracted.LastQuery)
	assert.ElementsMatch(t, []string{"bitcoin", "ethereum"}, extracted.Entities)
}

func TestExtractForQueryOnlyConsidersLastThreeEntries(t *testing.T) {
	now := time.Now()
	c := Context{History: []QueryEntry{
		{Query: "q0", Entities: []string{"solana"}, Timestamp: now.Add(-10 * time.Minute)},
		{Query: "q0b", Entities: []string{"solana"}, Timestamp: now.Add(-9 * time.Minute)},
		{Query: "q1", Entities: []string{"bitcoin"}, Timestamp: now.Add(-3 * time.Minute)},
		{Query: "q2", Entities: []string{}, Timestamp: now.Add(-2 * time.Minute)},
		{Query: "q3", Entities: []string{}, Timestamp: now.Add(-time.Minute)},
	}}

	extracted := extractForQuery(c, nil)
	assert.NotContains(t, extracted.Entities, "solana")
}

func TestExtractForQueryDoesNotOverwriteCurrentEntities(t *testing.T) {
	c := Context{History: []QueryEntry{
		{Query: "q1", Entities: []string{"bitcoin"}},
		{Query: "q2", Entities: []string{"bitcoin"}},
	}}

	extracted := extractForQuery(c, []string{"ethereum"})
	assert.Equal(t, []string{"ethereum"}, extracted.Entities)
}

func TestExtractForQueryFillsGapWhenCurrentEntitiesEmpty(t *testing.T) {
	c := Context{History: []QueryEntry{
		{Query: "q1", Entities: []string{"bitcoin"}},
		{Query: "q2", Entities: []string{"bitcoin"}},
	}}

	extracted := extractForQuery(c, nil)
	assert.Equal(t, []string{"bitcoin"}, extracted.Entities)
}

func TestExtractForQueryDedupesMetricsAndPicksMostRecentTimeRange(t *testing.T) {
	now := time.Now()
	older := &TimeRange{Start: now.Add(-48 * time.Hour), End: now.Add(-24 * time.Hour)}
	recent := &TimeRange{Start: now.Add(-24 * time.Hour), End: now}
	c := Context{History: []QueryEntry{
		{Metrics: []string{"price"}, TimeRange: older},
		{Metrics: []string{"price", "volume"}, TimeRange: nil},
		{Metrics: []string{"volume"}, TimeRange: recent},
	}}

	extracted := extractForQuery(c, nil)
	assert.Equal(t, []string{"price", "volume"}, extracted.Metrics)
	assert.Same(t, recent, extracted.TimeRange)
}
