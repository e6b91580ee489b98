package session

import (
	"time"
)

const (
	maxQueryHistory     = 10
	mergeWindow         = 3
	entityMinOccurrence = 2
)

// QueryEntry is one entry of a SessionContext's bounded query history
// (spec.md §3).
type QueryEntry struct {
	Query     string     `json:"query"`
	Intent    string     `json:"intent"`
	Entities  []string   `json:"entities"`
	TimeRange *TimeRange `json:"time_range,omitempty"`
	Metrics   []string   `json:"metrics,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// TimeRange is a free-form time window extracted from a query.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Context is the SessionContext of spec.md §3: created-at, last-updated,
// and a bounded query-history.
type Context struct {
	CreatedAt   time.Time    `json:"created_at"`
	LastUpdated time.Time    `json:"last_updated"`
	History     []QueryEntry `json:"history"`
}

// ExtractedContext is what ExtractForQuery merges out of recent history
// (spec.md §4.10).
type ExtractedContext struct {
	LastQuery string
	Entities  []string
	TimeRange *TimeRange
	Metrics   []string
}

func newContext() Context {
	now := time.Now()
	return Context{CreatedAt: now, LastUpdated: now, History: nil}
}

// appendQuery appends entry to ctx's history, retaining only the last
// maxQueryHistory entries (spec.md §4.10).
func appendQuery(ctx Context, entry QueryEntry) Context {
	ctx.History = append(ctx.History, entry)
	if len(ctx.History) > maxQueryHistory {
		ctx.History = ctx.History[len(ctx.History)-maxQueryHistory:]
	}
	ctx.LastUpdated = time.Now()
	return ctx
}

// extractForQuery derives the merged entity/time/metric context from the
// last mergeWindow entries of ctx.History, then fills gaps on
// currentEntities without overwriting anything already present there
// (spec.md §4.10: "MUST NOT overwrite entities already present on the
// current query; it only fills gaps").
func extractForQuery(ctx Context, currentEntities []string) ExtractedContext {
	window := recentWindow(ctx.History, mergeWindow)

	extracted := ExtractedContext{}
	if len(window) > 0 {
		extracted.LastQuery = window[len(window)-1].Query
	}
	extracted.Entities = entitiesAppearingAtLeast(window, entityMinOccurrence)
	extracted.TimeRange = mostRecentTimeRange(window)
	extracted.Metrics = dedupedMetrics(window)

	if len(currentEntities) > 0 {
		extracted.Entities = currentEntities
	}
	return extracted
}

func recentWindow(history []QueryEntry, n int) []QueryEntry {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

// entitiesAppearingAtLeast returns entities occurring at least minCount times
// across window's entries (a repeat within one entry counts too), preserving
// first-seen order.
func entitiesAppearingAtLeast(window []QueryEntry, minCount int) []string {
	counts := make(map[string]int)
	var order []string
	for _, entry := range window {
		for _, e := range entry.Entities {
			if counts[e] == 0 {
				order = append(order, e)
			}
			counts[e]++
		}
	}
	var out []string
	for _, e := range order {
		if counts[e] >= minCount {
			out = append(out, e)
		}
	}
	return out
}

func mostRecentTimeRange(window []QueryEntry) *TimeRange {
	for i := len(window) - 1; i >= 0; i-- {
		if window[i].TimeRange != nil {
			return window[i].TimeRange
		}
	}
	return nil
}

func dedupedMetrics(window []QueryEntry) []string {
	seen := make(map[string]bool)
	var out []string
	for _, entry := range window {
		for _, m := range entry.Metrics {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out
}
