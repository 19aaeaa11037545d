// Package analytics records search events and aggregates them for the
// admin dashboard: top queries, zero-result rate, per-category volume.
package analytics

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	avida "github.com/kelvinofficial/avida-sub002"
)

// SearchEvent is one recorded search.
type SearchEvent struct {
	ID          string    `json:"id"`
	Query       string    `json:"query"`
	Category    string    `json:"category,omitempty"`
	ResultCount int       `json:"result_count"`
	At          time.Time `json:"at"`
}

// DefaultCapacity is how many events a recorder keeps before dropping the
// oldest.
const DefaultCapacity = 10000

// Recorder is a bounded, concurrent-safe in-memory search event log.
type Recorder struct {
	mu       sync.Mutex
	events   []SearchEvent
	capacity int
}

// NewRecorder creates a recorder keeping at most capacity events. A
// non-positive capacity uses DefaultCapacity.
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Recorder{capacity: capacity}
}

// RecordSearch records a search event. Queries are normalized to lowercase
// trimmed form so aggregations group case variants together.
func (r *Recorder) RecordSearch(query, category string, resultCount int) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return
	}

	event := SearchEvent{
		ID:          uuid.NewString(),
		Query:       query,
		Category:    category,
		ResultCount: resultCount,
		At:          time.Now(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	if len(r.events) > r.capacity {
		r.events = r.events[len(r.events)-r.capacity:]
	}
}

// Events returns a copy of the events within the window. A non-positive
// window returns everything.
func (r *Recorder) Events(window time.Duration) []SearchEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	if window <= 0 {
		out := make([]SearchEvent, len(r.events))
		copy(out, r.events)
		return out
	}

	cutoff := time.Now().Add(-window)
	var out []SearchEvent
	for _, e := range r.events {
		if e.At.After(cutoff) {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of retained events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// QueryCount is a query with its occurrence count.
type QueryCount struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// CategoryCount is a category with its search volume.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Summary is the dashboard's headline numbers for a window.
type Summary struct {
	Window            string          `json:"window"`
	TotalSearches     int             `json:"total_searches"`
	ZeroResultCount   int             `json:"zero_result_count"`
	ZeroResultRate    float64         `json:"zero_result_rate"`
	DistinctQueries   int             `json:"distinct_queries"`
	CategoryBreakdown []CategoryCount `json:"category_breakdown"`
}

// Summarize aggregates the window into dashboard numbers.
func (r *Recorder) Summarize(window time.Duration) Summary {
	events := r.Events(window)

	summary := Summary{Window: window.String()}
	distinct := make(map[string]bool)
	categories := make(map[string]int)

	for _, e := range events {
		summary.TotalSearches++
		distinct[e.Query] = true
		if e.ResultCount == 0 {
			summary.ZeroResultCount++
		}
		if e.Category != "" {
			categories[e.Category]++
		}
	}

	summary.DistinctQueries = len(distinct)
	if summary.TotalSearches > 0 {
		summary.ZeroResultRate = float64(summary.ZeroResultCount) / float64(summary.TotalSearches)
	}

	for category, count := range categories {
		summary.CategoryBreakdown = append(summary.CategoryBreakdown, CategoryCount{category, count})
	}
	sortCategoryCounts(summary.CategoryBreakdown)

	return summary
}

// TopQueries returns the most frequent queries in the window.
func (r *Recorder) TopQueries(window time.Duration, limit int) []QueryCount {
	return r.topBy(window, limit, func(SearchEvent) bool { return true })
}

// ZeroResultQueries returns the most frequent queries that found nothing,
// the dashboard's "inventory gaps" table.
func (r *Recorder) ZeroResultQueries(window time.Duration, limit int) []QueryCount {
	return r.topBy(window, limit, func(e SearchEvent) bool { return e.ResultCount == 0 })
}

func (r *Recorder) topBy(window time.Duration, limit int, include func(SearchEvent) bool) []QueryCount {
	counts := make(map[string]int)
	for _, e := range r.Events(window) {
		if include(e) {
			counts[e.Query]++
		}
	}

	out := make([]QueryCount, 0, len(counts))
	for query, count := range counts {
		out = append(out, QueryCount{query, count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Query < out[j].Query
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func sortCategoryCounts(counts []CategoryCount) {
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Category < counts[j].Category
	})
}

// Verify Recorder implements the feed's recorder hook
var _ avida.SearchRecorder = (*Recorder)(nil)
