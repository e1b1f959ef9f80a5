// Package analytics provides the aggregation queries behind the dashboard
// summary.
//
// The package is organized into focused modules:
//   - totals.go: scalar totals (unique visitors, page views, counters, time spent)
//   - metrics.go: top-N queries (locations, projects, skills)
//   - summary.go: concurrent fan-out assembling the full summary
//
// All queries run directly against the append-only events table, windowed
// on created_at. Admin traffic (is_admin = 1) is excluded from every facet.
package analytics

import (
	"folio/internal/timeframe"
)

// MetricCountResult represents a generic key-count pair for query results.
type MetricCountResult struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// DefaultTopLimit bounds every top-N facet.
const DefaultTopLimit = 5

// QueryParams contains common parameters for aggregation queries.
type QueryParams struct {
	TimeFrame timeframe.TimeFrame
	Limit     int // Number of records to return for top-N facets
}

// NewQueryParams creates query params for the given time frame with the
// default top-N limit.
func NewQueryParams(tf timeframe.TimeFrame) QueryParams {
	return QueryParams{
		TimeFrame: tf,
		Limit:     DefaultTopLimit,
	}
}
