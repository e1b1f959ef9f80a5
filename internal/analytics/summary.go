package analytics

import (
	"context"
	"fmt"

	"log/slog"

	"gorm.io/gorm"

	"folio/internal/pkg/async"
	"folio/internal/timeframe"
)

// Summary is the full dashboard aggregation for one time frame.
type Summary struct {
	TimeRange          string              `json:"timeRange"`
	UniqueVisitors     int64               `json:"uniqueVisitors"`
	PageViews          int64               `json:"pageViews"`
	ContactSubmissions int64               `json:"contactSubmissions"`
	ResumeDownloads    int64               `json:"resumeDownloads"`
	TopLocations       []MetricCountResult `json:"topLocations"`
	TopProjects        []MetricCountResult `json:"topProjects"`
	TopSkills          []MetricCountResult `json:"topSkills"`
	TimeSpent          TimeSpentStats      `json:"timeSpent"`
}

// BuildSummary runs all eight facet queries concurrently and assembles the
// summary. If any facet fails, the whole aggregation fails; a summary with
// silently missing facets would be indistinguishable from a quiet week.
func BuildSummary(db *gorm.DB, tf timeframe.TimeFrame, logger *slog.Logger) (*Summary, error) {
	queryParams := NewQueryParams(tf)

	tasks := []async.Task{
		{
			Name: "uniqueVisitors",
			Execute: func() (interface{}, error) {
				return GetUniqueVisitors(db, queryParams)
			},
		},
		{
			Name: "pageViews",
			Execute: func() (interface{}, error) {
				return GetPageViewCount(db, queryParams)
			},
		},
		{
			Name: "contactSubmissions",
			Execute: func() (interface{}, error) {
				return GetContactSubmissionCount(db, queryParams)
			},
		},
		{
			Name: "resumeDownloads",
			Execute: func() (interface{}, error) {
				return GetResumeDownloadCount(db, queryParams)
			},
		},
		{
			Name: "topLocations",
			Execute: func() (interface{}, error) {
				return GetTopCountries(db, queryParams)
			},
		},
		{
			Name: "topProjects",
			Execute: func() (interface{}, error) {
				return GetTopProjects(db, queryParams)
			},
		},
		{
			Name: "topSkills",
			Execute: func() (interface{}, error) {
				return GetTopSkills(db, queryParams)
			},
		},
		{
			Name: "timeSpent",
			Execute: func() (interface{}, error) {
				return GetTimeSpentStats(db, queryParams)
			},
		},
	}

	pool := async.NewPool(len(tasks))
	results := pool.Execute(context.Background(), tasks)

	// Check for errors first
	for name, result := range results {
		if result.Err != nil {
			logger.Error("Facet query failed",
				slog.String("facet", name),
				slog.Any("error", result.Err))
			return nil, fmt.Errorf("error fetching %s: %w", name, result.Err)
		}
	}

	return &Summary{
		TimeRange:          string(tf.Label),
		UniqueVisitors:     results["uniqueVisitors"].Data.(int64),
		PageViews:          results["pageViews"].Data.(int64),
		ContactSubmissions: results["contactSubmissions"].Data.(int64),
		ResumeDownloads:    results["resumeDownloads"].Data.(int64),
		TopLocations:       ensureNonNil(results["topLocations"].Data.([]MetricCountResult)),
		TopProjects:        ensureNonNil(results["topProjects"].Data.([]MetricCountResult)),
		TopSkills:          ensureNonNil(results["topSkills"].Data.([]MetricCountResult)),
		TimeSpent:          results["timeSpent"].Data.(TimeSpentStats),
	}, nil
}

// ensureNonNil keeps empty facets serializing as [] rather than null.
func ensureNonNil(results []MetricCountResult) []MetricCountResult {
	if results == nil {
		return []MetricCountResult{}
	}
	return results
}
