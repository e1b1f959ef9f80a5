package analytics

import (
	"fmt"

	"gorm.io/gorm"

	"folio/internal/events"
)

// GetUniqueVisitors counts distinct visitor ids in the time frame.
func GetUniqueVisitors(db *gorm.DB, params QueryParams) (int64, error) {
	var result struct {
		UniqueVisitors int64
	}

	query := `
    SELECT COUNT(DISTINCT visitor_id) as unique_visitors
    FROM events
    WHERE created_at >= ?
    AND is_admin = 0
    `

	err := db.Raw(query, params.TimeFrame.From.UTC()).Scan(&result).Error
	if err != nil {
		return 0, fmt.Errorf("error calculating unique visitors: %w", err)
	}

	return result.UniqueVisitors, nil
}

// GetPageViewCount counts page views in the time frame. Views of the admin
// surface itself never count, whoever triggered them.
func GetPageViewCount(db *gorm.DB, params QueryParams) (int64, error) {
	var result struct {
		PageViews int64
	}

	query := `
    SELECT COUNT(*) as page_views
    FROM events
    WHERE created_at >= ?
    AND event_type = ?
    AND is_admin = 0
    AND path NOT LIKE '/admin%'
    `

	err := db.Raw(query, params.TimeFrame.From.UTC(), events.EventTypePageView).Scan(&result).Error
	if err != nil {
		return 0, fmt.Errorf("error calculating page views: %w", err)
	}

	return result.PageViews, nil
}

// GetContactSubmissionCount counts contact form submissions in the time frame.
func GetContactSubmissionCount(db *gorm.DB, params QueryParams) (int64, error) {
	return countEventsOfType(db, params, events.EventTypeContactSubmission)
}

// GetResumeDownloadCount counts resume downloads in the time frame.
func GetResumeDownloadCount(db *gorm.DB, params QueryParams) (int64, error) {
	return countEventsOfType(db, params, events.EventTypeResumeDownload)
}

func countEventsOfType(db *gorm.DB, params QueryParams, eventType events.EventType) (int64, error) {
	var result struct {
		Total int64
	}

	query := `
    SELECT COUNT(*) as total
    FROM events
    WHERE created_at >= ?
    AND event_type = ?
    AND is_admin = 0
    `

	err := db.Raw(query, params.TimeFrame.From.UTC(), eventType).Scan(&result).Error
	if err != nil {
		return 0, fmt.Errorf("error counting %s events: %w", eventType, err)
	}

	return result.Total, nil
}

// TimeSpentStats aggregates the self-reported time-on-page beacons.
type TimeSpentStats struct {
	AverageSeconds float64 `json:"averageSeconds"`
	TotalSeconds   int64   `json:"totalSeconds"`
}

// GetTimeSpentStats calculates average and total time spent over page view
// events that actually carried a positive reading. Other event types may
// store a timeSpent value but never contribute here.
func GetTimeSpentStats(db *gorm.DB, params QueryParams) (TimeSpentStats, error) {
	var result struct {
		AverageSeconds float64
		TotalSeconds   int64
	}

	query := `
    SELECT
        COALESCE(AVG(time_spent), 0) as average_seconds,
        COALESCE(SUM(time_spent), 0) as total_seconds
    FROM events
    WHERE created_at >= ?
    AND event_type = ?
    AND is_admin = 0
    AND time_spent > 0
    `

	err := db.Raw(query, params.TimeFrame.From.UTC(), events.EventTypePageView).Scan(&result).Error
	if err != nil {
		return TimeSpentStats{}, fmt.Errorf("error calculating time spent stats: %w", err)
	}

	return TimeSpentStats{
		AverageSeconds: result.AverageSeconds,
		TotalSeconds:   result.TotalSeconds,
	}, nil
}
