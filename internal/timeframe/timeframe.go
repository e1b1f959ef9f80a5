// Package timeframe resolves symbolic time-range labels into concrete
// query windows.
package timeframe

import "time"

// RangeLabel represents the available time range options.
type RangeLabel string

const (
	RangeLabelDay   RangeLabel = "day"
	RangeLabelWeek  RangeLabel = "week"
	RangeLabelMonth RangeLabel = "month"
	RangeLabelYear  RangeLabel = "year"
)

// DefaultRangeLabel is used when no or an unrecognized label is supplied.
const DefaultRangeLabel = RangeLabelWeek

// TimeFrame is a half-open window [From, now) anchored at the moment of
// resolution. Queries filter on created_at >= From.
type TimeFrame struct {
	Label RangeLabel
	From  time.Time
}

// Resolve maps a symbolic label onto a concrete window ending at now.
// "day" is a rolling 24 hours, not calendar midnight. Unrecognized labels
// (including the empty string) resolve to the default week window.
func Resolve(label string, now time.Time) TimeFrame {
	switch RangeLabel(label) {
	case RangeLabelDay:
		return TimeFrame{Label: RangeLabelDay, From: now.Add(-24 * time.Hour)}
	case RangeLabelWeek:
		return TimeFrame{Label: RangeLabelWeek, From: now.AddDate(0, 0, -7)}
	case RangeLabelMonth:
		return TimeFrame{Label: RangeLabelMonth, From: now.AddDate(0, -1, 0)}
	case RangeLabelYear:
		return TimeFrame{Label: RangeLabelYear, From: now.AddDate(-1, 0, 0)}
	default:
		return TimeFrame{Label: DefaultRangeLabel, From: now.AddDate(0, 0, -7)}
	}
}
