package events

import (
	"time"

	"folio/internal/models"
)

// EventType identifies what a tracked event represents. The values are the
// wire values accepted by the ingestion API.
type EventType string

const (
	EventTypePageView          EventType = "pageView"
	EventTypeContactSubmission EventType = "contactSubmission"
	EventTypeResumeDownload    EventType = "resumeDownload"
	EventTypeProjectView       EventType = "projectView"
	EventTypeSkillView         EventType = "skillView"
)

// Valid reports whether the event type is one of the known wire values.
func (t EventType) Valid() bool {
	switch t {
	case EventTypePageView, EventTypeContactSubmission, EventTypeResumeDownload,
		EventTypeProjectView, EventTypeSkillView:
		return true
	}
	return false
}

// UnknownCountry marks events whose IP could not be resolved to a country.
const UnknownCountry = "__unknown_country__"

// Event is an append-only tracked interaction. Rows are never updated after
// insertion; all aggregation queries run directly against this table,
// windowed on CreatedAt.
type Event struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	EventType EventType `gorm:"index;not null"`
	VisitorID string    `gorm:"index;size:64;not null"`
	UserID    *uint     `gorm:"index"`
	IsAdmin   bool      `gorm:"index;not null;default:false"`
	IP        string
	UserAgent string `gorm:"not null"`
	Referrer  string
	Path      string `gorm:"index;not null"`
	Country   string `gorm:"index"`
	TimeSpent int    `gorm:"not null;default:0"`
	ProjectID uint   `gorm:"index"`
	SkillID   uint   `gorm:"index"`
	Metadata  models.JSON
	CreatedAt time.Time `gorm:"index;not null"`
}
