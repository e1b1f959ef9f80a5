package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/karloscodes/cartridge"
	"github.com/karloscodes/cartridge/sqlite"
	"gorm.io/gorm"

	"folio/internal/models"
	"folio/internal/users"
	"folio/internal/visitors"
)

// ValidationError reports a rejected event draft. Handlers map it to a 400.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid event: %s %s", e.Field, e.Reason)
}

// ErrNotTracked is returned when an event is deliberately suppressed
// (the authenticated user is an admin). Handlers map it to a 200 with a
// "not tracked" body; no row is written.
var ErrNotTracked = errors.New("event not tracked")

// RecordEventInput defines the input required to record an event.
type RecordEventInput struct {
	EventType EventType
	VisitorID string
	UserID    *uint
	IP        string
	UserAgent string
	Referrer  string
	Path      string
	TimeSpent int
	Metadata  json.RawMessage
}

// RecordEvent validates and stores a single event. Exactly one row is
// written per accepted call; a rejected or suppressed call writes nothing.
func RecordEvent(dbManager cartridge.DBManager, logger *slog.Logger, input *RecordEventInput) error {
	event, err := prepareEvent(dbManager.GetConnection(), logger, input)
	if err != nil {
		return err
	}

	err = sqlite.PerformWrite(logger, dbManager.GetConnection(), func(tx *gorm.DB) error {
		return tx.Create(event).Error
	})
	if err != nil {
		logger.Error("Failed to store event", slog.Any("error", err))
		return fmt.Errorf("failed to store event: %w", err)
	}

	return nil
}

// prepareEvent validates the draft and resolves server-side fields. It
// returns ErrNotTracked when the event belongs to an admin user.
func prepareEvent(db *gorm.DB, logger *slog.Logger, input *RecordEventInput) (*Event, error) {
	if !input.EventType.Valid() {
		return nil, &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown event type %q", input.EventType)}
	}

	visitorID, err := visitors.NormalizeID(input.VisitorID)
	if err != nil {
		var invalidID *visitors.InvalidIDError
		if errors.As(err, &invalidID) {
			return nil, &ValidationError{Field: "visitorId", Reason: invalidID.Reason}
		}
		return nil, err
	}

	if input.Path == "" {
		return nil, &ValidationError{Field: "path", Reason: "is required"}
	}
	// The handler backfills these from transport headers; a draft that still
	// lacks them is a client error, not something to paper over.
	if input.IP == "" {
		return nil, &ValidationError{Field: "ip", Reason: "is required"}
	}
	if input.UserAgent == "" {
		return nil, &ValidationError{Field: "userAgent", Reason: "is required"}
	}
	if input.TimeSpent < 0 {
		return nil, &ValidationError{Field: "timeSpent", Reason: "must not be negative"}
	}
	if len(input.Metadata) > 0 && !json.Valid(input.Metadata) {
		return nil, &ValidationError{Field: "metadata", Reason: "must be valid JSON"}
	}

	meta, err := ParseMetadata(input.EventType, input.Metadata)
	if err != nil {
		return nil, err
	}

	isAdmin := false
	if input.UserID != nil {
		user, err := users.FindByID(db, *input.UserID)
		switch {
		case err == nil:
			isAdmin = user.IsAdmin
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Stale or bogus userId, treat as anonymous
			logger.Debug("Event references unknown user, recording as anonymous",
				slog.Uint64("userId", uint64(*input.UserID)))
			input.UserID = nil
		default:
			logger.Error("Failed to resolve event user", slog.Any("error", err))
			return nil, fmt.Errorf("failed to resolve event user: %w", err)
		}
	}

	if isAdmin {
		logger.Debug("Suppressing admin event",
			slog.String("type", string(input.EventType)),
			slog.String("path", input.Path))
		return nil, ErrNotTracked
	}

	event := &Event{
		EventType: input.EventType,
		VisitorID: visitorID,
		UserID:    input.UserID,
		IsAdmin:   isAdmin,
		IP:        input.IP,
		UserAgent: input.UserAgent,
		Referrer:  input.Referrer,
		Path:      input.Path,
		Country:   GetCountryFromIP(input.IP),
		TimeSpent: input.TimeSpent,
		Metadata:  models.JSON(input.Metadata),
		CreatedAt: time.Now().UTC(),
	}

	switch m := meta.(type) {
	case ProjectViewMetadata:
		event.ProjectID = m.ProjectID
	case SkillViewMetadata:
		event.SkillID = m.SkillID
	}

	return event, nil
}
