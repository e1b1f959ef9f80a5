package v1

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"folio/internal/events"
)

const (
	msgEventRecorded  = "Event recorded successfully"
	msgEventSkipped   = "not tracked"
	errInvalidRequest = "Invalid request"
)

// CreateEventParams is the public ingestion payload.
type CreateEventParams struct {
	Type      string          `json:"type"`
	VisitorID string          `json:"visitorId"`
	UserID    *uint           `json:"userId"`
	IP        string          `json:"ip"`
	UserAgent string          `json:"userAgent"`
	Referrer  string          `json:"referrer"`
	Path      string          `json:"path"`
	TimeSpent int             `json:"timeSpent"`
	Metadata  json.RawMessage `json:"metadata"`
}

// CreateEventHandler accepts a tracked event from the public tracker.
// Responses: 201 recorded, 200 suppressed ("not tracked"), 400 rejected.
func CreateEventHandler(ctx *cartridge.Context) error {
	ctx.Logger.Debug("Received event request",
		slog.String("method", ctx.Method()),
		slog.String("path", ctx.Path()))

	var params CreateEventParams
	if err := ctx.BodyParser(&params); err != nil {
		ctx.Logger.Debug("Failed to parse event request", slog.Any("error", err))
		return ctx.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": errInvalidRequest,
			"code":  "INVALID_BODY",
		})
	}

	userAgent := params.UserAgent
	if userAgent == "" {
		userAgent = ctx.Get("User-Agent")
	}
	if forwardedUA := ctx.Get("X-Forwarded-User-Agent"); forwardedUA != "" {
		userAgent = forwardedUA
	}

	// The tracker forwards the IP it saw when available; otherwise fall
	// back to the transport-level client address.
	ip := params.IP
	if ip == "" {
		ip = getClientIP(ctx.Ctx)
	}

	input := &events.RecordEventInput{
		EventType: events.EventType(params.Type),
		VisitorID: params.VisitorID,
		UserID:    params.UserID,
		IP:        ip,
		UserAgent: userAgent,
		Referrer:  params.Referrer,
		Path:      params.Path,
		TimeSpent: params.TimeSpent,
		Metadata:  params.Metadata,
	}

	if err := events.RecordEvent(ctx.DBManager, ctx.Logger, input); err != nil {
		if errors.Is(err, events.ErrNotTracked) {
			ctx.Logger.Debug("Event suppressed")
			return ctx.Status(http.StatusOK).JSON(fiber.Map{
				"message": msgEventSkipped,
				"status":  http.StatusOK,
			})
		}

		var validationErr *events.ValidationError
		if errors.As(err, &validationErr) {
			return ctx.Status(http.StatusBadRequest).JSON(fiber.Map{
				"error": validationErr.Error(),
				"code":  "VALIDATION_ERROR",
			})
		}

		ctx.Logger.Error("Failed to record event", slog.Any("error", err))
		if strings.Contains(err.Error(), "database is locked") || strings.Contains(err.Error(), "busy") {
			return ctx.Status(599).JSON(fiber.Map{}) // custom status code
		}

		return ctx.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record event",
			"code":  "RECORD_ERROR",
		})
	}

	return ctx.Status(http.StatusCreated).JSON(fiber.Map{
		"message": msgEventRecorded,
		"status":  http.StatusCreated,
	})
}
