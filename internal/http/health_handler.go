package http

import (
	"errors"
	"time"

	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"
)

// HealthIndexAction reports liveness plus whether the event store answers a
// ping. The endpoint always returns 200; a broken database shows up as a
// degraded status rather than an error code so probes can tell the two
// failure modes apart.
func HealthIndexAction(ctx *cartridge.Context) error {
	status := "ok"
	dbStatus := "ok"

	if err := pingDatabase(ctx); err != nil {
		ctx.Logger.Error("Health check could not reach the database", slog.Any("error", err))
		status = "degraded"
		dbStatus = "error"
	}

	return ctx.JSON(fiber.Map{
		"status":    status,
		"db_status": dbStatus,
		"timestamp": time.Now().UTC(),
	})
}

func pingDatabase(ctx *cartridge.Context) error {
	db := ctx.DBManager.GetConnection()
	if db == nil {
		return errors.New("no database connection")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
