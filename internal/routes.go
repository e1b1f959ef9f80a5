package internal

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/karloscodes/cartridge"
	cartridgemiddleware "github.com/karloscodes/cartridge/middleware"

	v1 "folio/api/v1"
	"folio/internal/config"
	"folio/internal/http"
	"folio/internal/http/middleware"
)

// publicCORSConfig is shared by every public endpoint: the tracker runs on
// the portfolio site, which may live on another origin than this backend.
var publicCORSConfig = &cors.Config{
	AllowOrigins: "*",
	AllowMethods: "POST,GET,OPTIONS",
	AllowHeaders: "Origin, Content-Type, Accept, Authorization, Referrer, User-Agent",
}

// MountAppRoutes mounts all application routes using cartridge's route API.
func MountAppRoutes(srv *cartridge.Server) {
	cfg := config.GetConfig()

	// Helper to conditionally apply rate limiting (only in production).
	// In development/test, rate limiting would interfere with testing.
	conditionalRateLimiter := func(limiter fiber.Handler) fiber.Handler {
		return func(c *fiber.Ctx) error {
			if cfg.IsProduction() {
				return limiter(c)
			}
			return c.Next()
		}
	}

	// Rate limiter for public event ingestion (70 requests per minute per IP)
	publicRateLimiter := conditionalRateLimiter(cartridgemiddleware.RateLimiter(
		cartridgemiddleware.WithMax(70),
		cartridgemiddleware.WithDuration(time.Minute),
	))

	// Stricter limiter for login to slow down brute force attempts
	authRateLimiter := conditionalRateLimiter(cartridgemiddleware.RateLimiter(
		cartridgemiddleware.WithMax(10),
		cartridgemiddleware.WithDuration(time.Minute),
	))

	// Public ingestion config: rate limiting + CORS. CORS runs first so
	// rejected requests still carry CORS headers.
	publicAPIConfig := &cartridge.RouteConfig{
		EnableCORS:       true,
		WriteConcurrency: false,
		CustomMiddleware: []fiber.Handler{publicRateLimiter},
		CORSConfig:       publicCORSConfig,
	}

	// Tracker delivery config (GET-only)
	trackerConfig := &cartridge.RouteConfig{
		EnableCORS:       true,
		CustomMiddleware: []fiber.Handler{publicRateLimiter},
		CORSConfig:       publicCORSConfig,
	}

	loginConfig := &cartridge.RouteConfig{
		CustomMiddleware: []fiber.Handler{authRateLimiter},
	}

	db := srv.GetDBManager().GetConnection()
	logger := srv.GetLogger()

	adminConfig := &cartridge.RouteConfig{
		CustomMiddleware: []fiber.Handler{
			middleware.RequireAdmin(cfg, db, logger),
		},
	}

	// === HEALTH ===
	srv.Get("/_health", http.HealthIndexAction)
	srv.Head("/_health", http.HealthIndexAction)

	// === PUBLIC INGESTION ===
	srv.Post("/analytics", v1.CreateEventHandler, publicAPIConfig)
	srv.Options("/analytics", func(ctx *cartridge.Context) error {
		return ctx.SendStatus(fiber.StatusNoContent)
	}, publicAPIConfig)

	// === TRACKER DELIVERY ===
	srv.Get("/api/v1/tracker.js", v1.GetTrackerAction, trackerConfig)

	// === AUTHENTICATION ===
	srv.Post("/auth/login", http.LoginAction, loginConfig)

	// === PUBLIC CATALOG ===
	srv.Get("/projects", http.ProjectsIndexAction)
	srv.Get("/skills", http.SkillsIndexAction)

	// === ADMIN: ANALYTICS SUMMARY ===
	srv.Get("/analytics", http.AnalyticsSummaryAction, adminConfig)

	// === ADMIN: CATALOG MANAGEMENT ===
	srv.Post("/admin/projects", http.ProjectCreateAction, adminConfig)
	srv.Post("/admin/projects/:id", http.ProjectUpdateAction, adminConfig)
	srv.Delete("/admin/projects/:id", http.ProjectDeleteAction, adminConfig)

	srv.Post("/admin/skills", http.SkillCreateAction, adminConfig)
	srv.Post("/admin/skills/:id", http.SkillUpdateAction, adminConfig)
	srv.Delete("/admin/skills/:id", http.SkillDeleteAction, adminConfig)
}
