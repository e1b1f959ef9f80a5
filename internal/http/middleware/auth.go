// Package middleware provides route middleware for the admin surface.
package middleware

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"folio/internal/auth"
	"folio/internal/config"
	"folio/internal/users"
)

// CurrentUserKey is the fiber locals key holding the authenticated user.
const CurrentUserKey = "currentUser"

// RequireAdmin validates the bearer token on admin endpoints and rejects
// non-admin users. Expects: Authorization: Bearer <token>.
// Missing or invalid credentials yield 401; a valid non-admin token 403.
func RequireAdmin(cfg *config.Config, db *gorm.DB, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing Authorization header",
			})
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid Authorization header format. Expected: Bearer <token>",
			})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Token is empty",
			})
		}

		claims, err := auth.ResolveBearerToken(cfg, tokenString)
		if err != nil {
			logger.Debug("Rejected bearer token", slog.Any("error", err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		// The token's isAdmin claim is advisory; the user row is the
		// source of truth so revoked admins lose access immediately.
		user, err := users.FindByID(db, claims.UserID)
		if err != nil {
			logger.Debug("Token references unknown user",
				slog.Uint64("userId", uint64(claims.UserID)))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		if !user.IsAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Admin access required",
			})
		}

		c.Locals(CurrentUserKey, user)
		return c.Next()
	}
}
