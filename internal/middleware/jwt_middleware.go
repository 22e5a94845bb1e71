package middleware

import (
	"strings"

	"restoran/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Keys under which authenticated claims are stored in fiber locals.
const (
	LocalUserID  = "user_id"
	LocalEmail   = "email"
	LocalIsAdmin = "is_admin"
)

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(authService *services.AuthService, logger *zap.SugaredLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		tokenString, ok := bearerToken(authHeader)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			logger.Infow("JWT validation failed", "error", err, "path", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		storeClaims(c, claims)
		return c.Next()
	}
}

// OptionalAuth stores the claims of a valid bearer token and otherwise lets the request
// through as a guest.
func OptionalAuth(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokenString, ok := bearerToken(c.Get("Authorization")); ok {
			if claims, err := authService.ValidateToken(tokenString); err == nil {
				storeClaims(c, claims)
			}
		}
		return c.Next()
	}
}

// AdminRequired rejects requests whose token lacks the is_admin claim.
// It must run after AuthRequired.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if isAdmin, _ := c.Locals(LocalIsAdmin).(bool); !isAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Admin access required",
			})
		}
		return c.Next()
	}
}

// UserID returns the authenticated user's ID, or "" for guests.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalUserID).(string)
	return id
}

func bearerToken(header string) (string, bool) {
	// Expected format: "Bearer <token>"
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func storeClaims(c *fiber.Ctx, claims map[string]interface{}) {
	c.Locals(LocalUserID, claims["user_id"])
	c.Locals(LocalEmail, claims["email"])
	c.Locals(LocalIsAdmin, claims["is_admin"])
}
