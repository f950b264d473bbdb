package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/MehdiBenameur/skyhire/internal/models"
	"github.com/MehdiBenameur/skyhire/internal/service"
)

// Locals keys set by the auth guard.
const (
	LocalUserID = "userID"
	LocalClaims = "claims"
)

// RequireAuth verifies the bearer token and attaches the resolved identity to
// the request. The guard never writes anything: profile materialization is
// the handlers' business, via ProfileService.EnsureProfile. Every failure is
// the same generic 401 so callers cannot tell which check tripped.
func RequireAuth(jwtService *service.JWTService) fiber.Handler {
	return func(c fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return unauthorized(c)
		}

		claims, err := jwtService.VerifyToken(token)
		if err != nil {
			log.Printf("Rejected token from %s: %v", c.IP(), err)
			return unauthorized(c)
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalClaims, claims)
		return c.Next()
	}
}

// RequireRoles gates an endpoint to identities holding one of the listed
// roles. Runs after RequireAuth, so a missing identity is a guard bug and is
// still answered with 401, while a resolved identity with the wrong role
// gets 403.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c fiber.Ctx) error {
		claims := Claims(c)
		if claims == nil {
			return unauthorized(c)
		}

		for _, role := range roles {
			if claims.Role == role {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status":  "error",
			"message": "Forbidden",
		})
	}
}

// UserID returns the authenticated user id attached by RequireAuth.
func UserID(c fiber.Ctx) string {
	id, _ := c.Locals(LocalUserID).(string)
	return id
}

// Claims returns the verified claims attached by RequireAuth.
func Claims(c fiber.Ctx) *models.Claims {
	claims, _ := c.Locals(LocalClaims).(*models.Claims)
	return claims
}

func extractToken(c fiber.Ctx) string {
	header := c.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func unauthorized(c fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"status":  "error",
		"message": "Not authorized",
	})
}
