package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/MehdiBenameur/skyhire/internal/models"
	"github.com/MehdiBenameur/skyhire/internal/service"
)

func newGuardedApp(t *testing.T, jwtService *service.JWTService, extra ...fiber.Handler) *fiber.App {
	t.Helper()
	app := fiber.New()
	handlers := append([]fiber.Handler{RequireAuth(jwtService)}, extra...)
	app.Get("/protected", func(c fiber.Ctx) error {
		return c.SendString(UserID(c))
	}, handlers...)
	return app
}

func TestRequireAuth(t *testing.T) {
	jwtService := service.NewJWTService("test-secret", time.Hour)
	app := newGuardedApp(t, jwtService)

	validToken, err := jwtService.GenerateToken("user-1", "amelia", "amelia@example.com", models.RoleCandidate)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	expiredToken, err := service.NewJWTService("test-secret", -time.Minute).
		GenerateToken("user-1", "amelia", "amelia@example.com", models.RoleCandidate)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	testCases := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"missing header", "", fiber.StatusUnauthorized},
		{"not a bearer token", "Basic dXNlcjpwYXNz", fiber.StatusUnauthorized},
		{"malformed token", "Bearer not.a.token", fiber.StatusUnauthorized},
		{"expired token", "Bearer " + expiredToken, fiber.StatusUnauthorized},
		{"valid token", "Bearer " + validToken, fiber.StatusOK},
		{"case-insensitive scheme", "bearer " + validToken, fiber.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/protected", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test failed: %v", err)
			}
			if resp.StatusCode != tc.wantStatus {
				t.Errorf("Expected status %d, got %d", tc.wantStatus, resp.StatusCode)
			}
		})
	}
}

func TestRequireRoles(t *testing.T) {
	jwtService := service.NewJWTService("test-secret", time.Hour)
	app := newGuardedApp(t, jwtService, RequireRoles(models.RoleRecruiter, models.RoleAdmin))

	testCases := []struct {
		name       string
		role       string
		wantStatus int
	}{
		{"candidate is rejected", models.RoleCandidate, fiber.StatusForbidden},
		{"recruiter passes", models.RoleRecruiter, fiber.StatusOK},
		{"admin passes", models.RoleAdmin, fiber.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			token, err := jwtService.GenerateToken("user-1", "amelia", "amelia@example.com", tc.role)
			if err != nil {
				t.Fatalf("GenerateToken failed: %v", err)
			}

			req := httptest.NewRequest("GET", "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test failed: %v", err)
			}
			if resp.StatusCode != tc.wantStatus {
				t.Errorf("Expected status %d, got %d", tc.wantStatus, resp.StatusCode)
			}
		})
	}
}
