package service

import (
	"testing"
	"time"

	"github.com/MehdiBenameur/skyhire/internal/models"
)

func TestJWTRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, err := svc.GenerateToken("user-1", "amelia", "amelia@example.com", models.RoleCandidate)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}

	if claims.UserID != "user-1" {
		t.Errorf("Expected UserID user-1, got %s", claims.UserID)
	}
	if claims.Username != "amelia" {
		t.Errorf("Expected username amelia, got %s", claims.Username)
	}
	if claims.Role != models.RoleCandidate {
		t.Errorf("Expected role %s, got %s", models.RoleCandidate, claims.Role)
	}
	if claims.Subject != "user-1" {
		t.Errorf("Expected subject user-1, got %s", claims.Subject)
	}
}

func TestJWTWrongSecret(t *testing.T) {
	issuer := NewJWTService("secret-a", time.Hour)
	verifier := NewJWTService("secret-b", time.Hour)

	token, err := issuer.GenerateToken("user-1", "amelia", "amelia@example.com", models.RoleCandidate)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := verifier.VerifyToken(token); err == nil {
		t.Error("Expected verification to fail with a different secret")
	}
}

func TestJWTExpiredToken(t *testing.T) {
	svc := NewJWTService("test-secret", -time.Minute)

	token, err := svc.GenerateToken("user-1", "amelia", "amelia@example.com", models.RoleCandidate)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := svc.VerifyToken(token); err == nil {
		t.Error("Expected verification of an expired token to fail")
	}
}

func TestJWTGarbageToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	if _, err := svc.VerifyToken("not.a.token"); err == nil {
		t.Error("Expected verification of garbage input to fail")
	}
}
