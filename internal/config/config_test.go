package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "9300" {
		t.Errorf("Expected default port 9300, got %s", cfg.Server.Port)
	}
	if cfg.MongoDB.Database != "skyhire" {
		t.Errorf("Expected default database skyhire, got %s", cfg.MongoDB.Database)
	}
	if cfg.CV.MaxFileSize != 5*1024*1024 {
		t.Errorf("Expected default max file size 5MiB, got %d", cfg.CV.MaxFileSize)
	}
	if cfg.CV.AnalysisRetries != 3 {
		t.Errorf("Expected default analysis retries 3, got %d", cfg.CV.AnalysisRetries)
	}
	if cfg.Jobs.ApplyPolicy != ApplyPolicyReject {
		t.Errorf("Expected default apply policy reject, got %s", cfg.Jobs.ApplyPolicy)
	}
	if cfg.Auth.TokenExpiry != 24*time.Hour {
		t.Errorf("Expected default token expiry 24h, got %s", cfg.Auth.TokenExpiry)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "8080")
	t.Setenv("APPLY_POLICY", "update")
	t.Setenv("CV_MAX_FILE_SIZE", "1048576")
	t.Setenv("JWT_EXPIRY", "2h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Jobs.ApplyPolicy != ApplyPolicyUpdate {
		t.Errorf("Expected apply policy update, got %s", cfg.Jobs.ApplyPolicy)
	}
	if cfg.CV.MaxFileSize != 1048576 {
		t.Errorf("Expected max file size 1048576, got %d", cfg.CV.MaxFileSize)
	}
	if cfg.Auth.TokenExpiry != 2*time.Hour {
		t.Errorf("Expected token expiry 2h, got %s", cfg.Auth.TokenExpiry)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{"missing jwt secret", map[string]string{"JWT_SECRET": ""}},
		{"invalid apply policy", map[string]string{"JWT_SECRET": "s", "APPLY_POLICY": "bounce"}},
		{"non-positive file size", map[string]string{"JWT_SECRET": "s", "CV_MAX_FILE_SIZE": "0"}},
		{"negative retries", map[string]string{"JWT_SECRET": "s", "ANALYSIS_MAX_RETRIES": "-1"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Error("Expected Load to fail")
			}
		})
	}
}

func TestGetEnvHelpersFallBack(t *testing.T) {
	t.Setenv("SOME_INT", "not-a-number")
	if got := getEnvAsInt("SOME_INT", 7); got != 7 {
		t.Errorf("Expected fallback 7, got %d", got)
	}

	t.Setenv("SOME_BOOL", "maybe")
	if got := getEnvAsBool("SOME_BOOL", true); got != true {
		t.Errorf("Expected fallback true, got %v", got)
	}

	t.Setenv("SOME_DURATION", "soon")
	if got := getEnvAsDuration("SOME_DURATION", time.Minute); got != time.Minute {
		t.Errorf("Expected fallback 1m, got %s", got)
	}
}
