package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.HTTPPort != "5000" {
		t.Fatalf("HTTPPort = %q, want %q", cfg.HTTPPort, "5000")
	}
	if cfg.DBPath != "./attendance.db" {
		t.Fatalf("DBPath = %q, want %q", cfg.DBPath, "./attendance.db")
	}
	if cfg.AdminTokenTTL != 30*time.Minute {
		t.Fatalf("AdminTokenTTL = %s, want 30m", cfg.AdminTokenTTL)
	}
	if cfg.BackupKeep != 10 {
		t.Fatalf("BackupKeep = %d, want 10", cfg.BackupKeep)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "890")
	t.Setenv("RATE_LIMIT_PER_MIN", "7")
	t.Setenv("ADMIN_TOKEN_TTL", "2h")

	cfg := Load()
	if cfg.HTTPPort != "890" {
		t.Fatalf("HTTPPort = %q, want %q", cfg.HTTPPort, "890")
	}
	if cfg.RateLimitPerMin != 7 {
		t.Fatalf("RateLimitPerMin = %d, want 7", cfg.RateLimitPerMin)
	}
	if cfg.AdminTokenTTL != 2*time.Hour {
		t.Fatalf("AdminTokenTTL = %s, want 2h", cfg.AdminTokenTTL)
	}
}

func TestInvalidEnvFallsBack(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MIN", "many")
	t.Setenv("ADMIN_TOKEN_TTL", "soon")

	cfg := Load()
	if cfg.RateLimitPerMin != 60 {
		t.Fatalf("RateLimitPerMin = %d, want fallback 60", cfg.RateLimitPerMin)
	}
	if cfg.AdminTokenTTL != 30*time.Minute {
		t.Fatalf("AdminTokenTTL = %s, want fallback 30m", cfg.AdminTokenTTL)
	}
}
