package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg := Load()

	if cfg.Port != "8090" {
		t.Fatalf("expected default port 8090, got %q", cfg.Port)
	}
	if cfg.DBDriver != "sqlite" {
		t.Fatalf("expected sqlite driver, got %q", cfg.DBDriver)
	}
	if cfg.JWTExpiry != 168*time.Hour {
		t.Fatalf("expected 7 day jwt expiry, got %s", cfg.JWTExpiry)
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Fatalf("expected 10MB upload limit, got %d", cfg.MaxUploadBytes)
	}
	if cfg.ScorecardTimeout != 20*time.Second || cfg.PerplexityTimeout != 60*time.Second {
		t.Fatalf("unexpected provider timeouts: %s %s", cfg.ScorecardTimeout, cfg.PerplexityTimeout)
	}
	if cfg.UseS3() {
		t.Fatal("expected local storage by default")
	}
	if len(cfg.CORSAllowedOrigins) != 0 {
		t.Fatalf("expected no CORS origins, got %v", cfg.CORSAllowedOrigins)
	}
	if !cfg.IsDevelopment() || cfg.IsProduction() {
		t.Fatal("expected development environment")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "9000")
	t.Setenv("AUTH_RATE_LIMIT", "20")
	t.Setenv("AUTH_RATE_WINDOW", "1m")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://app.example.com,,")
	t.Setenv("TRUST_PROXY_HEADERS", "true")
	t.Setenv("PERPLEXITY_TIMEOUT", "5s")

	cfg := Load()

	if cfg.Port != "9000" {
		t.Fatalf("expected port 9000, got %q", cfg.Port)
	}
	if cfg.AuthRateLimit != 20 || cfg.AuthRateWindow != time.Minute {
		t.Fatalf("unexpected rate limit config: %d per %s", cfg.AuthRateLimit, cfg.AuthRateWindow)
	}
	if cfg.MaxUploadBytes != 1024 {
		t.Fatalf("expected upload limit 1024, got %d", cfg.MaxUploadBytes)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://app.example.com" {
		t.Fatalf("unexpected CORS origins: %v", cfg.CORSAllowedOrigins)
	}
	if !cfg.TrustProxyHeaders {
		t.Fatal("expected proxy headers to be trusted")
	}
	if cfg.PerplexityTimeout != 5*time.Second {
		t.Fatalf("expected 5s perplexity timeout, got %s", cfg.PerplexityTimeout)
	}
}

func TestEnvHelpersFallBackOnInvalidValues(t *testing.T) {
	t.Setenv("X_INT", "abc")
	t.Setenv("X_NEG", "-4")
	t.Setenv("X_DURATION", "soon")
	t.Setenv("X_BOOL", "maybe")

	if got := envInt("X_INT", 7); got != 7 {
		t.Fatalf("expected fallback 7, got %d", got)
	}
	if got := envInt64("X_NEG", 9); got != 9 {
		t.Fatalf("expected fallback 9, got %d", got)
	}
	if got := envDuration("X_DURATION", time.Second); got != time.Second {
		t.Fatalf("expected fallback 1s, got %s", got)
	}
	if got := envBool("X_BOOL", true); !got {
		t.Fatal("expected fallback true")
	}
}
