package config

import (
	"path/filepath"
	"testing"
	"time"
)

func setTestDirs(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("LOG_DIR", filepath.Join(dir, "logs"))
	t.Setenv("DB_PATH", filepath.Join(dir, "data", "test.db"))
}

func TestLoadDefaults(t *testing.T) {
	setTestDirs(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.ServerPort != "8080" {
		t.Errorf("Expected default port 8080, got %q", cfg.ServerPort)
	}
	if cfg.Perplexity.BaseURL != "https://api.perplexity.ai" {
		t.Errorf("Unexpected Perplexity base URL %q", cfg.Perplexity.BaseURL)
	}
	if cfg.Perplexity.Model != "sonar" {
		t.Errorf("Expected default model sonar, got %q", cfg.Perplexity.Model)
	}
	if cfg.YouTube.Language != "en" {
		t.Errorf("Expected default language en, got %q", cfg.YouTube.Language)
	}
	if cfg.YouTube.Timeout != 30*time.Second {
		t.Errorf("Expected default YouTube timeout 30s, got %v", cfg.YouTube.Timeout)
	}
	if !cfg.Middleware.EnableRecover {
		t.Error("Expected recover middleware enabled by default")
	}
}

func TestLoadWithoutAPIKey(t *testing.T) {
	setTestDirs(t)
	t.Setenv("PERPLEXITY_API_KEY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Startup must not require an API key, got error: %v", err)
	}
	if cfg.Perplexity.APIKey != "" {
		t.Errorf("Expected empty API key, got %q", cfg.Perplexity.APIKey)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	setTestDirs(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("PERPLEXITY_API_KEY", "pplx-test")
	t.Setenv("PERPLEXITY_MODEL", "sonar-pro")
	t.Setenv("TRANSCRIPT_LANGUAGE", "de")
	t.Setenv("YOUTUBE_TIMEOUT", "10s")
	t.Setenv("DEBUG", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.ServerPort != "9090" {
		t.Errorf("Expected port 9090, got %q", cfg.ServerPort)
	}
	if cfg.Perplexity.APIKey != "pplx-test" {
		t.Errorf("Expected API key from environment, got %q", cfg.Perplexity.APIKey)
	}
	if cfg.Perplexity.Model != "sonar-pro" {
		t.Errorf("Expected model override, got %q", cfg.Perplexity.Model)
	}
	if cfg.YouTube.Language != "de" {
		t.Errorf("Expected language de, got %q", cfg.YouTube.Language)
	}
	if cfg.YouTube.Timeout != 10*time.Second {
		t.Errorf("Expected timeout 10s, got %v", cfg.YouTube.Timeout)
	}
	if !cfg.Debug {
		t.Error("Expected debug enabled")
	}
}

func TestLoadProductionMiddleware(t *testing.T) {
	setTestDirs(t)
	t.Setenv("ENV", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !cfg.Middleware.EnableRateLimit {
		t.Error("Expected rate limiting enabled in production")
	}
	if !cfg.Middleware.EnableCompress {
		t.Error("Expected compression enabled in production")
	}
}

func TestValidateRejectsBadTimeouts(t *testing.T) {
	setTestDirs(t)
	t.Setenv("READ_TIMEOUT", "-1s")

	if _, err := Load(); err == nil {
		t.Error("Expected error for negative read timeout")
	}
}
