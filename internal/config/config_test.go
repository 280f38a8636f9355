package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HeroesPath != "api/heroes" {
		t.Fatalf("HeroesPath = %q", cfg.HeroesPath)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Fatalf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if cfg.EncodeSearchTerm {
		t.Fatalf("search terms must be sent literally by default")
	}
	if cfg.MessageTTL != 7*24*time.Hour {
		t.Fatalf("MessageTTL = %v", cfg.MessageTTL)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://heroes.test:9000/")
	t.Setenv("HEROES_PATH", "/v2/heroes/")
	t.Setenv("ENCODE_SEARCH_TERM", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "http://heroes.test:9000" {
		t.Fatalf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.HeroesPath != "v2/heroes" {
		t.Fatalf("HeroesPath = %q", cfg.HeroesPath)
	}
	if !cfg.EncodeSearchTerm {
		t.Fatalf("expected encode_search_term from env")
	}
}

func TestLoadRejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT_SECONDS", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero timeout")
	}
}

func TestNormalizeRejectsUnknownServerStorage(t *testing.T) {
	cfg := Config{
		APIBaseURL:            "http://localhost",
		HeroesPath:            "api/heroes",
		HTTPTimeoutSeconds:    1,
		MessageTTLSeconds:     1,
		MessageCleanupSeconds: 1,
		ServerStorage:         "postgres",
	}
	if err := cfg.normalize(); err == nil {
		t.Fatalf("expected error for unsupported server storage")
	}
}
