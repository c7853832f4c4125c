package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	clear := func(t *testing.T) {
		t.Helper()
		for _, key := range []string{
			"PORT", "YAHOO_BASE_URL", "YAHOO_SCRAPE_BASE_URL",
			"HTTP_TIMEOUT", "RISK_FREE_SYMBOL",
		} {
			t.Setenv(key, "")
		}
	}

	t.Run("defaults", func(t *testing.T) {
		clear(t)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Port != "8080" {
			t.Errorf("expected default port 8080, got %s", cfg.Port)
		}
		if cfg.YahooBaseURL != "https://query1.finance.yahoo.com" {
			t.Errorf("unexpected base URL: %s", cfg.YahooBaseURL)
		}
		if cfg.YahooScrapeBaseURL != "https://finance.yahoo.com" {
			t.Errorf("unexpected scrape base URL: %s", cfg.YahooScrapeBaseURL)
		}
		if cfg.HTTPTimeout != 10*time.Second {
			t.Errorf("expected default timeout 10s, got %s", cfg.HTTPTimeout)
		}
		if cfg.RiskFreeSymbol != "^TNX" {
			t.Errorf("expected default risk-free symbol ^TNX, got %s", cfg.RiskFreeSymbol)
		}
	})

	t.Run("env_overrides", func(t *testing.T) {
		clear(t)
		t.Setenv("PORT", "9090")
		t.Setenv("YAHOO_BASE_URL", "http://localhost:8123")
		t.Setenv("HTTP_TIMEOUT", "3s")
		t.Setenv("RISK_FREE_SYMBOL", "^IRX")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Port != "9090" {
			t.Errorf("expected port 9090, got %s", cfg.Port)
		}
		if cfg.YahooBaseURL != "http://localhost:8123" {
			t.Errorf("unexpected base URL: %s", cfg.YahooBaseURL)
		}
		if cfg.HTTPTimeout != 3*time.Second {
			t.Errorf("expected timeout 3s, got %s", cfg.HTTPTimeout)
		}
		if cfg.RiskFreeSymbol != "^IRX" {
			t.Errorf("expected risk-free symbol ^IRX, got %s", cfg.RiskFreeSymbol)
		}
	})

	t.Run("invalid_timeout_falls_back", func(t *testing.T) {
		clear(t)
		t.Setenv("HTTP_TIMEOUT", "not-a-duration")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.HTTPTimeout != 10*time.Second {
			t.Errorf("expected fallback timeout 10s, got %s", cfg.HTTPTimeout)
		}
	})
}
