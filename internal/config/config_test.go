package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `{
		"server": {"host": "0.0.0.0", "port": 8080},
		"database": {"host": "db", "port": 5432, "user": "cart", "password": "secret", "dbname": "cart", "sslmode": "disable"},
		"redis": {"host": "cache", "port": 6379},
		"cart": {"currency": "EUR", "session_ttl_hours": 24, "lock_retries": 5}
	}`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Cart.Currency != "EUR" {
		t.Errorf("expected currency EUR, got %q", cfg.Cart.Currency)
	}
	if cfg.Cart.SessionTTL() != 24*time.Hour {
		t.Errorf("expected 24h session ttl, got %v", cfg.Cart.SessionTTL())
	}
	if cfg.Cart.LockRetries != 5 {
		t.Errorf("expected 5 lock retries, got %d", cfg.Cart.LockRetries)
	}
}

func TestLoadConfigAppliesCartDefaults(t *testing.T) {
	path := writeConfig(t, `{"server": {"host": "0.0.0.0", "port": 8080}}`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Cart.Currency != "USD" {
		t.Errorf("expected default currency USD, got %q", cfg.Cart.Currency)
	}
	if cfg.Cart.SessionTTL() != 48*time.Hour {
		t.Errorf("expected default 48h session ttl, got %v", cfg.Cart.SessionTTL())
	}
	if cfg.Cart.LockTTL() != 10*time.Second {
		t.Errorf("expected default 10s lock ttl, got %v", cfg.Cart.LockTTL())
	}
	if cfg.Cart.BloomRefreshInterval() != 5*time.Minute {
		t.Errorf("expected default 5m refresh interval, got %v", cfg.Cart.BloomRefreshInterval())
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestGetDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "db", Port: 5432, User: "cart", Password: "secret", DBName: "cartdb", SSLMode: "disable",
	}

	want := "host=db port=5432 user=cart password=secret dbname=cartdb sslmode=disable"
	if got := cfg.GetDSN(); got != want {
		t.Errorf("GetDSN() = %q, want %q", got, want)
	}
}
