package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Monitor.IntervalMinutes != 30 {
		t.Fatalf("expected default interval 30, got %d", cfg.Monitor.IntervalMinutes)
	}
	if cfg.Product.PartNumber == "" || cfg.Product.StoreNumber == "" {
		t.Fatal("expected default product identifiers")
	}
	if cfg.SMTP.Host != "smtp.gmail.com" || cfg.SMTP.Port != 587 {
		t.Fatalf("unexpected SMTP defaults: %s:%d", cfg.SMTP.Host, cfg.SMTP.Port)
	}
	if cfg.Interval() != 30*time.Minute {
		t.Fatalf("Interval() = %v", cfg.Interval())
	}
	if cfg.NavTimeout() != 45*time.Second {
		t.Fatalf("NavTimeout() = %v", cfg.NavTimeout())
	}
}

func TestLoadWithFileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	configYAML := `
monitor:
  interval_minutes: 5
product:
  part_number: MG7K4LL/A
  store_number: R232
  search_nearby: true
browser:
  nav_timeout_seconds: 20
  nav_qps: 1
smtp:
  username: watcher@example.com
  password: app-password
server:
  enabled: false
logging:
  development: false
  file: ""
`
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Monitor.IntervalMinutes != 5 {
		t.Fatalf("expected interval 5, got %d", cfg.Monitor.IntervalMinutes)
	}
	if cfg.Product.PartNumber != "MG7K4LL/A" || cfg.Product.StoreNumber != "R232" {
		t.Fatalf("expected product overrides to apply, got %+v", cfg.Product)
	}
	if !cfg.Product.SearchNearby {
		t.Fatal("expected search_nearby override")
	}
	if cfg.SMTP.Recipient != "watcher@example.com" {
		t.Fatalf("expected recipient to default to username, got %q", cfg.SMTP.Recipient)
	}
	if cfg.Server.Enabled {
		t.Fatal("expected server disabled")
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("PICKUPWATCH_SMTP_USERNAME", "alerts@example.com")
	t.Setenv("PICKUPWATCH_SMTP_PASSWORD", "app-specific-password")
	t.Setenv("PICKUPWATCH_MONITOR_INTERVAL_MINUTES", "10")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.SMTP.Username != "alerts@example.com" {
		t.Fatalf("expected username from env, got %q", cfg.SMTP.Username)
	}
	if cfg.SMTP.Password != "app-specific-password" {
		t.Fatal("expected password from env")
	}
	if cfg.SMTP.Recipient != "alerts@example.com" {
		t.Fatalf("expected recipient to fall back to username, got %q", cfg.SMTP.Recipient)
	}
	if cfg.Monitor.IntervalMinutes != 10 {
		t.Fatalf("expected interval from env, got %d", cfg.Monitor.IntervalMinutes)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("monitor:\n  interval_minutes: 0\n"), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "interval_minutes") {
		t.Fatalf("expected interval validation error, got %v", err)
	}
}
