package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
store:
  name: "Test Store"
rules:
  min_order_amount: 2000
  cancel_timeout_minutes: 10
auto_accept:
  enabled: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Store.Name != "Test Store" {
		t.Errorf("Store.Name = %q", cfg.Store.Name)
	}
	if cfg.Rules.MinOrderAmount != 2000 {
		t.Errorf("MinOrderAmount = %d, want 2000", cfg.Rules.MinOrderAmount)
	}
	if cfg.Rules.CancelTimeoutMinutes != 10 {
		t.Errorf("CancelTimeoutMinutes = %d, want 10", cfg.Rules.CancelTimeoutMinutes)
	}
	if !cfg.AutoAccept.Enabled {
		t.Error("AutoAccept.Enabled = false")
	}

	// Unspecified fields keep their defaults.
	if cfg.Rules.MaxItemsPerOrder != 10 {
		t.Errorf("MaxItemsPerOrder = %d, want default 10", cfg.Rules.MaxItemsPerOrder)
	}
	if cfg.Hours.Open != "09:00" || cfg.Hours.Close != "22:00" {
		t.Errorf("Hours = %+v, want defaults", cfg.Hours)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("does-not-exist.yaml"); err == nil {
		t.Error("Load() on a missing file returned nil error")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "rules: [not a map")
	if _, err := Load(path); err == nil {
		t.Error("Load() on malformed YAML returned nil error")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Rules.MinOrderAmount != 1000 {
		t.Errorf("MinOrderAmount = %d, want 1000", cfg.Rules.MinOrderAmount)
	}
	if cfg.Rules.DelayThresholdMinutes != 20 {
		t.Errorf("DelayThresholdMinutes = %d, want 20", cfg.Rules.DelayThresholdMinutes)
	}
	if cfg.AutoAccept.PreparationMinutes != 15 {
		t.Errorf("AutoAccept.PreparationMinutes = %d, want 15", cfg.AutoAccept.PreparationMinutes)
	}
	if !cfg.Printer.AutoPrintEnabled {
		t.Error("Printer.AutoPrintEnabled = false")
	}
}
