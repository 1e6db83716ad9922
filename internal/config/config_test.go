package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "ui:\n  theme: catppuccin-mocha\n  max_literal_width: 30\ncopy:\n  pulse_ms: 400\nweb:\n  addr: 0.0.0.0:9000\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.UI.Theme != "catppuccin-mocha" {
		t.Errorf("Expected theme catppuccin-mocha, got %s", cfg.UI.Theme)
	}
	if cfg.UI.MaxLiteralWidth != 30 {
		t.Errorf("Expected max literal width 30, got %d", cfg.UI.MaxLiteralWidth)
	}
	if cfg.Copy.Pulse() != 400*time.Millisecond {
		t.Errorf("Expected pulse 400ms, got %v", cfg.Copy.Pulse())
	}
	if cfg.Web.Addr != "0.0.0.0:9000" {
		t.Errorf("Expected addr 0.0.0.0:9000, got %s", cfg.Web.Addr)
	}

	// Untouched keys keep their defaults
	if !cfg.UI.MouseEnabled {
		t.Error("Expected mouse enabled by default")
	}
	if cfg.Notify.Duration() != 3*time.Second {
		t.Errorf("Expected notify duration 3s, got %v", cfg.Notify.Duration())
	}
	if cfg.Preview.MaxBodyBytes != 1<<20 {
		t.Errorf("Expected 1MiB preview cap, got %d", cfg.Preview.MaxBodyBytes)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing explicit config file")
	}
}

func TestGetDefaults(t *testing.T) {
	d := GetDefaults()
	if d.Editor.CharLimit != 4096 || d.Copy.PulseMS != 150 || d.Log.Level != "info" {
		t.Errorf("Unexpected defaults: %+v", d)
	}
}
