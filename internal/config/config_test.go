package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "8080" || cfg.RefreshRate != 60 {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.toml")
	data := "port = \"9090\"\nwindow_minutes = 30\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Expected port 9090 from file, got %s", cfg.Port)
	}
	if cfg.Window() != 30*time.Minute {
		t.Errorf("Expected 30m window, got %v", cfg.Window())
	}
	// Untouched fields keep their defaults
	if cfg.OverlayWidth != 640 {
		t.Errorf("Expected default overlay width, got %d", cfg.OverlayWidth)
	}
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.toml")
	if err := os.WriteFile(path, []byte("port = \"9090\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("OVERLAY_PORT", "7070")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "7070" {
		t.Errorf("Expected env to win, got %s", cfg.Port)
	}
}

func TestRefresh_GuardsZeroRate(t *testing.T) {
	cfg := Config{RefreshRate: 0}
	if cfg.Refresh() != time.Second/60 {
		t.Errorf("Expected 60Hz fallback, got %v", cfg.Refresh())
	}
}
