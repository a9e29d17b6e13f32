package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_PATH", dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.AoE4World.BaseURL != "https://aoe4world.com" {
		t.Errorf("Unexpected base URL: %s", cfg.AoE4World.BaseURL)
	}
	if cfg.AoE4World.RequestDelay != 2*time.Second {
		t.Errorf("Expected 2s request delay, got %s", cfg.AoE4World.RequestDelay)
	}
	if cfg.LogDir != filepath.Join(dir, "logs") {
		t.Errorf("Unexpected log dir: %s", cfg.LogDir)
	}

	// Load creates the working directories.
	for _, d := range []string{cfg.LogDir, cfg.ReportsDir} {
		if fi, err := os.Stat(d); err != nil || !fi.IsDir() {
			t.Errorf("Expected directory %s to exist", d)
		}
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_PATH", dir)
	t.Setenv("AOE4WORLD_URL", "http://localhost:9999")
	t.Setenv("AOE4WORLD_REQUEST_DELAY_SECONDS", "0")
	t.Setenv("RULES_FILE", "/etc/aoe4coach/rules.yaml")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.AoE4World.BaseURL != "http://localhost:9999" {
		t.Errorf("Expected overridden base URL, got %s", cfg.AoE4World.BaseURL)
	}
	if cfg.AoE4World.RequestDelay != 0 {
		t.Errorf("Expected zero request delay, got %s", cfg.AoE4World.RequestDelay)
	}
	if cfg.RulesPath != "/etc/aoe4coach/rules.yaml" {
		t.Errorf("Expected rules path override, got %s", cfg.RulesPath)
	}
}
