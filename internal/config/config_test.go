package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Width < 2 || cfg.Height < 2 {
		t.Error("default lattice too small")
	}
	if cfg.Temperature <= 0 {
		t.Error("temperature should be positive")
	}
	if cfg.Coupling != 1.0 {
		t.Errorf("expected coupling 1, got %f", cfg.Coupling)
	}
	if err := cfg.Params().Validate(); err != nil {
		t.Errorf("default params should validate: %v", err)
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Temperature = 3.25
	cfg.Width = 16
	cfg.Sweep.Temperatures = []float64{1.0, 2.0}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Temperature != 3.25 {
		t.Errorf("expected temperature 3.25, got %f", loaded.Temperature)
	}
	if loaded.Width != 16 {
		t.Errorf("expected width 16, got %d", loaded.Width)
	}
	if len(loaded.Sweep.Temperatures) != 2 {
		t.Errorf("expected 2 sweep temperatures, got %d", len(loaded.Sweep.Temperatures))
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("temperature: 1.8\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Temperature != 1.8 {
		t.Errorf("expected temperature 1.8, got %f", cfg.Temperature)
	}
	if cfg.Width != DefaultWidth {
		t.Errorf("unset width should default to %d, got %d", DefaultWidth, cfg.Width)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("ordered")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Temperature != 1.5 {
		t.Errorf("expected temperature 1.5, got %f", cfg.Temperature)
	}
	if cfg.RandomInit {
		t.Error("ordered preset should start from the cold state")
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) == 0 {
		t.Error("expected presets")
	}

	found := false
	for _, n := range names {
		if n == "critical" {
			found = true
		}
	}
	if !found {
		t.Error("expected critical preset in list")
	}
}

func TestSweepGrid(t *testing.T) {
	cfg := DefaultConfig()
	grid := cfg.SweepGrid()
	if len(grid.Temperatures) != cfg.Sweep.TempSteps {
		t.Errorf("expected %d temperatures, got %d", cfg.Sweep.TempSteps, len(grid.Temperatures))
	}

	cfg.Sweep.Temperatures = []float64{1.0, 2.0, 3.0}
	grid = cfg.SweepGrid()
	if len(grid.Temperatures) != 3 {
		t.Errorf("explicit temperature list should win, got %d values", len(grid.Temperatures))
	}
}
