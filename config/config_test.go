package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Physics.Substeps != 8 {
		t.Errorf("Substeps = %d, want 8", cfg.Physics.Substeps)
	}
	if cfg.Physics.BroadPhase != "grid" {
		t.Errorf("BroadPhase = %q, want grid", cfg.Physics.BroadPhase)
	}
	if !cfg.Physics.Filtering {
		t.Error("expected filtering enabled by default")
	}
	if cfg.Physics.RestitutionOnStatic {
		t.Error("expected inelastic static contacts by default")
	}
	if cfg.Derived.DT32 <= 0 {
		t.Errorf("Derived.DT32 = %v, want positive", cfg.Derived.DT32)
	}
	if cfg.Derived.WorldW32 != 2560 || cfg.Derived.WorldH32 != 720 {
		t.Errorf("world = %vx%v, want 2560x720", cfg.Derived.WorldW32, cfg.Derived.WorldH32)
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("physics:\n  substeps: 2\n  broad_phase: brute_force\nworld:\n  width: 0\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Physics.Substeps != 2 || cfg.Physics.BroadPhase != "brute_force" {
		t.Errorf("physics = %+v, want overrides applied", cfg.Physics)
	}
	// Untouched keys keep their defaults.
	if cfg.Physics.GravityY != 980 {
		t.Errorf("GravityY = %v, want default 980", cfg.Physics.GravityY)
	}
	// A zero world width falls back to the screen width.
	if cfg.Derived.WorldW32 != cfg.Derived.ScreenW32 {
		t.Errorf("WorldW32 = %v, want screen width %v", cfg.Derived.WorldW32, cfg.Derived.ScreenW32)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero dt", "physics:\n  dt: 0\n"},
		{"zero substeps", "physics:\n  substeps: 0\n"},
		{"negative cell size", "physics:\n  grid_cell_size: -1\n"},
		{"zero terminal velocity", "physics:\n  terminal_velocity: 0\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tc.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); !errors.Is(err, ErrInvalid) {
				t.Errorf("Load error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Scene.Coins = 3

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load written file: %v", err)
	}
	if back.Scene.Coins != 3 {
		t.Errorf("Scene.Coins = %d, want 3", back.Scene.Coins)
	}
}

func TestCfgBeforeInitPanics(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Cfg()
}
