package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}

	if cfg.Snow.MaxFallingParticles != 300 {
		t.Errorf("max_falling_particles = %d, want 300", cfg.Snow.MaxFallingParticles)
	}
	if cfg.Snow.MaxAccumulatedParticles != 3000 {
		t.Errorf("max_accumulated_particles = %d, want 3000", cfg.Snow.MaxAccumulatedParticles)
	}
	if cfg.Weather.WindDirection != 45 || cfg.Weather.Gravity != -9.82 {
		t.Errorf("unexpected default weather: %+v", cfg.Weather)
	}
	if len(cfg.Scene.Houses) != 3 || len(cfg.Scene.Trees) != 6 {
		t.Errorf("expected 3 houses and 6 trees, got %d and %d", len(cfg.Scene.Houses), len(cfg.Scene.Trees))
	}
	if cfg.Derived.FrameInterval != 100*time.Millisecond {
		t.Errorf("frame interval = %v, want 100ms", cfg.Derived.FrameInterval)
	}
}

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("snow:\n  max_accumulated_particles: 1\nweather:\n  wind_speed: 0\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Snow.MaxAccumulatedParticles != 1 {
		t.Errorf("max_accumulated_particles = %d, want 1", cfg.Snow.MaxAccumulatedParticles)
	}
	if cfg.Snow.MaxFallingParticles != 300 {
		t.Errorf("max_falling_particles should keep default, got %d", cfg.Snow.MaxFallingParticles)
	}
	if cfg.Weather.WindSpeed != 0 {
		t.Errorf("wind_speed = %v, want 0", cfg.Weather.WindSpeed)
	}
	if cfg.Weather.Turbulence != 0.5 {
		t.Errorf("turbulence should keep default, got %v", cfg.Weather.Turbulence)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative falling", func(c *Config) { c.Snow.MaxFallingParticles = -1 }},
		{"negative accumulated", func(c *Config) { c.Snow.MaxAccumulatedParticles = -3 }},
		{"zero particle size", func(c *Config) { c.Snow.ParticleSize = 0 }},
		{"zero dt", func(c *Config) { c.Physics.DT = 0 }},
		{"damping of one", func(c *Config) { c.Physics.LinearDamping = 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg := Default()
	cfg.Weather.Turbulence = 1.25

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Weather.Turbulence != 1.25 {
		t.Errorf("turbulence = %v, want 1.25", loaded.Weather.Turbulence)
	}
}
