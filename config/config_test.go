package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"quality zero", func(c *Config) { c.DefaultQuality = 0 }, true},
		{"quality over 100", func(c *Config) { c.DefaultQuality = 101 }, true},
		{"dpi zero", func(c *Config) { c.DefaultDPI = 0 }, true},
		{"chunk size zero", func(c *Config) { c.ChunkSize = 0 }, true},
		{"preset missing id", func(c *Config) {
			c.Presets = []PresetDef{{Width: 100, Height: 100, DPI: 300}}
		}, true},
		{"preset bad size", func(c *Config) {
			c.Presets = []PresetDef{{ID: "x", Width: 0, Height: 100, DPI: 300}}
		}, true},
		{"valid preset", func(c *Config) {
			c.Presets = []PresetDef{{ID: "x", Width: 100, Height: 100, DPI: 300}}
		}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := Validate(cfg)
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "imageconv.yaml")
	doc := `
default_quality: 92
default_dpi: 150
output_dir: /tmp/prints
presets:
  - id: sticker
    width: 1000
    height: 1000
    dpi: 300
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultQuality != 92 || cfg.DefaultDPI != 150 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	// Untouched fields keep their defaults.
	if cfg.MaxRetries != Default().MaxRetries {
		t.Errorf("MaxRetries = %d, want default %d", cfg.MaxRetries, Default().MaxRetries)
	}
	if len(cfg.Presets) != 1 || cfg.Presets[0].ID != "sticker" {
		t.Errorf("presets not loaded: %+v", cfg.Presets)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("default_quality: 400\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected validation error")
	}
}
