package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration struct. All fields have safe defaults
// so callers can start with Config{} and override only what they need.
type Config struct {
	// Default encode quality applied when OutputSettings.Quality is unset.
	DefaultQuality int `yaml:"default_quality"`

	// Default print resolution applied when OutputSettings.DPI is unset.
	// Precedence per item: explicit settings value > this default > 300.
	DefaultDPI int `yaml:"default_dpi"`

	// Retry of transient persistence failures.
	MaxRetries int           `yaml:"max_retries"`
	RetryDelay time.Duration `yaml:"retry_delay"`

	// Streaming / memory limits for reader-backed sources. 0 = no limit.
	MaxSourceBytes int64 `yaml:"max_source_bytes"`
	ChunkSize      int   `yaml:"chunk_size"`

	// Local persistence sink.
	OutputDir   string `yaml:"output_dir"`
	Permissions uint32 `yaml:"permissions"` // default 0644

	// User-defined presets, merged over the built-in catalog.
	Presets []PresetDef `yaml:"presets"`

	// Logging.
	LogLevel string `yaml:"log_level"` // "debug", "info", "warn", "error"
}

// PresetDef declares a user-defined target size in a config file.
type PresetDef struct {
	ID     string `yaml:"id"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	DPI    int    `yaml:"dpi"`
}

// Default returns a Config populated with sensible production defaults.
func Default() Config {
	return Config{
		DefaultQuality: 85,
		DefaultDPI:     300,
		MaxRetries:     3,
		RetryDelay:     200 * time.Millisecond,
		ChunkSize:      32 * 1024,
		OutputDir:      ".",
		LogLevel:       "info",
	}
}

// Load reads a YAML file over Default(). Missing file fields keep their
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate returns an error if the configuration is inconsistent.
func Validate(c Config) error {
	if c.DefaultQuality < 1 || c.DefaultQuality > 100 {
		return errors.New("config: DefaultQuality must be between 1 and 100")
	}
	if c.DefaultDPI < 1 {
		return errors.New("config: DefaultDPI must be positive")
	}
	if c.ChunkSize <= 0 {
		return errors.New("config: ChunkSize must be positive")
	}
	for _, p := range c.Presets {
		if p.ID == "" {
			return errors.New("config: preset id must not be empty")
		}
		if p.Width < 1 || p.Height < 1 || p.DPI < 1 {
			return fmt.Errorf("config: preset %q: width, height and dpi must be positive", p.ID)
		}
	}
	return nil
}
