package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/papapumpkin/prim/internal/library"
)

// CatalogConfig holds configuration for the cross-library SQLite index.
type CatalogConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// TelemetryConfig holds configuration for the JSONL operation journal.
type TelemetryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Config holds all runtime configuration for a prim session.
// Values are populated from .prim.yaml, PRIM_* env vars, and CLI flags.
// Empty directory fields are derived from RootDir by Load.
type Config struct {
	RootDir       string          `mapstructure:"root_dir"`
	LibrariesDir  string          `mapstructure:"libraries_dir"`
	MeshesDir     string          `mapstructure:"meshes_dir"`
	ThumbnailsDir string          `mapstructure:"thumbnails_dir"`
	SessionPath   string          `mapstructure:"session_path"`
	ScenePath     string          `mapstructure:"scene_path"`
	MatchMode     string          `mapstructure:"match_mode"`
	Strict        bool            `mapstructure:"strict"`
	LogLevel      string          `mapstructure:"log_level"`
	Verbose       bool            `mapstructure:"verbose"`
	Catalog       CatalogConfig   `mapstructure:"catalog"`
	Telemetry     TelemetryConfig `mapstructure:"telemetry"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("root_dir", "primitives")
	viper.SetDefault("libraries_dir", "")
	viper.SetDefault("meshes_dir", "")
	viper.SetDefault("thumbnails_dir", "")
	viper.SetDefault("session_path", "")
	viper.SetDefault("scene_path", "")
	viper.SetDefault("match_mode", "exact")
	viper.SetDefault("strict", false)
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("verbose", false)
	viper.SetDefault("catalog.enabled", true)
	viper.SetDefault("catalog.path", "")
	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.path", "")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if _, ok := library.ParseMatchMode(cfg.MatchMode); !ok {
		return Config{}, fmt.Errorf("config: match_mode %q: want exact or substring", cfg.MatchMode)
	}
	cfg.fillPaths()
	return cfg, nil
}

// fillPaths derives unset paths from RootDir, mirroring the plugin layout
// (libraries/, meshes/, thumbnails/ under one root).
func (c *Config) fillPaths() {
	under := func(dst *string, name string) {
		if *dst == "" {
			*dst = filepath.Join(c.RootDir, name)
		}
	}
	under(&c.LibrariesDir, "libraries")
	under(&c.MeshesDir, "meshes")
	under(&c.ThumbnailsDir, "thumbnails")
	under(&c.SessionPath, "session.toml")
	under(&c.ScenePath, "scene.toml")
	under(&c.Catalog.Path, "catalog.db")
	under(&c.Telemetry.Path, "journal.jsonl")
}

// Match returns the parsed block match mode.
func (c Config) Match() library.MatchMode {
	m, _ := library.ParseMatchMode(c.MatchMode)
	return m
}

// DecodeMode returns Strict when strict parsing is configured.
func (c Config) DecodeMode() library.Mode {
	if c.Strict {
		return library.Strict
	}
	return library.Lenient
}
