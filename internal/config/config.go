package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the taskboard configuration. The store itself only
// ever sees the resolved database path.
type Config struct {
	// DBPath is the SQLite database file. Empty means the default
	// XDG data location.
	DBPath string `mapstructure:"db_path"`
	// Theme is the color theme: "tokyonight" or "catppuccin"
	Theme string `mapstructure:"theme"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{Theme: "tokyonight"}
}

// Dir returns the directory holding the config file
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "taskboard")
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()
	viper.SetDefault("db_path", defaults.DBPath)
	viper.SetDefault("theme", defaults.Theme)
}

// Load unmarshals the current viper state into a Config
func Load() (*Config, error) {
	cfg := Default()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
