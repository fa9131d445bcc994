// Package config handles global phorum configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultPageSize is the number of threads per search results page when the
// config does not say otherwise.
const DefaultPageSize = 20

// Config represents the global phorum configuration.
type Config struct {
	// Database is the path to the forum's sqlite database.
	Database string `toml:"database"`

	// PageSize is the number of threads per search results page.
	PageSize int `toml:"page_size"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`
}

// EffectivePageSize returns the configured page size or the default.
func (c *Config) EffectivePageSize() int {
	if c.PageSize > 0 {
		return c.PageSize
	}
	return DefaultPageSize
}

// DatabasePath returns the configured database path, falling back to the
// default location under the user's data directory.
func (c *Config) DatabasePath() string {
	if c.Database != "" {
		return c.Database
	}
	return DefaultDatabasePath()
}

// Load loads the configuration from the default location.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &Config{}, nil
	}

	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &config, nil
}

// DefaultPath returns the default config file path.
// Checks ~/.config/phorum/config.toml first (XDG style),
// then falls back to OS-specific location.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "phorum", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "phorum", "config.toml")
	}

	return filepath.Join(".", "config.toml")
}

// DefaultDatabasePath returns the default database location
// (~/.local/share/phorum/forum.db or the OS equivalent).
func DefaultDatabasePath() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "phorum", "forum.db")
	}
	return filepath.Join(".", "forum.db")
}
