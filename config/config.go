// Package config loads server and CLI settings: defaults, then an optional
// TOML file, then environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// Backend kinds accepted by Store.Backend.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	Port      string      `toml:"port" env:"PORT"`
	StaticDir string      `toml:"static_dir" env:"CAPS_STATIC_DIR"`
	LogLevel  string      `toml:"log_level" env:"CAPS_LOG_LEVEL"`
	Store     StoreConfig `toml:"store"`
}

type StoreConfig struct {
	Backend string `toml:"backend" env:"CAPS_STORE_BACKEND"`
	Path    string `toml:"path" env:"CAPS_STORE_PATH"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Port:     "8080",
		LogLevel: "info",
		Store: StoreConfig{
			Backend: BackendFile,
			Path:    filepath.Join(dataDir(), "caps.json"),
		},
	}
}

// Load builds the configuration. path may be empty, in which case CAPS_CONFIG
// is consulted; a missing file is not an error. The result is not validated:
// callers apply their overrides first and then call Validate.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("CAPS_CONFIG")
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks the fields Load cannot default.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendFile, BackendSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("config: store path is required for the %s backend", c.Store.Backend)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("config: unknown store backend %q", c.Store.Backend)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}
	return nil
}

func dataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "cap-customizer")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "data"
	}
	return filepath.Join(home, ".local", "share", "cap-customizer")
}
