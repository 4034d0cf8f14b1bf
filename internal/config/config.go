// Package config holds the immutable service configuration for steward.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"steward/internal/constants"
	"steward/internal/errors"
	"steward/internal/xdg"

	"github.com/pelletier/go-toml/v2"
)

// ServiceConfig is the top-level service configuration. It is created once
// at process start and never mutated afterwards.
type ServiceConfig struct {
	Name      string         `toml:"name"`
	Port      int            `toml:"port"`
	LogLevel  string         `toml:"log_level"`
	LogFormat string         `toml:"log_format"`
	Database  DatabaseConfig `toml:"database"`
}

// DatabaseConfig describes the datastore connection.
type DatabaseConfig struct {
	Driver   string `toml:"driver"` // sqlite3 or postgres
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Name     string `toml:"name"` // schema/database name
	Path     string `toml:"path"` // sqlite file path
}

// Default returns the default service configuration.
func Default() *ServiceConfig {
	return &ServiceConfig{
		Name:      "steward",
		Port:      constants.DefaultServerPort,
		LogLevel:  "info",
		LogFormat: "text",
		Database: DatabaseConfig{
			Driver: "sqlite3",
		},
	}
}

// DefaultPath returns the XDG-compliant config file path.
func DefaultPath() (string, error) {
	configDir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// Load reads a TOML config from path. An empty path falls back to the XDG
// default; a missing file yields the defaults.
func Load(path string) (*ServiceConfig, error) {
	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(cfg)
			return cfg, cfg.Validate()
		}
		return nil, errors.Wrap(errors.ErrConfigParse, "failed to read config file", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, "failed to parse config file", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides lets the sensitive database fields come from the
// environment instead of the config file.
func applyEnvOverrides(cfg *ServiceConfig) {
	if v := os.Getenv("STEWARD_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("STEWARD_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("STEWARD_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
}

// Validate checks the configuration for invalid values.
func (c *ServiceConfig) Validate() error {
	if c.Name == "" {
		return errors.New(errors.ErrConfigValidation, "service name must not be empty")
	}
	if c.Port < constants.MinPort || c.Port > constants.MaxPort {
		return errors.NewWithDetails(errors.ErrInvalidPort, "port out of range",
			fmt.Sprintf("port %d must be between %d and %d", c.Port, constants.MinPort, constants.MaxPort))
	}
	switch c.Database.Driver {
	case "sqlite3", "postgres", "":
	default:
		return errors.NewWithDetails(errors.ErrConfigValidation, "unsupported database driver", c.Database.Driver)
	}
	if c.Database.Driver == "postgres" {
		if c.Database.Host == "" || c.Database.Name == "" {
			return errors.New(errors.ErrConfigValidation, "postgres requires database host and name")
		}
	}
	return nil
}
