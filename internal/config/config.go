// Package config loads goodsledger settings.
//
// Priority (highest to lowest):
//  1. Environment variables with the GOODSLEDGER_ prefix (GOODSLEDGER_DATABASE_PATH),
//     including those set by an optional .env file
//  2. goodsledger.toml
//  3. Built-in defaults
//
// Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the complete application configuration.
type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	Database  DatabaseConfig
	Log       LogConfig
	Inventory InventoryConfig
}

// AppConfig holds the deployment environment (development or production).
type AppConfig struct {
	Env string
}

// HTTPConfig holds the API listen address.
type HTTPConfig struct {
	Addr string
}

// DatabaseConfig holds the SQLite database file path.
type DatabaseConfig struct {
	Path string
}

// LogConfig selects the log level, encoding and destination.
type LogConfig struct {
	Level  string
	Format string
	Output string
}

// InventoryConfig holds inventory number generation settings.
type InventoryConfig struct {
	// NumberBase is the first generated inventory number on an empty ledger.
	NumberBase int64
}

// Load reads configuration from dir (the working directory when empty).
func Load(dir string) (*Config, error) {
	if dir == "" {
		dir = "."
	}

	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("goodsledger")
	v.SetConfigType("toml")
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("GOODSLEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Env: v.GetString("app.env"),
		},
		HTTP: HTTPConfig{
			Addr: v.GetString("http.addr"),
		},
		Database: DatabaseConfig{
			Path: v.GetString("database.path"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Inventory: InventoryConfig{
			NumberBase: v.GetInt64("inventory.number_base"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "goodsledger.sqlite3"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		if cfg.IsProduction() {
			cfg.Log.Format = "json"
		} else {
			cfg.Log.Format = "console"
		}
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Inventory.NumberBase == 0 {
		cfg.Inventory.NumberBase = 1
	}
}

func (c *Config) validate() error {
	if c.Inventory.NumberBase < 1 {
		return fmt.Errorf("inventory.number_base must be positive, got %d", c.Inventory.NumberBase)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	return nil
}

// IsProduction reports whether the application runs in production.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
