// Package config provides configuration management.
//
// Prices, spoilage bands and catalogs are compiled into the engine and are
// deliberately absent here; configuration only covers the surfaces around it.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v9"

	perrors "printquote/internal/errors"
	"printquote/internal/logging"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "PRINTQUOTE_"

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Ledger contains issued-quote storage configuration
	Ledger LedgerConfig `json:"ledger"`

	// Server contains HTTP server configuration
	Server ServerConfig `json:"server"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format (text, json)
	DefaultFormat string `json:"default_format" env:"OUTPUT_FORMAT"`

	// ShowBreakdown prints cost components under the quote
	ShowBreakdown bool `json:"show_breakdown" env:"OUTPUT_BREAKDOWN"`
}

// LedgerConfig contains quote ledger settings
type LedgerConfig struct {
	// Path is the SQLite database file
	Path string `json:"path" env:"DB_PATH"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr" env:"ADDR"`

	// ReadTimeoutSeconds bounds request reads
	ReadTimeoutSeconds int `json:"read_timeout_seconds" env:"READ_TIMEOUT_SECONDS"`

	// WriteTimeoutSeconds bounds response writes
	WriteTimeoutSeconds int `json:"write_timeout_seconds" env:"WRITE_TIMEOUT_SECONDS"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dbPath := filepath.Join(homeDir, ".printquote", "quotes.db")

	return &Config{
		Version: "1.0",
		Output: OutputConfig{
			DefaultFormat: "text",
			ShowBreakdown: true,
		},
		Ledger: LedgerConfig{
			Path: dbPath,
		},
		Server: ServerConfig{
			Addr:                ":8080",
			ReadTimeoutSeconds:  10,
			WriteTimeoutSeconds: 10,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file, then applies environment overrides.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, perrors.Wrapf(perrors.TypeConfig, err, "parse config %s", path)
			}
		case !os.IsNotExist(err):
			return nil, perrors.Wrapf(perrors.TypeConfig, err, "read config %s", path)
		}
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays PRINTQUOTE_* environment variables onto cfg.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return perrors.Wrap(perrors.TypeConfig, "parse environment", err)
	}
	return nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
