// Package config loads claquete settings from a TOML file with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Storage struct {
	Driver      string `toml:"driver"`
	SQLitePath  string `toml:"sqlite_path"`
	PostgresDSN string `toml:"postgres_dsn"`
}

type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type Rates struct {
	CacheMaxCost int64 `toml:"cache_max_cost"`
	TTLSeconds   int   `toml:"ttl_seconds"`
}

type Autosave struct {
	RetryDelayMS int `toml:"retry_delay_ms"`
}

type DocSync struct {
	Enabled   bool   `toml:"enabled"`
	Bucket    string `toml:"bucket"`
	Region    string `toml:"region"`
	Endpoint  string `toml:"endpoint"`
	Prefix    string `toml:"prefix"`
	PathStyle bool   `toml:"path_style"`
}

type Savings struct {
	DefaultPercent int `toml:"default_percent"`
}

type Config struct {
	Storage  Storage  `toml:"storage"`
	Logging  Logging  `toml:"logging"`
	Rates    Rates    `toml:"rates"`
	Autosave Autosave `toml:"autosave"`
	DocSync  DocSync  `toml:"docsync"`
	Savings  Savings  `toml:"savings"`
}

// Default returns the built-in settings: SQLite under ~/.claquete, text
// logs at warn level and document sync disabled.
func Default() Config {
	return Config{
		Storage: Storage{
			Driver:     DriverSQLite,
			SQLitePath: "~/.claquete/claquete.db",
		},
		Logging:  Logging{Level: "warn", Format: "text"},
		Rates:    Rates{CacheMaxCost: 1024, TTLSeconds: 300},
		Autosave: Autosave{RetryDelayMS: 200},
		DocSync:  DocSync{Region: "us-east-1", Prefix: "projects"},
		Savings:  Savings{DefaultPercent: 10},
	}
}

// DefaultPath is the config file used when neither a flag nor
// CLAQUETE_CONFIG names one.
func DefaultPath() (string, error) {
	return ExpandPath("~/.claquete/config.toml")
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path falls back to CLAQUETE_CONFIG and then
// DefaultPath. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("CLAQUETE_CONFIG")
	}
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}
	resolved, err := ExpandPath(path)
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(resolved)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.normalize(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("CLAQUETE_DB"); v != "" {
		c.Storage.SQLitePath = v
	}
	if v := os.Getenv("CLAQUETE_POSTGRES_DSN"); v != "" {
		c.Storage.PostgresDSN = v
		c.Storage.Driver = DriverPostgres
	}
	if v := os.Getenv("CLAQUETE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) normalize() error {
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Storage.SQLitePath != "" && c.Storage.SQLitePath != ":memory:" {
		p, err := ExpandPath(c.Storage.SQLitePath)
		if err != nil {
			return err
		}
		c.Storage.SQLitePath = p
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("storage.postgres_dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("storage.driver: unsupported value %q (want sqlite or postgres)", c.Storage.Driver)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	if c.Rates.CacheMaxCost <= 0 {
		return fmt.Errorf("rates.cache_max_cost must be positive")
	}
	if c.Rates.TTLSeconds < 0 {
		return fmt.Errorf("rates.ttl_seconds must not be negative")
	}
	if c.Autosave.RetryDelayMS < 0 {
		return fmt.Errorf("autosave.retry_delay_ms must not be negative")
	}
	if c.DocSync.Enabled && c.DocSync.Bucket == "" {
		return fmt.Errorf("docsync.bucket is required when docsync is enabled")
	}
	if c.Savings.DefaultPercent < 5 || c.Savings.DefaultPercent > 25 {
		return fmt.Errorf("savings.default_percent must be between 5 and 25")
	}
	return nil
}

// DefaultSavingPercent returns the configured savings percent as a decimal.
func (c Config) DefaultSavingPercent() decimal.Decimal {
	return decimal.NewFromInt(int64(c.Savings.DefaultPercent))
}

// ExpandPath resolves a leading ~ and makes the path absolute.
func ExpandPath(p string) (string, error) {
	if p == "" {
		return p, nil
	}
	if strings.HasPrefix(p, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if p == "~" {
			p = home
		} else if len(p) > 1 && (p[1] == '/' || p[1] == '\\') {
			p = filepath.Join(home, p[2:])
		}
	}
	abs, err := filepath.Abs(filepath.Clean(p))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", p, err)
	}
	return abs, nil
}
