// Package config loads lstats settings.
//
// Sources, lowest precedence first: built-in defaults, an optional YAML file
// named by LOGINSTATS_CONFIG, a .env file in the working directory, and the
// process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/daviddao/loginstats/pkg/report"
)

// Config holds lstats settings.
type Config struct {
	// LogFile is the default text log to load when no --file or --db is given.
	LogFile string `yaml:"log_file"`
	// DBPath is the default SQLite archive.
	DBPath string `yaml:"db_path"`
	// TimeZone is an IANA zone name or "Local".
	TimeZone string `yaml:"time_zone"`
	// DateLayout is a Go time layout for printed instants.
	DateLayout string `yaml:"date_layout"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DBPath:     "loginstats.db",
		TimeZone:   "Local",
		DateLayout: report.DefaultLayout,
		LogLevel:   "warn",
	}
}

// Load builds a Config from all sources and validates it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path := os.Getenv("LOGINSTATS_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.LogFile = getEnv("LOGINSTATS_FILE", cfg.LogFile)
	cfg.DBPath = getEnv("LOGINSTATS_DB", cfg.DBPath)
	cfg.TimeZone = getEnv("LOGINSTATS_TZ", cfg.TimeZone)
	cfg.DateLayout = getEnv("LOGINSTATS_DATE_LAYOUT", cfg.DateLayout)
	cfg.LogLevel = getEnv("LOGINSTATS_LOG_LEVEL", cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	if c.DateLayout == "" {
		return fmt.Errorf("LOGINSTATS_DATE_LAYOUT cannot be empty")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Location resolves TimeZone.
func (c *Config) Location() (*time.Location, error) {
	if c.TimeZone == "" || strings.EqualFold(c.TimeZone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("LOGINSTATS_TZ %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

// Level resolves LogLevel.
func (c *Config) Level() (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning", "":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("LOGINSTATS_LOG_LEVEL %q: want debug, info, warn or error", c.LogLevel)
}

// Renderer returns a report.Renderer for the configured zone and layout.
func (c *Config) Renderer() report.Renderer {
	loc, err := c.Location()
	if err != nil {
		loc = time.Local
	}
	return report.Renderer{Location: loc, Layout: c.DateLayout}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
