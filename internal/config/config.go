// Package config contains everything related to configuration
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/j-veylop/bike-sharing-dashboard/internal/models"
)

// Data sources.
const (
	SourceCSV    = "csv"
	SourceSQLite = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	DayCSVPath           string
	HourCSVPath          string
	DataSource           string
	DatabasePath         string
	ExportDir            string
	LogFile              string
	MonthlyGrain         models.Grain
	LogLevel             slog.Level
	ReloadDebounce       time.Duration
	WatchFiles           bool
	DesktopNotifications bool
}

// Default values
const (
	defaultDayCSVPath     = "dashboard/day.csv"
	defaultHourCSVPath    = "dashboard/hour.csv"
	defaultExportDir      = "export"
	defaultReloadDebounce = 500 * time.Millisecond

	appDirName = "bike-sharing-dashboard"
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		DayCSVPath:           getEnvString("DAY_CSV_PATH", defaultDayCSVPath),
		HourCSVPath:          getEnvString("HOUR_CSV_PATH", defaultHourCSVPath),
		DataSource:           strings.ToLower(getEnvString("DATA_SOURCE", SourceCSV)),
		DatabasePath:         getEnvString("DATABASE_PATH", getDefaultPath("bikeshare.db")),
		ExportDir:            getEnvString("EXPORT_DIR", defaultExportDir),
		LogFile:              getEnvString("LOG_FILE", getDefaultPath("bsd.log")),
		ReloadDebounce:       getEnvDuration("RELOAD_DEBOUNCE", defaultReloadDebounce),
		WatchFiles:           getEnvBool("WATCH_FILES", true),
		DesktopNotifications: getEnvBool("DESKTOP_NOTIFICATIONS", false),
	}

	if cfg.DataSource != SourceCSV && cfg.DataSource != SourceSQLite {
		return nil, fmt.Errorf("DATA_SOURCE must be %q or %q, got %q", SourceCSV, SourceSQLite, cfg.DataSource)
	}

	grain, err := models.ParseGrain(strings.ToLower(getEnvString("MONTHLY_GRAIN", "hourly")))
	if err != nil {
		return nil, fmt.Errorf("MONTHLY_GRAIN: %w", err)
	}
	cfg.MonthlyGrain = grain

	level, err := parseLevel(getEnvString("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	// Ensure database directory exists
	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// UsesDatabase reports whether the dataset is read from the SQLite store.
func (c *Config) UsesDatabase() bool {
	return c.DataSource == SourceSQLite
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appDirName, ".env"))
	}

	return paths
}

// getDefaultPath returns name inside the per-user config directory.
func getDefaultPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".config", appDirName, name)
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as milliseconds if no unit specified
		if ms, err := strconv.Atoi(value); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultValue
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
