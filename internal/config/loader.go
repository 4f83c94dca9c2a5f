package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Config captures environment driven configuration values for the scheme portal.
type Config struct {
	HTTPPort    int
	SQLiteDSN   string
	CatalogPath string
	LogLevel    slog.Level
}

// Load parses configuration values from the current process environment.
//
// Every value has a sensible default; the loader accumulates invalid entries
// and reports them in one error so misconfiguration is fixed in a single pass.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:    8080,
		SQLiteDSN:   "file:schemes.db?_foreign_keys=on",
		CatalogPath: "",
		LogLevel:    slog.LevelInfo,
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("SCHEMES_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "SCHEMES_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("SCHEMES_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if path := strings.TrimSpace(os.Getenv("SCHEMES_CATALOG_PATH")); path != "" {
		cfg.CatalogPath = path
	}

	if levelValue := strings.TrimSpace(os.Getenv("SCHEMES_LOG_LEVEL")); levelValue != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(levelValue)); err != nil {
			invalid = append(invalid, "SCHEMES_LOG_LEVEL")
		} else {
			cfg.LogLevel = level
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
