/*
config.go - Server configuration

PURPOSE:
  Collects everything cmd/server needs to start: listen port, database
  path, optional demo scenario, snapshot interval, log level and CORS
  origins.

PRECEDENCE (highest first):
  1. Command-line flags
  2. Environment variables (FINANCE_*)
  3. A .env file in the working directory, if present
  4. Defaults

FLAGS / ENVIRONMENT:
  -port               FINANCE_PORT               8080
  -db                 FINANCE_DB                 finance.db (":memory:" allowed)
  -seed               FINANCE_SEED               "" (no scenario)
  -snapshot-interval  FINANCE_SNAPSHOT_INTERVAL  24h (0 disables)
  -log-level          FINANCE_LOG_LEVEL          info
  -cors-origins       FINANCE_CORS_ORIGINS       "" (comma-separated)

SEE ALSO:
  - cmd/server/main.go: Uses Load
*/
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

// Config is the resolved server configuration.
type Config struct {
	Port             int
	DBPath           string
	Seed             string
	SnapshotInterval time.Duration
	LogLevel         zapcore.Level
	CORSOrigins      []string
}

// Defaults
const (
	DefaultPort             = 8080
	DefaultDBPath           = "finance.db"
	DefaultSnapshotInterval = 24 * time.Hour
)

// Load resolves the configuration from args (without the program name) and
// the environment. A missing .env file is not an error.
func Load(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	return parse(args, os.Getenv)
}

func parse(args []string, getenv func(string) string) (*Config, error) {
	port, err := envInt(getenv, "FINANCE_PORT", DefaultPort)
	if err != nil {
		return nil, err
	}
	interval, err := envDuration(getenv, "FINANCE_SNAPSHOT_INTERVAL", DefaultSnapshotInterval)
	if err != nil {
		return nil, err
	}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &Config{}
	var level, origins string
	fs.IntVar(&cfg.Port, "port", port, "HTTP server port")
	fs.StringVar(&cfg.DBPath, "db", envString(getenv, "FINANCE_DB", DefaultDBPath), "SQLite database path")
	fs.StringVar(&cfg.Seed, "seed", getenv("FINANCE_SEED"), "Demo scenario to load at startup")
	fs.DurationVar(&cfg.SnapshotInterval, "snapshot-interval", interval, "Net worth snapshot interval (0 disables)")
	fs.StringVar(&level, "log-level", envString(getenv, "FINANCE_LOG_LEVEL", "info"), "Log level (debug, info, warn, error)")
	fs.StringVar(&origins, "cors-origins", getenv("FINANCE_CORS_ORIGINS"), "Comma-separated allowed CORS origins")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.LogLevel, err = zapcore.ParseLevel(level); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg.CORSOrigins = splitList(origins)

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.DBPath == "" {
		return nil, errors.New("database path must not be empty")
	}
	if cfg.SnapshotInterval < 0 {
		return nil, fmt.Errorf("invalid snapshot interval %s", cfg.SnapshotInterval)
	}
	return cfg, nil
}

func envString(getenv func(string) string, key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(getenv func(string) string, key string, def int) (int, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func envDuration(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
