// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the API server and the
// terminal client. Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// DatabaseURL is the Postgres connection string of the remote document
	// store. Empty disables Postgres.
	DatabaseURL string

	// RedisAddr and RedisPassword configure the Redis document store and the
	// change event relay. An empty address disables Redis.
	RedisAddr     string
	RedisPassword string

	// SQLitePath is the local document store. It is always used, as the
	// fallback when a remote store fails and as the only store otherwise.
	SQLitePath string

	// CatalogPath overrides the embedded destination catalog.
	CatalogPath string

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64

	// DocumentMaxBytes caps a single stored collection document.
	DocumentMaxBytes int64
}

// Load reads an optional .env file from the working directory, then
// configuration from environment variables. Variables already set in the
// environment win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config.Load: .env: %w", err)
	}

	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		CORSOrigins:   splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		SQLitePath:    getEnv("SQLITE_PATH", "rv-planner.db"),
		CatalogPath:   os.Getenv("CATALOG_PATH"),
	}

	var invalid []string
	var err error
	if cfg.MaxBodyBytes, err = getBytes("MAX_BODY_BYTES", 1<<20); err != nil {
		invalid = append(invalid, err.Error())
	}
	if cfg.DocumentMaxBytes, err = getBytes("DOCUMENT_MAX_BYTES", 5<<20); err != nil {
		invalid = append(invalid, err.Error())
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, "; "))
	}
	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getBytes parses a positive byte count.
func getBytes(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive number of bytes, got %q", key, v)
	}
	return n, nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
