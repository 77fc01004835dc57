// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Server settings.
	Port                int
	ReadTimeout         time.Duration
	WriteTimeout        time.Duration
	MaxRequestBodyBytes int64 // Maximum request body size in bytes, uploads included.

	// Storage settings.
	StorageDriver string // "sqlite" or "postgres".
	SQLitePath    string // File path, or ":memory:".
	DatabaseURL   string // Postgres DSN; required when StorageDriver is "postgres".

	// Builder settings.
	SessionTTL       time.Duration // Idle time before a builder session is dropped.
	GenerationDelay  time.Duration // Simulated "thinking" time for bootstrap.
	ToolDelay        time.Duration // Simulated latency of the mock services.
	ToolsetCacheSize int           // Launched apps whose tools and MCP servers stay built.

	// Rate limiting, per client IP.
	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int

	// Share link settings.
	JWTPrivateKeyPath string // Path to Ed25519 private key PEM file.
	JWTPublicKeyPath  string // Path to Ed25519 public key PEM file.
	ShareTokenTTL     time.Duration

	// OTEL settings.
	OTELEndpoint string
	ServiceName  string
	OTELInsecure bool // Use plain HTTP for the OTLP exporter.

	LogLevel string
}

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Load reads configuration from environment variables with sensible defaults.
// Every malformed variable is reported, not just the first.
func Load() (Config, error) {
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	cfg := Config{
		StorageDriver:     strings.ToLower(envStr("STUDIO_STORAGE_DRIVER", DriverSQLite)),
		SQLitePath:        envStr("STUDIO_SQLITE_PATH", "studio.db"),
		DatabaseURL:       envStr("DATABASE_URL", ""),
		JWTPrivateKeyPath: envStr("STUDIO_JWT_PRIVATE_KEY", ""),
		JWTPublicKeyPath:  envStr("STUDIO_JWT_PUBLIC_KEY", ""),
		OTELEndpoint:      envStr("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:       envStr("OTEL_SERVICE_NAME", "studio"),
		LogLevel:          envStr("STUDIO_LOG_LEVEL", "info"),
	}

	var err error
	cfg.Port, err = envInt("STUDIO_PORT", 8080)
	collect(err)
	cfg.ReadTimeout, err = envDuration("STUDIO_READ_TIMEOUT", 30*time.Second)
	collect(err)
	cfg.WriteTimeout, err = envDuration("STUDIO_WRITE_TIMEOUT", 30*time.Second)
	collect(err)
	maxBody, err := envInt("STUDIO_MAX_REQUEST_BODY_BYTES", 1*1024*1024) // 1 MB default
	collect(err)
	cfg.MaxRequestBodyBytes = int64(maxBody)
	cfg.SessionTTL, err = envDuration("STUDIO_SESSION_TTL", time.Hour)
	collect(err)
	cfg.GenerationDelay, err = envDuration("STUDIO_GENERATION_DELAY", 1500*time.Millisecond)
	collect(err)
	cfg.ToolDelay, err = envDuration("STUDIO_TOOL_DELAY", 100*time.Millisecond)
	collect(err)
	cfg.ToolsetCacheSize, err = envInt("STUDIO_TOOLSET_CACHE_SIZE", 256)
	collect(err)
	cfg.RateLimitEnabled, err = envBool("STUDIO_RATE_LIMIT_ENABLED", true)
	collect(err)
	cfg.RateLimitRPS, err = envFloat("STUDIO_RATE_LIMIT_RPS", 10)
	collect(err)
	cfg.RateLimitBurst, err = envInt("STUDIO_RATE_LIMIT_BURST", 30)
	collect(err)
	cfg.ShareTokenTTL, err = envDuration("STUDIO_SHARE_TOKEN_TTL", 24*time.Hour)
	collect(err)
	cfg.OTELInsecure, err = envBool("STUDIO_OTEL_INSECURE", false)
	collect(err)

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("config: %w", errors.Join(errs...))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and required settings.
func (c Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("STUDIO_PORT must be between 1 and 65535"))
	}
	switch c.StorageDriver {
	case DriverSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, fmt.Errorf("STUDIO_SQLITE_PATH is required for the sqlite driver"))
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, fmt.Errorf("DATABASE_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("STUDIO_STORAGE_DRIVER=%q must be %q or %q", c.StorageDriver, DriverSQLite, DriverPostgres))
	}
	if c.MaxRequestBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("STUDIO_MAX_REQUEST_BODY_BYTES must be positive"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("STUDIO_SESSION_TTL must be positive"))
	}
	if c.GenerationDelay < 0 || c.ToolDelay < 0 {
		errs = append(errs, fmt.Errorf("STUDIO_GENERATION_DELAY and STUDIO_TOOL_DELAY must not be negative"))
	}
	if c.ToolsetCacheSize <= 0 {
		errs = append(errs, fmt.Errorf("STUDIO_TOOLSET_CACHE_SIZE must be positive"))
	}
	if c.RateLimitEnabled && (c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0) {
		errs = append(errs, fmt.Errorf("STUDIO_RATE_LIMIT_RPS and STUDIO_RATE_LIMIT_BURST must be positive when rate limiting is enabled"))
	}
	if (c.JWTPrivateKeyPath == "") != (c.JWTPublicKeyPath == "") {
		errs = append(errs, fmt.Errorf("STUDIO_JWT_PRIVATE_KEY and STUDIO_JWT_PUBLIC_KEY must be set together"))
	}
	if c.ShareTokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("STUDIO_SHARE_TOKEN_TTL must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

func envStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal, fmt.Errorf("%s=%q is not a valid integer", key, v)
	}
	return n, nil
}

func envFloat(key string, defaultVal float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal, fmt.Errorf("%s=%q is not a valid number", key, v)
	}
	return f, nil
}

func envBool(key string, defaultVal bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal, fmt.Errorf("%s=%q is not a valid boolean", key, v)
	}
	return b, nil
}

func envDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal, fmt.Errorf("%s=%q is not a valid duration", key, v)
	}
	return d, nil
}
