// Package config reads service configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/database"
	"github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/monitoring"
)

// Config is the complete service configuration.
type Config struct {
	Port    string
	GinMode string
	Version string

	DBDriver    string
	DatabaseURL string

	RedisAddr          string
	RedisPassword      string
	RateLimitPerMinute int
	AdminRateLimit     int

	OffenceAPIURL      string
	OffenceAPIToken    string
	OffenceRefreshCron string

	JWTSecret    string
	JWTPublicKey string
	JWTIssuer    string

	OTLPEndpoint   string
	AllowedOrigins []string
	EnableHSTS     bool
	LogLevel       slog.Level

	ShutdownTimeout time.Duration
}

// Load reads the environment and applies defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
		Version: getEnvOrDefault("APP_VERSION", "dev"),

		DBDriver:    getEnvOrDefault("DB_DRIVER", database.DriverSQLite),
		DatabaseURL: getEnvOrDefault("DATABASE_URL", "file:./data/offences.db?_foreign_keys=on"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		OffenceAPIURL:      os.Getenv("OFFENCE_API_URL"),
		OffenceAPIToken:    os.Getenv("OFFENCE_API_TOKEN"),
		OffenceRefreshCron: os.Getenv("OFFENCE_REFRESH_CRON"),

		JWTSecret:    os.Getenv("JWT_SECRET"),
		JWTPublicKey: os.Getenv("JWT_PUBLIC_KEY"),
		JWTIssuer:    os.Getenv("JWT_ISSUER"),

		OTLPEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		AllowedOrigins: splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		LogLevel:       monitoring.ParseLevel(os.Getenv("LOG_LEVEL")),

		ShutdownTimeout: 30 * time.Second,
	}

	var err error
	if cfg.RateLimitPerMinute, err = getIntOrDefault("RATE_LIMIT_PER_MINUTE", 120); err != nil {
		return Config{}, err
	}
	if cfg.AdminRateLimit, err = getIntOrDefault("ADMIN_RATE_LIMIT_PER_MINUTE", 6); err != nil {
		return Config{}, err
	}
	if cfg.EnableHSTS, err = getBoolOrDefault("ENABLE_HSTS", false); err != nil {
		return Config{}, err
	}

	return cfg, cfg.Validate()
}

// Validate checks combinations Load cannot default.
func (c Config) Validate() error {
	switch c.DBDriver {
	case database.DriverSQLite, database.DriverPostgres:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", database.DriverSQLite, database.DriverPostgres, c.DBDriver)
	}
	if c.JWTSecret == "" && c.JWTPublicKey == "" {
		return fmt.Errorf("one of JWT_SECRET or JWT_PUBLIC_KEY is required")
	}
	if c.JWTSecret != "" && c.JWTPublicKey != "" {
		return fmt.Errorf("set only one of JWT_SECRET or JWT_PUBLIC_KEY")
	}
	if c.RateLimitPerMinute <= 0 || c.AdminRateLimit <= 0 {
		return fmt.Errorf("rate limits must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getBoolOrDefault(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return b, nil
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
