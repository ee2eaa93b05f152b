// Package config loads and validates the server configuration from the
// environment.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" default:"development"`
	Port        string `env:"PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	LogLevel    string `env:"LOG_LEVEL" default:"info"`
	LogFormat   string `env:"LOG_FORMAT" default:"text"`

	// MaxSSEConnections caps concurrent event streams per instance.
	MaxSSEConnections int64 `env:"MAX_SSE_CONNECTIONS" default:"10000"`

	// Per-IP rate limit applied to API mutations and stream connects.
	RateLimitPerSecond float64 `env:"RATE_LIMIT_PER_SECOND" default:"20"`
	RateLimitBurst     int     `env:"RATE_LIMIT_BURST" default:"40"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" default:"10s"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.MaxSSEConnections <= 0 {
		return fmt.Errorf("MAX_SSE_CONNECTIONS must be positive, got %d", cfg.MaxSSEConnections)
	}
	if cfg.RateLimitPerSecond <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_SECOND must be positive, got %v", cfg.RateLimitPerSecond)
	}
	return nil
}
