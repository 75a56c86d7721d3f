package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT" envDefault:"8080" validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	DatabaseURL    string `env:"DATABASE_URL,required" validate:"required"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"migrations"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`

	JWTSecret    string `env:"JWT_SECRET,required" validate:"required,min=32"`
	ResendAPIKey string `env:"RESEND_API_KEY"      validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom   string `env:"RESEND_FROM"         validate:"required_if=Env production,required_if=Env staging"`

	CORSOrigin string `env:"CORS_ORIGIN" envDefault:"http://localhost:3000" validate:"required,url"`
}

func Load() (*Config, error) {
	// .env is optional; real environment variables always win.
	_ = godotenv.Load()

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
