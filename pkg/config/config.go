package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// App holds runtime configuration derived from env vars.
type App struct {
	DatabaseDriver string   `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	DatabaseURL    string   `env:"DATABASE_URL" envDefault:"books.db"`
	KafkaBrokers   []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic     string   `env:"KAFKA_TOPIC" envDefault:"book-events"`
	APIPort        string   `env:"API_PORT" envDefault:"8080"`
	Environment    string   `env:"ENVIRONMENT" envDefault:"production"`
	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`
	LogEncoding    string   `env:"LOG_ENCODING"`
	CORSOrigins    []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
}

// FromEnv loads the application configuration from environment variables.
func FromEnv() (App, error) {
	var cfg App
	if err := env.Parse(&cfg); err != nil {
		return App{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.KafkaBrokers = compact(cfg.KafkaBrokers)
	cfg.CORSOrigins = compact(cfg.CORSOrigins)
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}
	cfg.DatabaseDriver = strings.ToLower(strings.TrimSpace(cfg.DatabaseDriver))

	return cfg, nil
}

// EventsEnabled reports whether change events should be published to Kafka.
func (a App) EventsEnabled() bool {
	return len(a.KafkaBrokers) > 0
}

// compact trims entries and drops empty ones left by stray separators.
func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
