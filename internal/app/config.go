package app

import (
	"fmt"
	"strconv"
	"time"

	"github.com/caarlos0/env/v10"
	"go.temporal.io/sdk/client"

	platformobservability "github.com/Apurer/go-inventory-service/internal/platform/observability"
)

// Config carries environment-driven settings shared by the inventory processes.
type Config struct {
	PostgresDSN       string        `env:"POSTGRES_DSN"`
	HealthPort        string        `env:"HEALTH_PORT" envDefault:"8081"`
	TemporalAddress   string        `env:"TEMPORAL_ADDRESS"`
	TemporalNamespace string        `env:"TEMPORAL_NAMESPACE"`
	TemporalDisabled  bool          `env:"TEMPORAL_DISABLED"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	Environment       string        `env:"ENVIRONMENT" envDefault:"local"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	return loadConfig(env.Options{})
}

func loadConfig(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.TemporalAddress == "" {
		cfg.TemporalAddress = client.DefaultHostPort
	}
	if cfg.TemporalNamespace == "" {
		cfg.TemporalNamespace = client.DefaultNamespace
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the processes cannot start with.
func (c Config) Validate() error {
	port, err := strconv.Atoi(c.HealthPort)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("HEALTH_PORT must be a port number, got %q", c.HealthPort)
	}
	if !platformobservability.ValidLevel(c.LogLevel) {
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", c.LogLevel)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}

// HealthAddr is the listen address of the probe server.
func (c Config) HealthAddr() string {
	return ":" + c.HealthPort
}
