package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config contains API server configuration, loaded from the environment.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	DatabaseURL string `env:"DB_CONNECTION_STRING,required"`

	// Redis is optional: when no address is configured the API falls
	// back to the in-process session store.
	RedisAddress  string `env:"REDIS_ADDRESS"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	LoanTermDays int     `env:"LOAN_TERM_DAYS" envDefault:"7"`
	FeePerDay    float64 `env:"FEE_PER_DAY" envDefault:"2.00"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

func Load() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
