package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// RelayConfig holds configuration for the outbox relay service. Minimal
// on purpose: only what the relay needs.
type RelayConfig struct {
	DatabaseURL   string `env:"DB_CONNECTION_STRING,required"`
	RabbitMQURL   string `env:"RABBITMQ_URL,required"`
	LoanQueueName string `env:"LOAN_QUEUE_NAME" envDefault:"loan-events"`
}

func LoadRelayConfig() (*RelayConfig, error) {
	cfg := RelayConfig{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse relay config: %w", err)
	}
	return &cfg, nil
}
