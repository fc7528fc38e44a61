package config

import (
	"fmt"

	"github.com/rezkam/cadence/internal/env"
)

// TestConfig holds configuration for integration tests.
type TestConfig struct {
	PostgresDSN string `env:"CADENCE_TEST_POSTGRES_DSN"`
}

// LoadTestConfig loads test configuration from environment.
// An empty PostgresDSN means integration tests should be skipped.
func LoadTestConfig() (*TestConfig, error) {
	cfg := &TestConfig{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load test config: %w", err)
	}

	return cfg, nil
}
