package config

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/rezkam/cadence/internal/env"
)

// WorkerConfig holds all configuration for the worker binary.
type WorkerConfig struct {
	Database      DatabaseConfig
	Observability ObservabilityConfig
	Schedule      ScheduleConfig

	OperationTimeout time.Duration `env:"CADENCE_WORKER_OPERATION_TIMEOUT" default:"1m"`
	ShutdownTimeout  time.Duration `env:"CADENCE_SHUTDOWN_TIMEOUT" default:"10s"`
}

// ScheduleConfig controls when and how much an evaluation pass processes.
type ScheduleConfig struct {
	// Cron is a standard five-field cron expression.
	Cron string `env:"CADENCE_WORKER_SCHEDULE" default:"*/15 * * * *"`

	// RunOnStart triggers one pass immediately instead of waiting for the first tick.
	RunOnStart bool `env:"CADENCE_WORKER_RUN_ON_START" default:"true"`

	// BatchSize is how many due reminders are loaded per query.
	BatchSize int `env:"CADENCE_WORKER_BATCH_SIZE" default:"100"`

	// MaxCatchUp bounds how many missed occurrences one reminder fires in a single pass.
	MaxCatchUp int `env:"CADENCE_WORKER_MAX_CATCH_UP" default:"31"`
}

// Validate validates the schedule configuration.
func (c *ScheduleConfig) Validate() error {
	if _, err := cron.ParseStandard(c.Cron); err != nil {
		return fmt.Errorf("invalid CADENCE_WORKER_SCHEDULE %q: %w", c.Cron, err)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("CADENCE_WORKER_BATCH_SIZE must be positive, got %d", c.BatchSize)
	}
	if c.MaxCatchUp < 1 {
		return fmt.Errorf("CADENCE_WORKER_MAX_CATCH_UP must be positive, got %d", c.MaxCatchUp)
	}
	return nil
}

// LoadWorkerConfig loads and validates worker configuration from environment.
func LoadWorkerConfig() (*WorkerConfig, error) {
	cfg := &WorkerConfig{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load worker config: %w", err)
	}

	return cfg, nil
}
