// Package store opens the configured reminder repository implementation.
package store

import (
	"context"
	"fmt"

	"github.com/rezkam/cadence/internal/application/reminder"
	"github.com/rezkam/cadence/internal/config"
	"github.com/rezkam/cadence/internal/infrastructure/persistence/postgres"
	"github.com/rezkam/cadence/internal/infrastructure/persistence/sqlite"
)

// Store is a reminder repository with a connection lifecycle.
type Store interface {
	reminder.Repository
	Ping(ctx context.Context) error
	Close() error
}

// Open connects to the database named by cfg.Driver.
func Open(ctx context.Context, cfg config.DatabaseConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		s, err := postgres.NewStoreWithConfig(ctx, postgres.DBConfig{
			DSN:             cfg.DSN,
			MaxOpenConns:    cfg.Pool.MaxOpenConns,
			MaxIdleConns:    cfg.Pool.MaxIdleConns,
			ConnMaxLifetime: cfg.Pool.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.Pool.ConnMaxIdleTime,
			AutoMigrate:     cfg.AutoMigrate,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverSQLite:
		s, err := sqlite.NewStoreWithConfig(ctx, sqlite.DBConfig{
			DSN:             cfg.DSN,
			ConnMaxLifetime: cfg.Pool.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.Pool.ConnMaxIdleTime,
			AutoMigrate:     cfg.AutoMigrate,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}
