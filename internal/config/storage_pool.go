package config

import "time"

// StoragePoolConfig holds storage connection pool configuration.
// Zero values leave the driver defaults in place.
type StoragePoolConfig struct {
	MaxOpenConns    int           `env:"CADENCE_DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `env:"CADENCE_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `env:"CADENCE_DB_CONN_MAX_LIFETIME" default:"5m"`
	ConnMaxIdleTime time.Duration `env:"CADENCE_DB_CONN_MAX_IDLE_TIME" default:"1m"`
}
