package config

import (
	"fmt"
	"time"

	"github.com/rezkam/cadence/internal/env"
)

// ServerConfig holds all configuration for the server binary.
type ServerConfig struct {
	Database        DatabaseConfig
	HTTP            HTTPConfig
	Reminder        ReminderConfig
	Observability   ObservabilityConfig
	ShutdownTimeout time.Duration `env:"CADENCE_SHUTDOWN_TIMEOUT" default:"10s"`
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Host              string        `env:"CADENCE_HTTP_HOST" default:"0.0.0.0"`
	Port              string        `env:"CADENCE_HTTP_PORT" default:"8081"`
	ReadTimeout       time.Duration `env:"CADENCE_HTTP_READ_TIMEOUT" default:"5s"`
	WriteTimeout      time.Duration `env:"CADENCE_HTTP_WRITE_TIMEOUT" default:"10s"`
	IdleTimeout       time.Duration `env:"CADENCE_HTTP_IDLE_TIMEOUT" default:"120s"`
	ReadHeaderTimeout time.Duration `env:"CADENCE_HTTP_READ_HEADER_TIMEOUT" default:"5s"`
	MaxHeaderBytes    int           `env:"CADENCE_HTTP_MAX_HEADER_BYTES" default:"1048576"`
	MaxBodyBytes      int64         `env:"CADENCE_HTTP_MAX_BODY_BYTES" default:"1048576"`

	// TLS configuration for HTTPS
	TLSEnabled  bool   `env:"CADENCE_TLS_ENABLED"`
	TLSCertFile string `env:"CADENCE_TLS_CERT_FILE"`
	TLSKeyFile  string `env:"CADENCE_TLS_KEY_FILE"`
}

// Validate validates HTTP configuration.
func (c *HTTPConfig) Validate() error {
	if c.TLSEnabled && (c.TLSCertFile == "" || c.TLSKeyFile == "") {
		return fmt.Errorf("CADENCE_TLS_CERT_FILE and CADENCE_TLS_KEY_FILE are required when CADENCE_TLS_ENABLED is set")
	}
	return nil
}

// ReminderConfig holds reminder service configuration.
type ReminderConfig struct {
	Pagination PaginationConfig

	// MaxPreview caps how many upcoming dates a preview or calendar feed returns.
	MaxPreview int `env:"CADENCE_MAX_PREVIEW" default:"50"`
}

// LoadServerConfig loads and validates server configuration from environment.
func LoadServerConfig() (*ServerConfig, error) {
	cfg := &ServerConfig{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}

	return cfg, nil
}
