package config

import "fmt"

// PaginationConfig holds pagination configuration.
type PaginationConfig struct {
	DefaultPageSize int `env:"CADENCE_DEFAULT_PAGE_SIZE" default:"25"`
	MaxPageSize     int `env:"CADENCE_MAX_PAGE_SIZE" default:"100"`
}

// Validate validates pagination configuration.
func (c *PaginationConfig) Validate() error {
	if c.DefaultPageSize < 1 {
		return fmt.Errorf("CADENCE_DEFAULT_PAGE_SIZE must be positive, got %d", c.DefaultPageSize)
	}
	if c.MaxPageSize < c.DefaultPageSize {
		return fmt.Errorf("CADENCE_MAX_PAGE_SIZE (%d) must be >= CADENCE_DEFAULT_PAGE_SIZE (%d)", c.MaxPageSize, c.DefaultPageSize)
	}
	return nil
}
