// Package config provides configuration management for survey wizard services.
package config

import (
	"fmt"
	"time"
)

// AdminAPIConfig holds configuration for the admin wizard JSON API.
type AdminAPIConfig struct {
	Host           string
	Port           int
	RequestTimeout time.Duration
	BodyLimit      int
	MaxReorderSize int
}

// DefaultAdminAPIConfig returns configuration with default values.
func DefaultAdminAPIConfig() *AdminAPIConfig {
	return &AdminAPIConfig{
		Host:           "0.0.0.0",
		Port:           8086,
		RequestTimeout: 30 * time.Second,
		BodyLimit:      1 << 20,
		MaxReorderSize: 500,
	}
}

// Validate checks port range and positive values for timeout and limits.
func (cfg *AdminAPIConfig) Validate() error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", cfg.Port)
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %v", cfg.RequestTimeout)
	}
	if cfg.BodyLimit <= 0 {
		return fmt.Errorf("body_limit must be positive, got %d", cfg.BodyLimit)
	}
	if cfg.MaxReorderSize <= 0 {
		return fmt.Errorf("max_reorder_size must be positive, got %d", cfg.MaxReorderSize)
	}
	return nil
}
