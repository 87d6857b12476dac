package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence.
func LoadConfig(configPath string) (*AdminAPIConfig, error) {
	v := viper.New()

	// Set defaults matching DefaultAdminAPIConfig
	v.SetDefault("admin_api.host", "0.0.0.0")
	v.SetDefault("admin_api.port", 8086)
	v.SetDefault("admin_api.request_timeout", "30s")
	v.SetDefault("admin_api.body_limit", 1<<20)
	v.SetDefault("admin_api.max_reorder_size", 500)

	// Bind environment variables with SW_ prefix
	v.SetEnvPrefix("SW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Security check: reject credentials in config files
	// Database URLs carry passwords and must come from flags or environment
	if err := validateNoSecretsInConfig(v); err != nil {
		return nil, err
	}

	cfg := &AdminAPIConfig{
		Host:           v.GetString("admin_api.host"),
		Port:           v.GetInt("admin_api.port"),
		RequestTimeout: v.GetDuration("admin_api.request_timeout"),
		BodyLimit:      v.GetInt("admin_api.body_limit"),
		MaxReorderSize: v.GetInt("admin_api.max_reorder_size"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateNoSecretsInConfig rejects config files that carry credentials.
func validateNoSecretsInConfig(v *viper.Viper) error {
	if v.IsSet("db_url") || v.IsSet("admin_api.db_url") {
		return fmt.Errorf("database URLs not allowed in config files (use the --db-url flag or SW_DB_URL environment variable)")
	}
	return nil
}
