package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	// Clean environment
	os.Unsetenv("SW_ADMIN_API_HOST")
	os.Unsetenv("SW_ADMIN_API_PORT")

	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.Host != "0.0.0.0" {
			t.Errorf("expected host 0.0.0.0, got %s", cfg.Host)
		}
		if cfg.Port != 8086 {
			t.Errorf("expected port 8086, got %d", cfg.Port)
		}
		if cfg.RequestTimeout != 30*time.Second {
			t.Errorf("expected timeout 30s, got %v", cfg.RequestTimeout)
		}
		if cfg.BodyLimit != 1<<20 {
			t.Errorf("expected body_limit %d, got %d", 1<<20, cfg.BodyLimit)
		}
		if cfg.MaxReorderSize != 500 {
			t.Errorf("expected max_reorder_size 500, got %d", cfg.MaxReorderSize)
		}
	})

	t.Run("environment override", func(t *testing.T) {
		os.Setenv("SW_ADMIN_API_PORT", "9999")
		os.Setenv("SW_ADMIN_API_HOST", "127.0.0.1")
		defer os.Unsetenv("SW_ADMIN_API_PORT")
		defer os.Unsetenv("SW_ADMIN_API_HOST")

		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.Port != 9999 {
			t.Errorf("expected port 9999, got %d", cfg.Port)
		}
		if cfg.Host != "127.0.0.1" {
			t.Errorf("expected host 127.0.0.1, got %s", cfg.Host)
		}
	})

	t.Run("invalid port range", func(t *testing.T) {
		os.Setenv("SW_ADMIN_API_PORT", "70000")
		defer os.Unsetenv("SW_ADMIN_API_PORT")

		_, err := LoadConfig("")
		if err == nil {
			t.Error("expected error for port > 65535")
		}
	})

	t.Run("invalid negative values", func(t *testing.T) {
		os.Setenv("SW_ADMIN_API_MAX_REORDER_SIZE", "-1")
		defer os.Unsetenv("SW_ADMIN_API_MAX_REORDER_SIZE")

		_, err := LoadConfig("")
		if err == nil {
			t.Error("expected error for negative max_reorder_size")
		}
	})

	t.Run("missing config file", func(t *testing.T) {
		_, err := LoadConfig("/nonexistent/config.yaml")
		if err == nil {
			t.Error("expected error for missing config file")
		}
	})
}
