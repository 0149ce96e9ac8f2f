// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// ============================================================================
// Defaults
// ============================================================================

func TestLoadDefaults(t *testing.T) {
	chdirEmpty(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8480 {
		t.Errorf("Server.Port = %d, want 8480", cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want 10s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Upload.MaxSizeMB != 10 {
		t.Errorf("Upload.MaxSizeMB = %d, want 10", cfg.Upload.MaxSizeMB)
	}
	if cfg.Upload.MaxProductImages != 3 {
		t.Errorf("Upload.MaxProductImages = %d, want 3", cfg.Upload.MaxProductImages)
	}
	if cfg.Token.MinLength != 5 {
		t.Errorf("Token.MinLength = %d, want 5", cfg.Token.MinLength)
	}
	if len(cfg.CORS.AllowedOrigins) != 0 {
		t.Errorf("CORS.AllowedOrigins = %v, want empty", cfg.CORS.AllowedOrigins)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want json", cfg.Logging.Format)
	}
}

// ============================================================================
// Environment overrides
// ============================================================================

func TestLoadEnvOverrides(t *testing.T) {
	chdirEmpty(t)
	t.Setenv("FORMGATE_SERVER__PORT", "9000")
	t.Setenv("FORMGATE_LOGGING__LEVEL", "debug")
	t.Setenv("FORMGATE_RATE_LIMIT__SUBMIT_REQUESTS", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.RateLimit.SubmitRequests != 5 {
		t.Errorf("RateLimit.SubmitRequests = %d, want 5", cfg.RateLimit.SubmitRequests)
	}
}

func TestLoadEnvSliceFields(t *testing.T) {
	chdirEmpty(t)
	t.Setenv("FORMGATE_CORS__ALLOWED_ORIGINS", "https://portal.enjaz.sa, https://staging.enjaz.sa")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := []string{"https://portal.enjaz.sa", "https://staging.enjaz.sa"}
	if len(cfg.CORS.AllowedOrigins) != len(want) {
		t.Fatalf("AllowedOrigins = %v, want %v", cfg.CORS.AllowedOrigins, want)
	}
	for i := range want {
		if cfg.CORS.AllowedOrigins[i] != want[i] {
			t.Errorf("AllowedOrigins[%d] = %q, want %q", i, cfg.CORS.AllowedOrigins[i], want[i])
		}
	}
}

// ============================================================================
// Config file
// ============================================================================

func TestLoadConfigFile(t *testing.T) {
	dir := chdirEmpty(t)
	path := filepath.Join(dir, "custom.yaml")
	content := "server:\n  port: 8081\nstorage:\n  path: /tmp/formgate-test\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	t.Setenv("FORMGATE_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8081 {
		t.Errorf("Server.Port = %d, want 8081", cfg.Server.Port)
	}
	if cfg.Storage.Path != "/tmp/formgate-test" {
		t.Errorf("Storage.Path = %q, want /tmp/formgate-test", cfg.Storage.Path)
	}
	// Untouched sections keep defaults.
	if cfg.Upload.MaxSizeMB != 10 {
		t.Errorf("Upload.MaxSizeMB = %d, want 10", cfg.Upload.MaxSizeMB)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := chdirEmpty(t)
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 8081\n"), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	t.Setenv("FORMGATE_CONFIG", path)
	t.Setenv("FORMGATE_SERVER__PORT", "8082")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8082 {
		t.Errorf("Server.Port = %d, want 8082 (env over file)", cfg.Server.Port)
	}
}

// ============================================================================
// Validation
// ============================================================================

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, true},
		{"zero submit rate", func(c *Config) { c.RateLimit.SubmitRequests = 0 }, true},
		{"zero rate but disabled", func(c *Config) {
			c.RateLimit.SubmitRequests = 0
			c.RateLimit.Disabled = true
		}, false},
		{"empty storage path", func(c *Config) { c.Storage.Path = "" }, true},
		{"empty path in memory", func(c *Config) {
			c.Storage.Path = ""
			c.Storage.InMemory = true
		}, false},
		{"zero upload size", func(c *Config) { c.Upload.MaxSizeMB = 0 }, true},
		{"zero token length", func(c *Config) { c.Token.MinLength = 0 }, true},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// ============================================================================
// Helpers
// ============================================================================

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"FORMGATE_SERVER__PORT", "server.port"},
		{"FORMGATE_RATE_LIMIT__SUBMIT_WINDOW", "rate_limit.submit_window"},
		{"FORMGATE_CORS__ALLOWED_ORIGINS", "cors.allowed_origins"},
		{"FORMGATE_CONFIG", ""},
	}
	for _, tt := range tests {
		if got := envTransform(tt.in); got != tt.want {
			t.Errorf("envTransform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// chdirEmpty moves the test into an empty temp dir so a developer's local
// config.yaml cannot leak into default-path discovery.
func chdirEmpty(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}
