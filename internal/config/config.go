// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

// Package config provides layered configuration loading via Koanf v2.
//
// Configuration sources, lowest to highest priority:
//  1. Built-in defaults
//  2. Config file (config.yaml, or the path in FORMGATE_CONFIG)
//  3. Environment variables (FORMGATE_ prefix, __ as section separator,
//     e.g. FORMGATE_SERVER__PORT=8080 -> server.port)
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration structure.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	CORS      CORSConfig      `koanf:"cors"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Storage   StorageConfig   `koanf:"storage"`
	Upload    UploadConfig    `koanf:"upload"`
	Token     TokenConfig     `koanf:"token"`
	Audit     AuditConfig     `koanf:"audit"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	MaxBodyBytes    int64         `koanf:"max_body_bytes"`
}

// CORSConfig holds cross-origin settings for the browser frontends.
type CORSConfig struct {
	AllowedOrigins   []string `koanf:"allowed_origins"`
	AllowedMethods   []string `koanf:"allowed_methods"`
	AllowedHeaders   []string `koanf:"allowed_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           int      `koanf:"max_age"`
}

// RateLimitConfig holds per-client request limits.
type RateLimitConfig struct {
	// Requests allowed per window for submission endpoints.
	SubmitRequests int           `koanf:"submit_requests"`
	SubmitWindow   time.Duration `koanf:"submit_window"`

	// Requests allowed per window for read endpoints.
	ReadRequests int           `koanf:"read_requests"`
	ReadWindow   time.Duration `koanf:"read_window"`

	Disabled bool `koanf:"disabled"`
}

// StorageConfig holds document store settings.
type StorageConfig struct {
	// Path is the BadgerDB data directory.
	Path string `koanf:"path"`

	// InMemory runs the store without persistence. Tests only.
	InMemory bool `koanf:"in_memory"`
}

// UploadConfig holds file upload limits.
type UploadConfig struct {
	MaxSizeMB int `koanf:"max_size_mb"`

	// MaxProductImages caps the multi-file "files" field.
	MaxProductImages int `koanf:"max_product_images"`
}

// TokenConfig holds submission-token settings.
type TokenConfig struct {
	MinLength  int           `koanf:"min_length"`
	SessionTTL time.Duration `koanf:"session_ttl"`
}

// AuditConfig holds audit logger settings.
type AuditConfig struct {
	Enabled       bool `koanf:"enabled"`
	BufferSize    int  `koanf:"buffer_size"`
	RetentionDays int  `koanf:"retention_days"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// defaultConfig returns a Config with all default values. Defaults are applied
// first, then overridden by the config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8480,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    32 << 20, // multipart submissions carry files
		},
		CORS: CORSConfig{
			AllowedOrigins:   []string{}, // empty by default, requires explicit configuration
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           86400,
		},
		RateLimit: RateLimitConfig{
			SubmitRequests: 20,
			SubmitWindow:   time.Minute,
			ReadRequests:   300,
			ReadWindow:     time.Minute,
			Disabled:       false,
		},
		Storage: StorageConfig{
			Path:     "/data/formgate",
			InMemory: false,
		},
		Upload: UploadConfig{
			MaxSizeMB:        10,
			MaxProductImages: 3,
		},
		Token: TokenConfig{
			MinLength:  5,
			SessionTTL: 24 * time.Hour,
		},
		Audit: AuditConfig{
			Enabled:       true,
			BufferSize:    1000,
			RetentionDays: 90,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks the configuration for values that would misbehave at runtime.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive, got %d", c.Server.MaxBodyBytes)
	}
	if !c.RateLimit.Disabled {
		if c.RateLimit.SubmitRequests <= 0 {
			return fmt.Errorf("rate_limit.submit_requests must be positive, got %d", c.RateLimit.SubmitRequests)
		}
		if c.RateLimit.ReadRequests <= 0 {
			return fmt.Errorf("rate_limit.read_requests must be positive, got %d", c.RateLimit.ReadRequests)
		}
	}
	if c.Storage.Path == "" && !c.Storage.InMemory {
		return fmt.Errorf("storage.path is required unless storage.in_memory is set")
	}
	if c.Upload.MaxSizeMB <= 0 {
		return fmt.Errorf("upload.max_size_mb must be positive, got %d", c.Upload.MaxSizeMB)
	}
	if c.Upload.MaxProductImages <= 0 {
		return fmt.Errorf("upload.max_product_images must be positive, got %d", c.Upload.MaxProductImages)
	}
	if c.Token.MinLength < 1 {
		return fmt.Errorf("token.min_length must be at least 1, got %d", c.Token.MinLength)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
