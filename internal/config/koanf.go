// Formgate - Form Submission Gateway for the Enjaz Enterprise Support Portal
// Copyright 2026 Enjaz Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/enjaz-platform/formgate

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// envPrefix namespaces all Formgate environment variables.
	envPrefix = "FORMGATE_"

	// configPathEnv selects an explicit config file path.
	configPathEnv = "FORMGATE_CONFIG"
)

// defaultConfigPaths are checked in order when FORMGATE_CONFIG is unset.
var defaultConfigPaths = []string{
	"config.yaml",
	"config/config.yaml",
	"/etc/formgate/config.yaml",
}

// sliceFields lists dot-delimited keys whose env values are comma-separated
// lists. Environment variables are flat strings, so these are split before
// unmarshaling into []string fields.
var sliceFields = []string{
	"cors.allowed_origins",
	"cors.allowed_methods",
	"cors.allowed_headers",
}

// Load builds the configuration by layering defaults, an optional YAML file,
// and environment variables, then validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	processSliceFields(k)

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the config file path to load, or "" when no file
// exists. An explicit FORMGATE_CONFIG that points at a missing file is an
// operator error, but it is surfaced by file.Provider during Load.
func findConfigFile() string {
	if path := os.Getenv(configPathEnv); path != "" {
		return path
	}
	for _, path := range defaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransform maps FORMGATE_SERVER__PORT to server.port. The double
// underscore separates sections so single underscores survive inside key
// names like rate_limit and max_size_mb.
func envTransform(key string) string {
	key = strings.TrimPrefix(key, envPrefix)
	if key == "CONFIG" {
		// FORMGATE_CONFIG selects the file path, it is not a config key.
		return ""
	}
	key = strings.ToLower(key)
	return strings.ReplaceAll(key, "__", ".")
}

// processSliceFields splits comma-separated string values into string slices
// for keys that unmarshal into []string.
func processSliceFields(k *koanf.Koanf) {
	for _, field := range sliceFields {
		raw, ok := k.Get(field).(string)
		if !ok {
			continue
		}
		parts := strings.Split(raw, ",")
		values := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				values = append(values, p)
			}
		}
		_ = k.Set(field, values)
	}
}
