// Copyright (C) 2025 Azimuth Labs (dev@azimuthlabs.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config loads the topograph service configuration from an
// optional YAML file with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/azimuthlabs/topograph/services/topology/cache"
)

// Environment variables recognized by Load. Each overrides the
// corresponding file value.
const (
	EnvSubscriptions = "TOPOGRAPH_SUBSCRIPTIONS" // comma-separated subscription IDs
	EnvCacheTTL      = "TOPOGRAPH_CACHE_TTL"     // Go duration, e.g. "5m"
	EnvPort          = "TOPOGRAPH_PORT"          // listen port
)

// Duration wraps time.Duration so YAML values like "5m" parse.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config is the topograph service configuration.
type Config struct {
	// Port is the HTTP listen port.
	Port int `yaml:"port"`

	// Subscriptions are the Azure subscription IDs whose resources are
	// loaded into the topology, in fetch order.
	Subscriptions []string `yaml:"subscriptions"`

	// CacheTTL is how long a built graph is served before a rebuild.
	CacheTTL Duration `yaml:"cache_ttl"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Port:     8080,
		CacheTTL: Duration(cache.DefaultTTL),
	}
}

// Load reads the configuration file at path (skipped when path is empty
// or the file does not exist) and applies environment overrides.
//
// # Outputs
//
//   - Config: The merged configuration.
//   - error: Non-nil if the file is unreadable/invalid or an override
//     does not parse.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Optional file; env and defaults still apply.
		case err != nil:
			return Config{}, fmt.Errorf("reading config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides file values from the process environment.
func applyEnv(cfg *Config) error {
	if v := os.Getenv(EnvSubscriptions); v != "" {
		cfg.Subscriptions = splitSubscriptions(v)
	}

	if v := os.Getenv(EnvCacheTTL); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvCacheTTL, err)
		}
		cfg.CacheTTL = Duration(ttl)
	}

	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvPort, err)
		}
		cfg.Port = port
	}

	return nil
}

// splitSubscriptions parses a comma-separated subscription list,
// trimming whitespace and dropping empty entries.
func splitSubscriptions(v string) []string {
	var subs []string
	for _, part := range strings.Split(v, ",") {
		if s := strings.TrimSpace(part); s != "" {
			subs = append(subs, s)
		}
	}
	return subs
}
