package config

import (
	"fmt"
	"sync/atomic"
)

// current is the process-wide configuration read by the CLI commands.
// Library packages take an explicit *Config instead.
var current atomic.Pointer[Config]

// GetConfig returns the global configuration, or nil before the first
// ReloadConfig or SetConfig.
func GetConfig() *Config {
	return current.Load()
}

// SetConfig replaces the global configuration.
func SetConfig(cfg *Config) {
	current.Store(cfg)
}

// ReloadConfig loads path like LoadOrDefault, lets adjust apply
// command-line overrides and swaps the result in. On failure the previous
// configuration stays in place. adjust may be nil.
func ReloadConfig(path string, adjust func(*Config)) (*Config, error) {
	cfg, err := LoadOrDefault(path)
	if err != nil {
		return nil, fmt.Errorf("failed to reload configuration: %w", err)
	}
	if adjust != nil {
		adjust(cfg)
	}
	current.Store(cfg)
	return cfg, nil
}

// MustGetConfig is GetConfig for code running after startup. It panics
// when no configuration is set.
func MustGetConfig() *Config {
	cfg := current.Load()
	if cfg == nil {
		panic("configuration not initialized: call ReloadConfig first")
	}
	return cfg
}
