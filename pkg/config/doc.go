// Package config provides configuration management for Prompt Factory.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides.
//
// # Configuration Loading
//
// Configuration can be loaded in three ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("promptfactory.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("promptfactory.yaml")
//
//  3. From an optional file, falling back to the defaults:
//     cfg, err := config.LoadOrDefault("promptfactory.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention PROMPTFACTORY_SECTION_FIELD.
// For example:
//
//   - PROMPTFACTORY_CATALOG_NODES_DIR overrides catalog.nodes_dir
//   - PROMPTFACTORY_BUILD_RULE_SET overrides build.rule_set
//   - PROMPTFACTORY_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Singleton Pattern
//
// The CLI publishes its configuration with ReloadConfig, passing a function
// that applies command-line flags, and reads it back with MustGetConfig.
// watch calls ReloadConfig again whenever the file changes:
//
//	cfg, err := config.ReloadConfig("promptfactory.yaml", applyFlags)
//	if err != nil {
//	    return err
//	}
//	seed := config.MustGetConfig().Build.Seed
//
// Library code takes an explicit *Config instead.
package config
