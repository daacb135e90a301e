package config

import "time"

// Config is the root configuration structure for Prompt Factory.
// It locates the catalog documents and configures telemetry.
type Config struct {
	// Catalog locates the node, variable and rule documents and controls
	// how they are loaded and watched.
	Catalog CatalogConfig `yaml:"catalog"`

	// Build contains defaults applied to every prompt build.
	Build BuildConfig `yaml:"build"`

	// Telemetry contains configuration for observability including logging,
	// metrics, and tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// CatalogConfig contains configuration for the catalog loader.
type CatalogConfig struct {
	// NodesDir is the directory holding node documents, one node per file.
	// Default: "config/nodes"
	NodesDir string `yaml:"nodes_dir"`

	// VariablesFile is the global variables document. A missing file means
	// no global variables.
	// Default: "config/variables.json"
	VariablesFile string `yaml:"variables_file"`

	// RulesDir is the directory holding rule documents, one rule set per
	// file. A missing directory means no rules.
	// Default: "config/rules"
	RulesDir string `yaml:"rules_dir"`

	// MaxFileSize is the maximum size of a single document in bytes.
	// Default: 1048576 (1MB)
	MaxFileSize int64 `yaml:"max_file_size"`

	// Extensions lists the document file extensions.
	// Default: [".json", ".yaml", ".yml"]
	Extensions []string `yaml:"extensions"`

	// Watch enables reloading the catalog when its files change.
	// Default: false
	Watch bool `yaml:"watch"`

	// Debounce is the quiet period after a file change before reloading.
	// Default: 100ms
	Debounce time.Duration `yaml:"debounce"`
}

// BuildConfig contains defaults for prompt builds.
type BuildConfig struct {
	// Seed is used when a command is given no seed.
	// Default: 0
	Seed uint64 `yaml:"seed"`

	// RuleSet is applied after every build when set. Use "all" for the
	// composite of every rule set.
	// Default: "" (no rules)
	RuleSet string `yaml:"rule_set"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix.
	// Default: "promptfactory"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "" (none)
	Subsystem string `yaml:"subsystem"`

	// Textfile is the path metrics are written to in the Prometheus text
	// format when a command exits, for collection by the node exporter
	// textfile collector. Empty disables the export.
	Textfile string `yaml:"textfile"`

	// DurationBuckets defines histogram buckets for build duration (seconds).
	// Default: [0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5]
	DurationBuckets []float64 `yaml:"duration_buckets"`
}

// TracingConfig contains tracing configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "always"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Only used when Sampler is "ratio".
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Exporter determines the span exporter.
	// Options: "stdout", "none"
	// Default: "stdout"
	Exporter string `yaml:"exporter"`

	// Output is the file spans are written to by the stdout exporter.
	// Empty writes to standard error.
	Output string `yaml:"output"`

	// PrettyPrint indents exported spans.
	// Default: false
	PrettyPrint bool `yaml:"pretty_print"`

	// ServiceName is the service name in traces.
	// Default: "promptfactory"
	ServiceName string `yaml:"service_name"`
}
