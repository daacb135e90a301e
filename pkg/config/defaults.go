package config

import "time"

// Default values for configuration fields.
const (
	// Catalog defaults
	DefaultNodesDir      = "config/nodes"
	DefaultVariablesFile = "config/variables.json"
	DefaultRulesDir      = "config/rules"
	DefaultMaxFileSize   = int64(1024 * 1024) // 1MB
	DefaultDebounce      = 100 * time.Millisecond

	// Telemetry defaults
	DefaultLoggingLevel       = "info"
	DefaultLoggingFormat      = "text"
	DefaultMetricsNamespace   = "promptfactory"
	DefaultTracingSampler     = "always"
	DefaultTracingSampleRatio = 1.0
	DefaultTracingExporter    = "stdout"
	DefaultServiceName        = "promptfactory"
)

// DefaultExtensions lists the document extensions read by default.
var DefaultExtensions = []string{".json", ".yaml", ".yml"}

// DefaultDurationBuckets are tuned for builds that take microseconds to a
// few milliseconds.
var DefaultDurationBuckets = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults applies default values to any unset configuration fields.
// Fields that are already set are not modified.
func ApplyDefaults(cfg *Config) {
	// Catalog defaults
	if cfg.Catalog.NodesDir == "" {
		cfg.Catalog.NodesDir = DefaultNodesDir
	}
	if cfg.Catalog.VariablesFile == "" {
		cfg.Catalog.VariablesFile = DefaultVariablesFile
	}
	if cfg.Catalog.RulesDir == "" {
		cfg.Catalog.RulesDir = DefaultRulesDir
	}
	if cfg.Catalog.MaxFileSize == 0 {
		cfg.Catalog.MaxFileSize = DefaultMaxFileSize
	}
	if len(cfg.Catalog.Extensions) == 0 {
		cfg.Catalog.Extensions = append([]string(nil), DefaultExtensions...)
	}
	if cfg.Catalog.Debounce == 0 {
		cfg.Catalog.Debounce = DefaultDebounce
	}

	// Logging defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}

	// Metrics defaults
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if len(cfg.Telemetry.Metrics.DurationBuckets) == 0 {
		cfg.Telemetry.Metrics.DurationBuckets = append([]float64(nil), DefaultDurationBuckets...)
	}

	// Tracing defaults
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Telemetry.Tracing.Exporter == "" {
		cfg.Telemetry.Tracing.Exporter = DefaultTracingExporter
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultServiceName
	}
}
