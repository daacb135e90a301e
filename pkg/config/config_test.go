package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "promptfactory.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
catalog:
  nodes_dir: "prompts/nodes"
  rules_dir: "prompts/rules"
  watch: true
  debounce: "250ms"

build:
  seed: 42
  rule_set: all

telemetry:
  logging:
    level: "debug"
    format: "json"
  metrics:
    enabled: true
    textfile: "/tmp/promptfactory.prom"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Catalog.NodesDir != "prompts/nodes" {
		t.Errorf("expected nodes dir %q, got %q", "prompts/nodes", cfg.Catalog.NodesDir)
	}
	if cfg.Catalog.VariablesFile != DefaultVariablesFile {
		t.Errorf("expected default variables file %q, got %q", DefaultVariablesFile, cfg.Catalog.VariablesFile)
	}
	if !cfg.Catalog.Watch || cfg.Catalog.Debounce != 250*time.Millisecond {
		t.Errorf("expected watch with 250ms debounce, got %v/%v", cfg.Catalog.Watch, cfg.Catalog.Debounce)
	}
	if cfg.Build.Seed != 42 || cfg.Build.RuleSet != "all" {
		t.Errorf("unexpected build config: %+v", cfg.Build)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("expected logging level %q, got %q", "debug", cfg.Telemetry.Logging.Level)
	}
	if cfg.Telemetry.Metrics.Namespace != DefaultMetricsNamespace {
		t.Errorf("expected default namespace, got %q", cfg.Telemetry.Metrics.Namespace)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		isValid bool
	}{
		{name: "malformed yaml", content: "catalog: [unclosed"},
		{name: "unknown key", content: "catalog:\n  nodes_directory: x\n"},
		{name: "invalid level", content: "telemetry:\n  logging:\n    level: loud\n", isValid: true},
		{name: "invalid exporter", content: "telemetry:\n  tracing:\n    exporter: otlp\n", isValid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var verr ValidationError
			if got := errors.As(err, &verr); got != tt.isValid {
				t.Errorf("errors.As(ValidationError) = %v, want %v (%v)", got, tt.isValid, err)
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadConfig_EmptyFile(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("failed to load empty config: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("empty file should yield defaults (-want +got):\n%s", diff)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, "catalog:\n  nodes_dir: from-file\n")

	t.Setenv("PROMPTFACTORY_CATALOG_NODES_DIR", "from-env")
	t.Setenv("PROMPTFACTORY_CATALOG_EXTENSIONS", ".json, .yaml")
	t.Setenv("PROMPTFACTORY_CATALOG_WATCH", "true")
	t.Setenv("PROMPTFACTORY_CATALOG_DEBOUNCE", "1s")
	t.Setenv("PROMPTFACTORY_BUILD_SEED", "7")
	t.Setenv("PROMPTFACTORY_TELEMETRY_TRACING_SAMPLE_RATIO", "0.25")
	t.Setenv("PROMPTFACTORY_TELEMETRY_METRICS_ENABLED", "not-a-bool")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Catalog.NodesDir != "from-env" {
		t.Errorf("expected env override, got %q", cfg.Catalog.NodesDir)
	}
	if diff := cmp.Diff([]string{".json", ".yaml"}, cfg.Catalog.Extensions); diff != "" {
		t.Errorf("extensions mismatch (-want +got):\n%s", diff)
	}
	if !cfg.Catalog.Watch || cfg.Catalog.Debounce != time.Second {
		t.Errorf("expected watch with 1s debounce, got %v/%v", cfg.Catalog.Watch, cfg.Catalog.Debounce)
	}
	if cfg.Build.Seed != 7 {
		t.Errorf("expected seed 7, got %d", cfg.Build.Seed)
	}
	if cfg.Telemetry.Tracing.SampleRatio != 0.25 {
		t.Errorf("expected sample ratio 0.25, got %v", cfg.Telemetry.Tracing.SampleRatio)
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("unparsable override should be ignored")
	}
}

func TestLoadConfigWithEnvOverrides_Invalid(t *testing.T) {
	path := writeConfig(t, "")
	t.Setenv("PROMPTFACTORY_TELEMETRY_LOGGING_FORMAT", "xml")

	_, err := LoadConfigWithEnvOverrides(path)
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestLoadOrDefault(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Catalog.NodesDir != DefaultNodesDir {
			t.Errorf("expected default nodes dir, got %q", cfg.Catalog.NodesDir)
		}
	})

	t.Run("empty path with env", func(t *testing.T) {
		t.Setenv("PROMPTFACTORY_BUILD_RULE_SET", "weather")
		cfg, err := LoadOrDefault("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Build.RuleSet != "weather" {
			t.Errorf("expected env rule set, got %q", cfg.Build.RuleSet)
		}
	})

	t.Run("existing file", func(t *testing.T) {
		cfg, err := LoadOrDefault(writeConfig(t, "build:\n  seed: 3\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Build.Seed != 3 {
			t.Errorf("expected seed 3, got %d", cfg.Build.Seed)
		}
	})
}
