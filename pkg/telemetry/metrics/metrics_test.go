package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"mercator-hq/promptfactory/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// Helper function to create test config
func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:         true,
		Namespace:       "test",
		Subsystem:       "metrics",
		DurationBuckets: []float64{0.001, 0.01, 0.1, 1.0},
	}
}

func TestCollector_NewCollector(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()

	collector := NewCollector(cfg, registry)

	if collector == nil {
		t.Fatal("Expected non-nil collector")
	}
	if collector.config != cfg {
		t.Error("Collector config not set correctly")
	}
	if collector.Registry() != registry {
		t.Error("Collector registry not set correctly")
	}
}

func TestCollector_Defaults(t *testing.T) {
	cfg := &config.MetricsConfig{Enabled: true}
	collector := NewCollector(cfg, nil)

	if collector.Registry() == nil {
		t.Fatal("Expected a registry to be created")
	}
	if cfg.Namespace != config.DefaultMetricsNamespace {
		t.Errorf("Namespace = %q, want %q", cfg.Namespace, config.DefaultMetricsNamespace)
	}
	if len(cfg.DurationBuckets) == 0 {
		t.Error("Expected default duration buckets")
	}
}

func TestCollector_RecordBuild(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	tests := []struct {
		name      string
		operation string
		status    string
		duration  time.Duration
		tags      int
	}{
		{"successful build", "build", StatusSuccess, 2 * time.Millisecond, 7},
		{"failed build", "build", StatusError, 100 * time.Microsecond, 0},
		{"compose", "compose", StatusSuccess, time.Millisecond, 3},
		{"tidy", "tidy", StatusSuccess, 10 * time.Microsecond, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collector.RecordBuild(tt.operation, tt.status, tt.duration, tt.tags)

			count := testutil.ToFloat64(collector.buildMetrics.buildsTotal.WithLabelValues(tt.operation, tt.status))
			if count < 1 {
				t.Errorf("Expected builds_total{%s,%s} >= 1, got %f", tt.operation, tt.status, count)
			}
		})
	}

	if got := testutil.ToFloat64(collector.buildMetrics.buildsTotal.WithLabelValues("build", StatusSuccess)); got != 1 {
		t.Errorf("Expected 1 successful build, got %f", got)
	}

	// failed builds are not observed in the tag histogram
	if got := testutil.CollectAndCount(collector.buildMetrics.promptTags); got != 3 {
		t.Errorf("Expected 3 prompt_tags series, got %d", got)
	}
	if got := testutil.CollectAndCount(collector.buildMetrics.buildDuration); got != 3 {
		t.Errorf("Expected 3 build_duration series, got %d", got)
	}
}

func TestCollector_RecordSampling(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.RecordSampling(10, 3, 6)
	collector.RecordSampling(2, 0, 2)

	groups := collector.buildMetrics.groupsTotal
	if got := testutil.ToFloat64(groups.WithLabelValues("skipped")); got != 3 {
		t.Errorf("Expected 3 skipped groups, got %f", got)
	}
	if got := testutil.ToFloat64(groups.WithLabelValues("drawn")); got != 8 {
		t.Errorf("Expected 8 drawn groups, got %f", got)
	}
	if got := testutil.ToFloat64(groups.WithLabelValues("empty")); got != 1 {
		t.Errorf("Expected 1 empty group, got %f", got)
	}
}

func TestCollector_RuleMetrics(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.RecordRules("weather", []string{"rainy", "sunny"}, 3, 1)
	collector.RecordRules("weather", []string{"rainy"}, 1, 0)
	collector.RecordRules("makeup", nil, 0, 0)

	rm := collector.ruleMetrics
	if got := testutil.ToFloat64(rm.evaluationsTotal.WithLabelValues("weather")); got != 2 {
		t.Errorf("Expected 2 weather evaluations, got %f", got)
	}
	if got := testutil.ToFloat64(rm.evaluationsTotal.WithLabelValues("makeup")); got != 1 {
		t.Errorf("Expected 1 makeup evaluation, got %f", got)
	}
	if got := testutil.ToFloat64(rm.firedTotal.WithLabelValues("weather", "rainy")); got != 2 {
		t.Errorf("Expected rainy to fire twice, got %f", got)
	}
	if got := testutil.ToFloat64(rm.tagsTotal.WithLabelValues("weather", "add")); got != 4 {
		t.Errorf("Expected 4 added tags, got %f", got)
	}
	if got := testutil.ToFloat64(rm.tagsTotal.WithLabelValues("weather", "remove")); got != 1 {
		t.Errorf("Expected 1 removed tag, got %f", got)
	}
	if got := testutil.CollectAndCount(rm.tagsTotal); got != 2 {
		t.Errorf("Expected 2 rule_tags series, got %d", got)
	}
}

func TestCollector_RuleCardinality(t *testing.T) {
	collector := NewCollector(testConfig(), nil)
	collector.cardinalityLimiter = NewCardinalityLimiter(2)

	collector.RecordRules("s", []string{"a", "b", "c", "d"}, 0, 0)

	fired := collector.ruleMetrics.firedTotal
	if got := testutil.ToFloat64(fired.WithLabelValues("s", "other")); got != 2 {
		t.Errorf("Expected 2 rules aggregated into other, got %f", got)
	}
	if got := testutil.CollectAndCount(fired); got != 3 {
		t.Errorf("Expected 3 rules_fired series, got %d", got)
	}
}

func TestCollector_CatalogMetrics(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	collector.RecordReload(StatusSuccess, 5*time.Millisecond, 4, 2, 7)
	collector.RecordReload(StatusError, time.Millisecond, -1, 0, 0)

	cm := collector.catalogMetrics
	if got := testutil.ToFloat64(cm.reloadsTotal.WithLabelValues(StatusSuccess)); got != 1 {
		t.Errorf("Expected 1 successful reload, got %f", got)
	}
	if got := testutil.ToFloat64(cm.reloadsTotal.WithLabelValues(StatusError)); got != 1 {
		t.Errorf("Expected 1 failed reload, got %f", got)
	}

	// sizes are kept from the last good snapshot
	if got := testutil.ToFloat64(cm.nodes); got != 4 {
		t.Errorf("Expected 4 nodes, got %f", got)
	}
	if got := testutil.ToFloat64(cm.ruleSets); got != 2 {
		t.Errorf("Expected 2 rule sets, got %f", got)
	}
	if got := testutil.ToFloat64(cm.files); got != 7 {
		t.Errorf("Expected 7 files, got %f", got)
	}
	if got := testutil.ToFloat64(cm.lastReload); got <= 0 {
		t.Errorf("Expected last reload timestamp, got %f", got)
	}
}

func TestCollector_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	collector := NewCollector(cfg, nil)

	collector.RecordBuild("build", StatusSuccess, time.Millisecond, 3)
	collector.RecordSampling(3, 1, 2)
	collector.RecordRules("s", []string{"r"}, 1, 1)
	collector.RecordReload(StatusSuccess, time.Millisecond, 1, 1, 1)

	if collector.Enabled() {
		t.Error("Expected collector to be disabled")
	}
	if got := testutil.ToFloat64(collector.buildMetrics.buildsTotal.WithLabelValues("build", StatusSuccess)); got != 0 {
		t.Errorf("Expected no builds recorded when disabled, got %f", got)
	}
	if got := testutil.CollectAndCount(collector.ruleMetrics.firedTotal); got != 0 {
		t.Errorf("Expected no rule series when disabled, got %d", got)
	}

	path := filepath.Join(t.TempDir(), "metrics.prom")
	if err := collector.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected no textfile when disabled")
	}
}

func TestCollector_WriteTextfile(t *testing.T) {
	collector := NewCollector(testConfig(), nil)
	collector.RecordBuild("build", StatusSuccess, time.Millisecond, 5)
	collector.RecordRules("weather", []string{"rainy"}, 1, 0)

	path := filepath.Join(t.TempDir(), "nested", "promptfactory.prom")
	if err := collector.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read textfile: %v", err)
	}
	text := string(data)
	for _, want := range []string{
		`test_metrics_builds_total{operation="build",status="success"} 1`,
		`test_metrics_rules_fired_total{rule="rainy",rule_set="weather"} 1`,
		"# TYPE test_metrics_build_duration_seconds histogram",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("textfile missing %q", want)
		}
	}

	// an empty path is a no-op
	if err := collector.WriteTextfile(""); err != nil {
		t.Errorf("WriteTextfile(\"\") error = %v", err)
	}
}

func TestCardinalityLimiter(t *testing.T) {
	limiter := NewCardinalityLimiter(3)

	if !limiter.Allow("label1") {
		t.Error("Expected label1 to be allowed")
	}
	if !limiter.Allow("label2") {
		t.Error("Expected label2 to be allowed")
	}
	if !limiter.Allow("label3") {
		t.Error("Expected label3 to be allowed")
	}

	// Should reject new label
	if limiter.Allow("label4") {
		t.Error("Expected label4 to be rejected (limit reached)")
	}

	// Should allow existing labels
	if !limiter.Allow("label1") {
		t.Error("Expected existing label1 to be allowed")
	}

	if limiter.Count() != 3 {
		t.Errorf("Expected count 3, got %d", limiter.Count())
	}
}

func TestCollector_ConcurrentRecording(t *testing.T) {
	collector := NewCollector(testConfig(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			collector.RecordBuild("build", StatusSuccess, time.Millisecond, i%10)
			collector.RecordRules("set", []string{fmt.Sprintf("rule-%d", i%5)}, 1, 0)
		}(i)
	}
	wg.Wait()

	if got := testutil.ToFloat64(collector.buildMetrics.buildsTotal.WithLabelValues("build", StatusSuccess)); got != 50 {
		t.Errorf("Expected 50 builds, got %f", got)
	}
	if got := testutil.ToFloat64(collector.ruleMetrics.evaluationsTotal.WithLabelValues("set")); got != 50 {
		t.Errorf("Expected 50 evaluations, got %f", got)
	}
}
