package metrics

import (
	"fmt"
	"sync"
	"time"

	"mercator-hq/promptfactory/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Collector is the main orchestrator for all Prometheus metrics in Prompt
// Factory. It manages metric registration and provides a unified interface
// for recording metrics across all components.
//
// Every Record method is a no-op when metrics are disabled.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	buildMetrics   *BuildMetrics
	ruleMetrics    *RuleMetrics
	catalogMetrics *CatalogMetrics

	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a new registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "promptfactory",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = append([]float64(nil), config.DefaultDurationBuckets...)
	}

	c := &Collector{
		config:             cfg,
		registry:           registry,
		cardinalityLimiter: NewCardinalityLimiter(1000),
	}

	c.buildMetrics = NewBuildMetrics(cfg, registry)
	c.ruleMetrics = NewRuleMetrics(cfg, registry)
	c.catalogMetrics = NewCatalogMetrics(cfg, registry)

	return c
}

// Enabled reports whether metrics are recorded.
func (c *Collector) Enabled() bool {
	return c.config.Enabled
}

// RecordBuild records metrics for one orchestration call.
//
// Parameters:
//   - operation: "build", "rules", "compose" or "tidy"
//   - status: StatusSuccess or StatusError
//   - duration: Time spent in the call
//   - tags: Number of tags in the resulting prompt
func (c *Collector) RecordBuild(operation, status string, duration time.Duration, tags int) {
	if !c.config.Enabled {
		return
	}

	c.buildMetrics.RecordBuild(operation, status, duration, tags)
}

// RecordSampling records how many groups were visited by one build, and how
// many of them were skipped by their probability gate or drew at least one
// string.
func (c *Collector) RecordSampling(groups, skipped, drawn int) {
	if !c.config.Enabled {
		return
	}

	c.buildMetrics.RecordSampling(groups, skipped, drawn)
}

// RecordRules records one rule set application.
//
// Parameters:
//   - ruleSet: Name of the applied rule set
//   - fired: Names of the rules whose actions ran
//   - added: Number of tags added
//   - removed: Number of tags removed
func (c *Collector) RecordRules(ruleSet string, fired []string, added, removed int) {
	if !c.config.Enabled {
		return
	}

	c.ruleMetrics.RecordEvaluation(ruleSet)
	for _, rule := range fired {
		if !c.cardinalityLimiter.Allow(fmt.Sprintf("rule:%s:%s", ruleSet, rule)) {
			// Aggregate into "other" to prevent cardinality explosion
			rule = "other"
		}
		c.ruleMetrics.RecordFired(ruleSet, rule)
	}
	c.ruleMetrics.RecordTags(ruleSet, added, removed)
}

// RecordReload records one catalog load attempt. The sizes describe the
// snapshot in use after the attempt and are left unchanged when nodes is
// negative.
func (c *Collector) RecordReload(status string, duration time.Duration, nodes, ruleSets, files int) {
	if !c.config.Enabled {
		return
	}

	c.catalogMetrics.RecordReload(status, duration)
	if nodes >= 0 {
		c.catalogMetrics.UpdateSize(nodes, ruleSets, files)
	}
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label combinations per metric.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow checks if a label set is allowed. Returns true if the label set
// already exists or if we haven't reached the cardinality limit yet.
// Returns false if adding this label set would exceed the limit.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[labelSet]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
