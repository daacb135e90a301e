package metrics

import (
	"time"

	"mercator-hq/promptfactory/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// BuildMetrics tracks metrics related to prompt builds.
type BuildMetrics struct {
	buildsTotal   *prometheus.CounterVec
	buildDuration *prometheus.HistogramVec
	promptTags    *prometheus.HistogramVec
	groupsTotal   *prometheus.CounterVec
}

// NewBuildMetrics creates and registers build metrics with the provided registry.
func NewBuildMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *BuildMetrics {
	bm := &BuildMetrics{
		buildsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "builds_total",
				Help:      "Total number of prompt operations",
			},
			[]string{"operation", "status"},
		),

		buildDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "build_duration_seconds",
				Help:      "Duration of prompt operations in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"operation"},
		),

		promptTags: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "prompt_tags",
				Help:      "Number of tags in produced prompts",
				Buckets:   prometheus.LinearBuckets(0, 5, 10), // 0 to 45 tags
			},
			[]string{"operation"},
		),

		groupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "groups_sampled_total",
				Help:      "Total number of tag groups visited while sampling",
			},
			[]string{"outcome"},
		),
	}

	registry.MustRegister(
		bm.buildsTotal,
		bm.buildDuration,
		bm.promptTags,
		bm.groupsTotal,
	)

	return bm
}

// RecordBuild records a completed operation.
func (bm *BuildMetrics) RecordBuild(operation, status string, duration time.Duration, tags int) {
	bm.buildsTotal.WithLabelValues(operation, status).Inc()
	bm.buildDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if status == StatusSuccess {
		bm.promptTags.WithLabelValues(operation).Observe(float64(tags))
	}
}

// RecordSampling records group outcomes. Groups neither skipped nor drawn
// produced nothing from a non-empty gate, e.g. an empty pool.
func (bm *BuildMetrics) RecordSampling(groups, skipped, drawn int) {
	if skipped > 0 {
		bm.groupsTotal.WithLabelValues("skipped").Add(float64(skipped))
	}
	if drawn > 0 {
		bm.groupsTotal.WithLabelValues("drawn").Add(float64(drawn))
	}
	if empty := groups - skipped - drawn; empty > 0 {
		bm.groupsTotal.WithLabelValues("empty").Add(float64(empty))
	}
}
