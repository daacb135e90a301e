package metrics

import (
	"time"

	"mercator-hq/promptfactory/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// CatalogMetrics tracks catalog loading.
type CatalogMetrics struct {
	reloadsTotal   *prometheus.CounterVec
	reloadDuration prometheus.Histogram
	lastReload     prometheus.Gauge
	nodes          prometheus.Gauge
	ruleSets       prometheus.Gauge
	files          prometheus.Gauge
}

// NewCatalogMetrics creates and registers catalog metrics with the provided registry.
func NewCatalogMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CatalogMetrics {
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      name,
			Help:      help,
		})
	}

	cm := &CatalogMetrics{
		reloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "catalog_reloads_total",
				Help:      "Total number of catalog load attempts",
			},
			[]string{"status"},
		),

		reloadDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "catalog_reload_duration_seconds",
				Help:      "Duration of catalog loads in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to 1s
			},
		),

		lastReload: gauge("catalog_last_reload_timestamp_seconds", "Time of the last successful catalog load"),
		nodes:      gauge("catalog_nodes", "Number of nodes in the current catalog"),
		ruleSets:   gauge("catalog_rule_sets", "Number of rule sets in the current catalog"),
		files:      gauge("catalog_files", "Number of documents in the current catalog"),
	}

	registry.MustRegister(
		cm.reloadsTotal,
		cm.reloadDuration,
		cm.lastReload,
		cm.nodes,
		cm.ruleSets,
		cm.files,
	)

	return cm
}

// RecordReload records a load attempt.
func (cm *CatalogMetrics) RecordReload(status string, duration time.Duration) {
	cm.reloadsTotal.WithLabelValues(status).Inc()
	cm.reloadDuration.Observe(duration.Seconds())
	if status == StatusSuccess {
		cm.lastReload.SetToCurrentTime()
	}
}

// UpdateSize records the size of the current catalog.
func (cm *CatalogMetrics) UpdateSize(nodes, ruleSets, files int) {
	cm.nodes.Set(float64(nodes))
	cm.ruleSets.Set(float64(ruleSets))
	cm.files.Set(float64(files))
}
