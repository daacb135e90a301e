package metrics

import (
	"mercator-hq/promptfactory/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// RuleMetrics tracks metrics related to rule set application.
//
// Metrics:
//   - promptfactory_rule_evaluations_total: Rule set applications by set
//   - promptfactory_rules_fired_total: Number of times a rule ran its actions
//   - promptfactory_rule_tags_total: Tags added or removed by rules
type RuleMetrics struct {
	evaluationsTotal *prometheus.CounterVec
	firedTotal       *prometheus.CounterVec
	tagsTotal        *prometheus.CounterVec
}

// NewRuleMetrics creates and registers rule metrics with the provided registry.
func NewRuleMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RuleMetrics {
	rm := &RuleMetrics{
		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rule_evaluations_total",
				Help:      "Total number of rule set applications",
			},
			[]string{"rule_set"},
		),

		firedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rules_fired_total",
				Help:      "Total number of rules whose trigger matched",
			},
			[]string{"rule_set", "rule"},
		),

		tagsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rule_tags_total",
				Help:      "Total number of tags added or removed by rules",
			},
			[]string{"rule_set", "action"},
		),
	}

	registry.MustRegister(
		rm.evaluationsTotal,
		rm.firedTotal,
		rm.tagsTotal,
	)

	return rm
}

// RecordEvaluation records one application of a rule set.
func (rm *RuleMetrics) RecordEvaluation(ruleSet string) {
	rm.evaluationsTotal.WithLabelValues(ruleSet).Inc()
}

// RecordFired records a rule whose trigger matched.
func (rm *RuleMetrics) RecordFired(ruleSet, rule string) {
	rm.firedTotal.WithLabelValues(ruleSet, rule).Inc()
}

// RecordTags records tags changed by a rule set application.
func (rm *RuleMetrics) RecordTags(ruleSet string, added, removed int) {
	if added > 0 {
		rm.tagsTotal.WithLabelValues(ruleSet, "add").Add(float64(added))
	}
	if removed > 0 {
		rm.tagsTotal.WithLabelValues(ruleSet, "remove").Add(float64(removed))
	}
}
