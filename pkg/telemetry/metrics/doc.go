// Package metrics provides Prometheus metrics collection for Prompt Factory.
//
// # Overview
//
// The collector tracks prompt builds, rule evaluations and catalog reloads
// in a private Prometheus registry. Prompt Factory runs as a command rather
// than a server, so metrics are not scraped: they are written in the
// Prometheus text format to a file picked up by the node exporter textfile
// collector (see Collector.WriteTextfile).
//
// # Metrics
//
//   - promptfactory_builds_total{operation,status}
//   - promptfactory_build_duration_seconds{operation}
//   - promptfactory_prompt_tags{operation}
//   - promptfactory_groups_sampled_total{outcome}
//   - promptfactory_rule_evaluations_total{rule_set}
//   - promptfactory_rules_fired_total{rule_set,rule}
//   - promptfactory_rule_tags_total{rule_set,action}
//   - promptfactory_catalog_reloads_total{status}
//   - promptfactory_catalog_reload_duration_seconds
//   - promptfactory_catalog_nodes, promptfactory_catalog_rule_sets,
//     promptfactory_catalog_files
//
// # Cardinality
//
// Rule names come from user documents. A CardinalityLimiter caps the number
// of distinct (rule_set, rule) pairs; the excess is reported as rule="other".
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordBuild("build", "success", elapsed, 12)
//	if err := collector.WriteTextfile(cfg.Telemetry.Metrics.Textfile); err != nil {
//	    return err
//	}
package metrics
