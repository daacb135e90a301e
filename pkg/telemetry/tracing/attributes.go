package tracing

import (
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys use the "promptfactory.*" namespace.
const (
	AttrNode      = "promptfactory.node"
	AttrSeed      = "promptfactory.seed"
	AttrSnapshot  = "promptfactory.snapshot"
	AttrRuleSet   = "promptfactory.rule_set"
	AttrOverrides = "promptfactory.overrides"

	AttrTags          = "promptfactory.tags.count"
	AttrGroups        = "promptfactory.groups.count"
	AttrGroupsSkipped = "promptfactory.groups.skipped"
	AttrRulesFired    = "promptfactory.rules.fired"

	AttrCatalogNodes = "promptfactory.catalog.nodes"
	AttrCatalogFiles = "promptfactory.catalog.files"

	AttrErrorMessage = "error.message"
)

// SetBuildAttributes sets the inputs of a prompt build on a span. Seeds are
// recorded as decimal strings since they do not fit an int64.
//
// Example:
//
//	SetBuildAttributes(span, "portrait", 42, snap.Version())
func SetBuildAttributes(span trace.Span, node string, seed uint64, snapshot string) {
	attrs := []attribute.KeyValue{
		attribute.String(AttrSeed, strconv.FormatUint(seed, 10)),
	}
	if node != "" {
		attrs = append(attrs, attribute.String(AttrNode, node))
	}
	if snapshot != "" {
		attrs = append(attrs, attribute.String(AttrSnapshot, snapshot))
	}
	span.SetAttributes(attrs...)
}

// SetSamplingAttributes records how many groups a build visited and how
// many were skipped by their probability gate.
func SetSamplingAttributes(span trace.Span, groups, skipped int) {
	span.SetAttributes(
		attribute.Int(AttrGroups, groups),
		attribute.Int(AttrGroupsSkipped, skipped),
	)
}

// SetRuleAttributes sets rule set application attributes on a span.
func SetRuleAttributes(span trace.Span, ruleSet string, fired []string) {
	span.SetAttributes(
		attribute.String(AttrRuleSet, ruleSet),
		attribute.StringSlice(AttrRulesFired, fired),
	)
}

// SetResultAttributes records the number of tags in a produced prompt.
func SetResultAttributes(span trace.Span, tags int) {
	span.SetAttributes(attribute.Int(AttrTags, tags))
}

// AddEvent adds a named event to the span with optional attributes.
//
// Example:
//
//	AddEvent(span, "rule.fired",
//	    attribute.String("rule", "rainy"),
//	)
func AddEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// AttributeBuilder provides a fluent interface for building span attributes.
type AttributeBuilder struct {
	attrs []attribute.KeyValue
}

// NewAttributeBuilder creates a new attribute builder.
func NewAttributeBuilder() *AttributeBuilder {
	return &AttributeBuilder{
		attrs: make([]attribute.KeyValue, 0, 8),
	}
}

// WithNode adds the node ID.
func (ab *AttributeBuilder) WithNode(node string) *AttributeBuilder {
	ab.attrs = append(ab.attrs, attribute.String(AttrNode, node))
	return ab
}

// WithSeed adds the seed.
func (ab *AttributeBuilder) WithSeed(seed uint64) *AttributeBuilder {
	ab.attrs = append(ab.attrs, attribute.String(AttrSeed, strconv.FormatUint(seed, 10)))
	return ab
}

// WithRuleSet adds the rule set name.
func (ab *AttributeBuilder) WithRuleSet(set string) *AttributeBuilder {
	ab.attrs = append(ab.attrs, attribute.String(AttrRuleSet, set))
	return ab
}

// WithSnapshot adds the catalog snapshot ID.
func (ab *AttributeBuilder) WithSnapshot(snapshot string) *AttributeBuilder {
	if snapshot != "" {
		ab.attrs = append(ab.attrs, attribute.String(AttrSnapshot, snapshot))
	}
	return ab
}

// WithCustom adds a custom attribute.
func (ab *AttributeBuilder) WithCustom(key string, value any) *AttributeBuilder {
	switch v := value.(type) {
	case string:
		ab.attrs = append(ab.attrs, attribute.String(key, v))
	case int:
		ab.attrs = append(ab.attrs, attribute.Int(key, v))
	case int64:
		ab.attrs = append(ab.attrs, attribute.Int64(key, v))
	case float64:
		ab.attrs = append(ab.attrs, attribute.Float64(key, v))
	case bool:
		ab.attrs = append(ab.attrs, attribute.Bool(key, v))
	case []string:
		ab.attrs = append(ab.attrs, attribute.StringSlice(key, v))
	default:
		ab.attrs = append(ab.attrs, attribute.String(key, fmt.Sprintf("%v", v)))
	}
	return ab
}

// Build returns the built attributes as a trace.SpanStartOption.
func (ab *AttributeBuilder) Build() trace.SpanStartOption {
	return trace.WithAttributes(ab.attrs...)
}

// Apply applies the attributes to a span.
func (ab *AttributeBuilder) Apply(span trace.Span) {
	span.SetAttributes(ab.attrs...)
}

// Attributes returns the raw attribute slice.
func (ab *AttributeBuilder) Attributes() []attribute.KeyValue {
	return ab.attrs
}
