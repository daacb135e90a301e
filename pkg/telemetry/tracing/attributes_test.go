package tracing

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestSetBuildAttributes(t *testing.T) {
	tracer, sr := recordingTracer(t)

	_, span := tracer.Start(context.Background(), "prompt.build")
	SetBuildAttributes(span, "portrait", 18446744073709551615, "snap-1")
	SetSamplingAttributes(span, 5, 2)
	SetResultAttributes(span, 7)
	span.End()

	attrs := attrMap(sr.Ended()[0].Attributes())
	if got := attrs[AttrNode].AsString(); got != "portrait" {
		t.Errorf("node = %q, want portrait", got)
	}
	if got := attrs[AttrSeed].AsString(); got != "18446744073709551615" {
		t.Errorf("seed = %q", got)
	}
	if got := attrs[AttrSnapshot].AsString(); got != "snap-1" {
		t.Errorf("snapshot = %q", got)
	}
	if got := attrs[AttrGroups].AsInt64(); got != 5 {
		t.Errorf("groups = %d, want 5", got)
	}
	if got := attrs[AttrGroupsSkipped].AsInt64(); got != 2 {
		t.Errorf("groups skipped = %d, want 2", got)
	}
	if got := attrs[AttrTags].AsInt64(); got != 7 {
		t.Errorf("tags = %d, want 7", got)
	}
}

func TestSetBuildAttributes_OmitsEmpty(t *testing.T) {
	tracer, sr := recordingTracer(t)

	_, span := tracer.Start(context.Background(), "prompt.compose")
	SetBuildAttributes(span, "", 1, "")
	span.End()

	attrs := attrMap(sr.Ended()[0].Attributes())
	if _, ok := attrs[AttrNode]; ok {
		t.Error("Expected no node attribute")
	}
	if _, ok := attrs[AttrSnapshot]; ok {
		t.Error("Expected no snapshot attribute")
	}
	if _, ok := attrs[AttrSeed]; !ok {
		t.Error("Expected seed attribute")
	}
}

func TestSetRuleAttributes(t *testing.T) {
	tracer, sr := recordingTracer(t)

	_, span := tracer.Start(context.Background(), "prompt.rules")
	SetRuleAttributes(span, "weather", []string{"rainy", "windy"})
	AddEvent(span, "rule.fired", attribute.String("rule", "rainy"))
	span.End()

	ended := sr.Ended()[0]
	attrs := attrMap(ended.Attributes())
	if got := attrs[AttrRuleSet].AsString(); got != "weather" {
		t.Errorf("rule set = %q", got)
	}
	fired := attrs[AttrRulesFired].AsStringSlice()
	if len(fired) != 2 || fired[0] != "rainy" || fired[1] != "windy" {
		t.Errorf("rules fired = %v", fired)
	}
	if len(ended.Events()) != 1 || ended.Events()[0].Name != "rule.fired" {
		t.Errorf("Expected rule.fired event, got %v", ended.Events())
	}
}

func TestAttributeBuilder(t *testing.T) {
	builder := NewAttributeBuilder().
		WithNode("portrait").
		WithSeed(7).
		WithRuleSet("weather").
		WithSnapshot("").
		WithCustom("custom.string", "x").
		WithCustom("custom.int", 3).
		WithCustom("custom.int64", int64(4)).
		WithCustom("custom.float", 0.5).
		WithCustom("custom.bool", true).
		WithCustom("custom.slice", []string{"a"}).
		WithCustom("custom.other", struct{ A int }{1})

	attrs := attrMap(builder.Attributes())
	if len(attrs) != 10 {
		t.Fatalf("Expected 10 attributes, got %d", len(attrs))
	}
	if attrs[AttrSeed].AsString() != "7" {
		t.Errorf("seed = %q", attrs[AttrSeed].AsString())
	}
	if attrs["custom.float"].AsFloat64() != 0.5 {
		t.Error("Unexpected float attribute")
	}
	if attrs["custom.other"].AsString() != "{1}" {
		t.Errorf("Unexpected fallback attribute %q", attrs["custom.other"].AsString())
	}

	tracer, sr := recordingTracer(t)
	_, span := tracer.Start(context.Background(), "with-options", builder.Build())
	span.End()
	_, span = tracer.Start(context.Background(), "applied")
	builder.Apply(span)
	span.End()

	for _, s := range sr.Ended() {
		if got := attrMap(s.Attributes())[AttrNode].AsString(); got != "portrait" {
			t.Errorf("%s: node = %q", s.Name(), got)
		}
	}
}
