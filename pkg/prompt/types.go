package prompt

import (
	"time"

	"mercator-hq/promptfactory/pkg/catalog"
	"mercator-hq/promptfactory/pkg/rules"
	"mercator-hq/promptfactory/pkg/sampling"
)

// Operation names used in metrics and spans.
const (
	OpBuild   = "build"
	OpRules   = "rules"
	OpCompose = "compose"
	OpTidy    = "tidy"
)

// Source provides the catalog snapshot a call works on. *catalog.Registry
// implements it.
type Source interface {
	Snapshot() (*catalog.Snapshot, error)
}

// Recorder receives operation metrics. *metrics.Collector implements it.
type Recorder interface {
	RecordBuild(operation, status string, duration time.Duration, tags int)
	RecordSampling(groups, skipped, drawn int)
	RecordRules(ruleSet string, fired []string, added, removed int)
}

// Tag is the value produced for one top-level tag of a node.
type Tag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Result is the outcome of one build.
type Result struct {
	Node   string `json:"node"`
	Seed   uint64 `json:"seed"`
	Prompt string `json:"prompt"`

	// Tags holds the expanded value of every tag in declaration order,
	// empty values included.
	Tags []Tag `json:"tags"`

	Stats    sampling.Stats `json:"stats"`
	Snapshot string         `json:"snapshot"`
	Duration time.Duration  `json:"duration"`
}

// RulesResult is the outcome of one rule set application.
type RulesResult struct {
	Prompt   string        `json:"prompt"`
	Report   *rules.Report `json:"report"`
	Snapshot string        `json:"snapshot"`
}

// NodeInfo describes a node for listings.
type NodeInfo struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Hide      bool     `json:"hide,omitempty"`
	Tags      []string `json:"tags"`
	Variables []string `json:"variables,omitempty"`
}

type noopRecorder struct{}

func (noopRecorder) RecordBuild(string, string, time.Duration, int) {}
func (noopRecorder) RecordSampling(int, int, int)                   {}
func (noopRecorder) RecordRules(string, []string, int, int)         {}
