package prompt

import (
	"context"
	"time"

	"mercator-hq/promptfactory/pkg/rules"
	"mercator-hq/promptfactory/pkg/sampling"
	"mercator-hq/promptfactory/pkg/telemetry/logging"
	"mercator-hq/promptfactory/pkg/telemetry/tracing"
)

// ApplyRules applies the named rule set to a prompt. rules.AllSets applies
// every loaded rule as one composite rule.
func (b *Builder) ApplyRules(ctx context.Context, prompt, ruleSet string, seed uint64) (string, error) {
	res, err := b.ApplyRulesWithReport(ctx, prompt, ruleSet, seed)
	if err != nil {
		return "", err
	}
	return res.Prompt, nil
}

// ApplyRulesWithReport is ApplyRules and also reports which rules fired.
func (b *Builder) ApplyRulesWithReport(ctx context.Context, prompt, ruleSet string, seed uint64) (res *RulesResult, err error) {
	start := time.Now()
	ctx, span := b.tracer.Start(ctx, "prompt.rules")
	defer func() {
		tags := 0
		if res != nil {
			tags = len(sampling.Split(res.Prompt))
		}
		b.finish(span, OpRules, start, tags, err)
	}()

	snap, err := b.source.Snapshot()
	if err != nil {
		return nil, err
	}
	tracing.SetBuildAttributes(span, "", seed, snap.Version())
	ctx = logging.WithRuleSet(logging.WithSeed(ctx, seed), ruleSet)

	engine := rules.NewEngine(snap.Rules, snap.Querier(), b.logger)
	tags, report, err := engine.Apply(sampling.New(seed), sampling.Split(prompt), ruleSet)
	if err != nil {
		return nil, err
	}

	fired := make([]string, 0, len(report.Fired))
	added, removed := 0, 0
	for _, f := range report.Fired {
		fired = append(fired, f.Rule)
		added += len(f.Added)
		removed += len(f.Removed)
	}
	b.metrics.RecordRules(report.Set, fired, added, removed)
	tracing.SetRuleAttributes(span, report.Set, fired)

	b.logger.DebugContext(ctx, "rules applied",
		"evaluated", report.Evaluated,
		"fired", len(fired),
		"added", added,
		"removed", removed,
	)

	return &RulesResult{
		Prompt:   sampling.Stringify(tags, ", "),
		Report:   report,
		Snapshot: snap.Version(),
	}, nil
}
