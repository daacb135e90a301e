package prompt

import (
	"context"
	"time"

	"mercator-hq/promptfactory/pkg/sampling"
	"mercator-hq/promptfactory/pkg/tagspec"
	"mercator-hq/promptfactory/pkg/telemetry/logging"
	"mercator-hq/promptfactory/pkg/telemetry/tracing"
	"mercator-hq/promptfactory/pkg/variables"
)

// Compose expands the placeholders of a free-form template. Names resolve
// against, in order of precedence: the variables of every node (a later
// node ID wins over an earlier one), the global variables, then the tags
// of every node sampled as if their probability were 1. Hidden nodes take
// part. Unknown placeholders are left as they are.
//
// The template itself is returned as expanded; it is not cleaned up.
func (b *Builder) Compose(ctx context.Context, template string, seed uint64) (out string, err error) {
	start := time.Now()
	ctx, span := b.tracer.Start(ctx, "prompt.compose")
	defer func() {
		b.finish(span, OpCompose, start, len(sampling.Split(out)), err)
	}()

	snap, err := b.source.Snapshot()
	if err != nil {
		return "", err
	}
	tracing.SetBuildAttributes(span, "", seed, snap.Version())
	ctx = logging.WithSnapshot(logging.WithSeed(ctx, seed), snap.Version())

	var locals []tagspec.NamedVariable
	for _, n := range snap.Nodes {
		locals = append(locals, n.Variables...)
	}

	rng := sampling.New(seed)
	scope, err := variables.NewResolver(snap.Globals, snap.Tags, b.logger).Build(rng, locals)
	if err != nil {
		return "", err
	}

	out, err = scope.Expand(template)
	if err != nil {
		return "", err
	}

	b.logger.DebugContext(ctx, "template composed",
		"variables", scope.Table().Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}
