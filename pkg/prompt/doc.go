// Package prompt orchestrates prompt generation over a loaded catalog.
//
// A Builder reads the current catalog snapshot from a Source and exposes
// the four operations a host calls:
//
//   - Build and BuildPrompt sample one node into a prompt: overrides are
//     resolved into an effective tag tree, every tag is sampled, variable
//     placeholders are expanded and the values are joined with ", ".
//   - ApplyRules post-processes a prompt with a rule set.
//   - Compose expands a free-form template against the global variables,
//     the variables of every node and the node tags.
//   - Tidy removes duplicate tags and reorders them.
//
// Every operation is a pure function of its inputs and the snapshot: the
// seed fully determines the random stream, and nothing in the snapshot is
// modified, so a Builder may serve concurrent calls.
//
// Example:
//
//	registry := catalog.NewRegistry(nil, paths, logger)
//	if _, err := registry.Load(); err != nil {
//		return err
//	}
//
//	builder := prompt.NewBuilder(registry,
//		prompt.WithLogger(logger),
//		prompt.WithMetrics(collector),
//		prompt.WithTracer(tracer),
//	)
//	text, err := builder.BuildPrompt(ctx, "portrait", 42, nil)
package prompt
