// Package logging builds the structured loggers used by Prompt Factory.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - JSON and text output with configurable levels
//   - Context-aware logging: build metadata stored in a context.Context
//     (node, seed, rule set, snapshot) is added to every record logged
//     with that context
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	if err != nil {
//	    return err
//	}
//	slog.SetDefault(logger)
//
//	ctx = logging.WithNode(ctx, "portrait")
//	logger.InfoContext(ctx, "prompt built")  // includes node=portrait
package logging
