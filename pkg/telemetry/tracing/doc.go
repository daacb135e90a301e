// Package tracing provides OpenTelemetry tracing for Prompt Factory.
//
// # Overview
//
// Every orchestration call (build, rules, compose, tidy) and every catalog
// load opens a span. Spans carry the node ID, seed, rule set and catalog
// snapshot they worked on, so a single prompt can be traced back to the
// documents and random stream that produced it.
//
// # Exporters
//
//   - stdout: spans are written as JSON to a file or to the writer given
//     to New (stderr for the command line)
//   - none: spans are created but never exported
//
// # Sampling Strategies
//
// Three sampling strategies are supported:
//   - always: Sample all traces
//   - never: Sample no traces
//   - ratio: Sample a percentage of traces
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, os.Stderr)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "prompt.build")
//	defer span.End()
//
//	tracing.SetBuildAttributes(span, "portrait", 42, snapshotID)
//
// When tracing is disabled a noop tracer is returned and spans cost close
// to nothing.
package tracing
