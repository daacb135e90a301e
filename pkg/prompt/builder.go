package prompt

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"mercator-hq/promptfactory/pkg/override"
	"mercator-hq/promptfactory/pkg/sampling"
	"mercator-hq/promptfactory/pkg/telemetry/logging"
	"mercator-hq/promptfactory/pkg/telemetry/metrics"
	"mercator-hq/promptfactory/pkg/telemetry/tracing"
	"mercator-hq/promptfactory/pkg/variables"
)

// Builder runs prompt operations against the current catalog snapshot.
// It holds no per-call state and is safe for concurrent use.
type Builder struct {
	source  Source
	logger  *slog.Logger
	metrics Recorder
	tracer  *tracing.Tracer
	sampler *sampling.Engine
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(r Recorder) Option {
	return func(b *Builder) {
		if r != nil {
			b.metrics = r
		}
	}
}

// WithTracer sets the tracer.
func WithTracer(t *tracing.Tracer) Option {
	return func(b *Builder) {
		if t != nil {
			b.tracer = t
		}
	}
}

// NewBuilder creates a builder over source.
func NewBuilder(source Source, opts ...Option) *Builder {
	b := &Builder{
		source:  source,
		logger:  slog.Default(),
		metrics: noopRecorder{},
		tracer:  tracing.Noop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.sampler = sampling.NewEngine(b.logger)
	return b
}

// BuildPrompt builds the prompt of one node. overrides may be nil.
func (b *Builder) BuildPrompt(ctx context.Context, nodeID string, seed uint64, overrides override.Overrides) (string, error) {
	res, err := b.Build(ctx, nodeID, seed, overrides)
	if err != nil {
		return "", err
	}
	return res.Prompt, nil
}

// Build builds the prompt of one node and reports how it was produced.
//
// The random stream is consumed in a fixed order: every top-level tag is
// sampled in declaration order, then the fixed variables are resolved, then
// non-fixed variables are sampled as their placeholders are expanded.
func (b *Builder) Build(ctx context.Context, nodeID string, seed uint64, overrides override.Overrides) (res *Result, err error) {
	start := time.Now()
	ctx, span := b.tracer.Start(ctx, "prompt.build")
	defer func() {
		tags := 0
		if res != nil {
			tags = len(sampling.Split(res.Prompt))
		}
		b.finish(span, OpBuild, start, tags, err)
	}()

	snap, err := b.source.Snapshot()
	if err != nil {
		return nil, err
	}
	tracing.SetBuildAttributes(span, nodeID, seed, snap.Version())
	ctx = logging.WithSnapshot(logging.WithSeed(logging.WithNode(ctx, nodeID), seed), snap.Version())

	node, ok := snap.Node(nodeID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNode, nodeID)
	}

	entries, err := override.Resolve(node.Tags, overrides)
	if err != nil {
		return nil, &BuildError{Node: nodeID, Cause: err}
	}

	rng := sampling.New(seed)
	res = &Result{
		Node:     nodeID,
		Seed:     seed,
		Tags:     make([]Tag, 0, len(entries)),
		Snapshot: snap.Version(),
	}

	for _, e := range entries {
		text, stats, err := b.sampler.Select(rng, e.Spec)
		res.Stats.Add(stats)
		if err != nil {
			return nil, &BuildError{Node: nodeID, Tag: e.Name, Cause: err}
		}
		res.Tags = append(res.Tags, Tag{Name: e.Name, Value: text})
	}

	scope, err := variables.NewResolver(snap.Globals, snap.Tags, b.logger).Build(rng, node.Variables)
	if err != nil {
		return nil, &BuildError{Node: nodeID, Cause: err}
	}

	values := make([]string, len(res.Tags))
	for i := range res.Tags {
		text, err := scope.Expand(res.Tags[i].Value)
		if err != nil {
			return nil, &BuildError{Node: nodeID, Tag: res.Tags[i].Name, Cause: err}
		}
		res.Tags[i].Value = text
		values[i] = text
	}

	res.Prompt = sampling.Stringify(values, ", ")
	res.Duration = time.Since(start)

	b.metrics.RecordSampling(res.Stats.Groups, res.Stats.Skipped, res.Stats.Drawn)
	tracing.SetSamplingAttributes(span, res.Stats.Groups, res.Stats.Skipped)

	b.logger.DebugContext(ctx, "prompt built",
		"tags", len(res.Tags),
		"groups", res.Stats.Groups,
		"skipped", res.Stats.Skipped,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

// Nodes lists the nodes of the current snapshot in ID order. Hidden nodes
// are included only when all is true.
func (b *Builder) Nodes(all bool) ([]NodeInfo, error) {
	snap, err := b.source.Snapshot()
	if err != nil {
		return nil, err
	}

	nodes := snap.Nodes
	if !all {
		nodes = snap.Visible()
	}

	out := make([]NodeInfo, 0, len(nodes))
	for _, n := range nodes {
		info := NodeInfo{ID: n.ID, Name: n.DisplayName(), Hide: n.Hide}
		for _, e := range n.Tags {
			info.Tags = append(info.Tags, e.Name)
		}
		for _, v := range n.Variables {
			info.Variables = append(info.Variables, v.Name)
		}
		out = append(out, info)
	}
	return out, nil
}

// finish records the metrics of one operation and ends its span.
func (b *Builder) finish(span trace.Span, op string, start time.Time, tags int, err error) {
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	} else {
		tracing.SetResultAttributes(span, tags)
	}
	b.metrics.RecordBuild(op, status, time.Since(start), tags)
	tracing.End(span, err)
}
