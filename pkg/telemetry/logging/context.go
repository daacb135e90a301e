package logging

import (
	"context"
	"log/slog"
)

// Context keys for common log fields.
type contextKey string

const (
	// NodeKey is the context key for the node being built.
	NodeKey contextKey = "node"

	// SeedKey is the context key for the build seed.
	SeedKey contextKey = "seed"

	// RuleSetKey is the context key for the rule set being applied.
	RuleSetKey contextKey = "rule_set"

	// SnapshotKey is the context key for the catalog snapshot in use.
	SnapshotKey contextKey = "snapshot"
)

// WithNode adds a node ID to the context.
func WithNode(ctx context.Context, nodeID string) context.Context {
	return context.WithValue(ctx, NodeKey, nodeID)
}

// GetNode retrieves the node ID from the context.
func GetNode(ctx context.Context) string {
	if nodeID, ok := ctx.Value(NodeKey).(string); ok {
		return nodeID
	}
	return ""
}

// WithSeed adds a build seed to the context.
func WithSeed(ctx context.Context, seed uint64) context.Context {
	return context.WithValue(ctx, SeedKey, seed)
}

// GetSeed retrieves the build seed from the context.
func GetSeed(ctx context.Context) (uint64, bool) {
	seed, ok := ctx.Value(SeedKey).(uint64)
	return seed, ok
}

// WithRuleSet adds a rule set name to the context.
func WithRuleSet(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, RuleSetKey, name)
}

// GetRuleSet retrieves the rule set name from the context.
func GetRuleSet(ctx context.Context) string {
	if name, ok := ctx.Value(RuleSetKey).(string); ok {
		return name
	}
	return ""
}

// WithSnapshot adds a catalog snapshot version to the context.
func WithSnapshot(ctx context.Context, version string) context.Context {
	return context.WithValue(ctx, SnapshotKey, version)
}

// GetSnapshot retrieves the catalog snapshot version from the context.
func GetSnapshot(ctx context.Context) string {
	if version, ok := ctx.Value(SnapshotKey).(string); ok {
		return version
	}
	return ""
}

// extractContextFields extracts common fields from context for logging.
func extractContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}

	var attrs []slog.Attr
	if nodeID := GetNode(ctx); nodeID != "" {
		attrs = append(attrs, slog.String(string(NodeKey), nodeID))
	}
	if seed, ok := GetSeed(ctx); ok {
		attrs = append(attrs, slog.Uint64(string(SeedKey), seed))
	}
	if name := GetRuleSet(ctx); name != "" {
		attrs = append(attrs, slog.String(string(RuleSetKey), name))
	}
	if version := GetSnapshot(ctx); version != "" {
		attrs = append(attrs, slog.String(string(SnapshotKey), version))
	}
	return attrs
}

// ContextHandler is a slog.Handler that adds the context fields to every
// record before passing it to the wrapped handler.
type ContextHandler struct {
	next slog.Handler
}

// NewContextHandler wraps next.
func NewContextHandler(next slog.Handler) *ContextHandler {
	return &ContextHandler{next: next}
}

// Enabled implements slog.Handler.
func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs := extractContextFields(ctx); len(attrs) > 0 {
		r = r.Clone()
		r.AddAttrs(attrs...)
	}
	return h.next.Handle(ctx, r)
}

// WithAttrs implements slog.Handler.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{next: h.next.WithAttrs(attrs)}
}

// WithGroup implements slog.Handler.
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{next: h.next.WithGroup(name)}
}
