package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// ReloadFunc is notified after every load attempt. snap is the snapshot
// in use after the attempt and err is the load error, if any.
type ReloadFunc func(snap *Snapshot, err error, elapsed time.Duration)

// Registry holds the current snapshot of a catalog. Reads are lock free;
// loads are serialized and swap the snapshot atomically.
type Registry struct {
	loader *Loader
	paths  Paths
	logger *slog.Logger

	current atomic.Pointer[Snapshot]

	mu        sync.Mutex
	listeners []ReloadFunc
}

// NewRegistry creates an empty registry. Call Load before Current.
func NewRegistry(loader *Loader, paths Paths, logger *slog.Logger) *Registry {
	if loader == nil {
		loader = NewLoader(nil, logger)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{loader: loader, paths: paths, logger: logger}
}

// OnReload registers fn to be called after every load attempt.
func (r *Registry) OnReload(fn ReloadFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// Load reads the catalog and makes it current. When loading fails the
// current snapshot, if any, is kept and the error is returned.
func (r *Registry) Load() (*Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	snap, err := r.loader.Load(r.paths)
	elapsed := time.Since(start)

	if err != nil {
		prev := r.current.Load()
		if prev != nil {
			r.logger.Error("catalog reload failed, keeping previous snapshot",
				"snapshot", prev.ID,
				"error", err,
			)
		}
		r.notify(prev, err, elapsed)
		return nil, err
	}

	r.current.Store(snap)
	r.logger.Info("catalog loaded",
		"snapshot", snap.ID,
		"nodes", len(snap.Nodes),
		"rule_sets", len(snap.Rules.Names()),
		"duration_ms", elapsed.Milliseconds(),
	)
	r.notify(snap, nil, elapsed)
	return snap, nil
}

func (r *Registry) notify(snap *Snapshot, err error, elapsed time.Duration) {
	for _, fn := range r.listeners {
		fn(snap, err, elapsed)
	}
}

// Current returns the current snapshot, or nil before the first successful
// load.
func (r *Registry) Current() *Snapshot {
	return r.current.Load()
}

// Snapshot returns the current snapshot or an error when nothing is loaded.
func (r *Registry) Snapshot() (*Snapshot, error) {
	snap := r.current.Load()
	if snap == nil {
		return nil, fmt.Errorf("catalog not loaded")
	}
	return snap, nil
}

// Paths returns the catalog inputs.
func (r *Registry) Paths() Paths {
	return r.paths
}

// Watch reloads the catalog whenever one of its inputs changes. It blocks
// until ctx is cancelled.
func (r *Registry) Watch(ctx context.Context, debounce time.Duration) error {
	config := DefaultFileWatcherConfig()
	config.Paths = []string{r.paths.NodesDir, r.paths.VariablesFile, r.paths.RulesDir}
	if debounce > 0 {
		config.DebounceInterval = debounce
	}
	config.Extensions = r.loader.config.AllowedExtensions
	config.SkipHidden = r.loader.config.SkipHidden

	fw, err := NewFileWatcher(config, r.logger)
	if err != nil {
		return err
	}
	defer func() { _ = fw.Stop() }()

	return fw.Watch(ctx, func() error {
		_, err := r.Load()
		return err
	})
}
