package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher reloads a catalog when its documents change. Bursts of
// events are coalesced into one reload per quiet period.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	config   *FileWatcherConfig
	debounce *Debouncer

	// Single files are watched through their parent directory, so editors
	// that save by renaming keep being seen.
	files map[string]bool
	trees []string
	dirs  []string

	mu        sync.Mutex
	running   bool
	stopCh    chan struct{}
	doneCh    chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// NewFileWatcher creates a watcher. A nil config uses
// DefaultFileWatcherConfig and a nil logger uses slog.Default().
func NewFileWatcher(config *FileWatcherConfig, logger *slog.Logger) (*FileWatcher, error) {
	if config == nil {
		config = DefaultFileWatcherConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	return &FileWatcher{
		watcher:  w,
		logger:   logger,
		config:   config,
		debounce: NewDebouncer(config.DebounceInterval),
		files:    make(map[string]bool),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Watch calls onReload after every burst of relevant changes. It blocks
// until ctx is cancelled or Stop is called. A FileWatcher runs once.
func (fw *FileWatcher) Watch(ctx context.Context, onReload func() error) error {
	fw.mu.Lock()
	if fw.running {
		fw.mu.Unlock()
		return errors.New("watcher already running")
	}
	fw.running = true
	fw.mu.Unlock()

	defer func() {
		fw.mu.Lock()
		fw.running = false
		fw.mu.Unlock()
		close(fw.doneCh)
	}()

	for _, p := range fw.config.Paths {
		if err := fw.addPath(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
	}
	if len(fw.dirs) == 0 {
		return fmt.Errorf("no existing path to watch in %v", fw.config.Paths)
	}

	fw.logger.Info("watching catalog",
		"dirs", len(fw.dirs),
		"debounce_ms", fw.config.DebounceInterval.Milliseconds(),
	)

	reload := func() {
		if err := onReload(); err != nil {
			fw.logger.Error("catalog reload failed", "error", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			fw.logger.Info("catalog watch stopped", "reason", ctx.Err())
			return nil

		case <-fw.stopCh:
			fw.logger.Info("catalog watch stopped")
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if event.Has(fsnotify.Create) {
				fw.watchNewDirectory(event.Name)
			}
			if !fw.relevant(event) {
				continue
			}
			fw.logger.Debug("catalog file changed", "path", event.Name, "op", event.Op.String())
			fw.debounce.Trigger(reload)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			fw.logger.Warn("file watcher error", "error", err)
		}
	}
}

// Stop ends Watch and releases the underlying watcher. It may be called
// more than once, before or after Watch.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	running := fw.running
	fw.mu.Unlock()

	if running {
		select {
		case <-fw.stopCh:
		default:
			close(fw.stopCh)
		}
		<-fw.doneCh
	}

	fw.closeOnce.Do(func() {
		fw.debounce.Stop()
		if err := fw.watcher.Close(); err != nil {
			fw.closeErr = fmt.Errorf("close watcher: %w", err)
		}
	})
	return fw.closeErr
}

// addPath watches a file or a directory tree. Missing paths are skipped.
func (fw *FileWatcher) addPath(path string) error {
	if path == "" {
		return nil
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		fw.logger.Debug("skipping missing catalog path", "path", path)
		return nil
	}
	if err != nil {
		return err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		fw.files[abs] = true
		return fw.watchDir(filepath.Dir(abs))
	}

	fw.trees = append(fw.trees, abs)
	return fw.addTree(path)
}

// addTree watches dir and every directory below it.
func (fw *FileWatcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		switch {
		case err != nil:
			return err
		case !d.IsDir():
			return nil
		case path != dir && fw.hidden(path):
			return filepath.SkipDir
		}
		return fw.watchDir(path)
	})
}

func (fw *FileWatcher) watchDir(dir string) error {
	if slices.Contains(fw.dirs, dir) {
		return nil
	}
	if err := fw.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch directory %q: %w", dir, err)
	}
	fw.dirs = append(fw.dirs, dir)
	return nil
}

// watchNewDirectory extends the watch to a directory created inside a
// watched tree.
func (fw *FileWatcher) watchNewDirectory(path string) {
	if info, err := os.Stat(path); err != nil || !info.IsDir() || fw.hidden(path) {
		return
	}
	if err := fw.addTree(path); err != nil {
		fw.logger.Warn("cannot watch new directory", "path", path, "error", err)
	}
}

func (fw *FileWatcher) hidden(path string) bool {
	return fw.config.SkipHidden && strings.HasPrefix(filepath.Base(path), ".")
}

// relevant reports whether event concerns a catalog document.
func (fw *FileWatcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod || fw.hidden(event.Name) {
		return false
	}

	ext := strings.ToLower(filepath.Ext(event.Name))
	if !slices.ContainsFunc(fw.config.Extensions, func(e string) bool { return strings.ToLower(e) == ext }) {
		return false
	}

	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	if fw.files[abs] {
		return true
	}
	return slices.ContainsFunc(fw.trees, func(root string) bool {
		return strings.HasPrefix(abs, root+string(filepath.Separator))
	})
}

// Debouncer runs the last function passed to Trigger once no further
// Trigger call has arrived for the interval.
type Debouncer struct {
	interval time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	stopped bool
}

// NewDebouncer creates a debouncer with the given quiet period.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{interval: interval}
}

// Trigger schedules fn, replacing any pending function.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}

	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		current := gen == d.gen && !d.stopped
		d.mu.Unlock()
		if current {
			fn()
		}
	})
}

// Stop cancels the pending function and ignores later triggers.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
