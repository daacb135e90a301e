package catalog

import "time"

// Paths locates the inputs of a catalog.
type Paths struct {
	// NodesDir holds the node documents. It must exist.
	NodesDir string

	// VariablesFile is the global variables document. A missing file means
	// no global variables.
	VariablesFile string

	// RulesDir holds the rule documents. A missing directory means no rules.
	RulesDir string
}

// LoaderConfig controls which files the loader reads.
type LoaderConfig struct {
	MaxFileSize       int64    // bytes per document
	AllowedExtensions []string // compared case-insensitively
	FollowSymlinks    bool
	SkipHidden        bool // skip dot files and dot directories
}

// DefaultLoaderConfig reads .json, .yaml and .yml documents of up to
// 1 MiB, follows symlinks and skips hidden entries.
func DefaultLoaderConfig() *LoaderConfig {
	return &LoaderConfig{
		MaxFileSize:       1 << 20,
		AllowedExtensions: []string{".json", ".yaml", ".yml"},
		FollowSymlinks:    true,
		SkipHidden:        true,
	}
}

// FileWatcherConfig controls a FileWatcher.
type FileWatcherConfig struct {
	// Paths are files or directory trees. Missing paths are skipped.
	Paths []string

	// DebounceInterval is the quiet period before a reload.
	DebounceInterval time.Duration

	Extensions []string
	SkipHidden bool
}

// DefaultFileWatcherConfig debounces for 100ms and watches the same
// extensions the loader reads.
func DefaultFileWatcherConfig() *FileWatcherConfig {
	return &FileWatcherConfig{
		DebounceInterval: 100 * time.Millisecond,
		Extensions:       DefaultLoaderConfig().AllowedExtensions,
		SkipHidden:       true,
	}
}
