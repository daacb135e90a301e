// Package catalog loads node, variable and rule documents into immutable
// snapshots.
//
// # Layout
//
// A catalog is made of three inputs:
//
//	nodes/            one node document per file, any depth
//	  portrait.json   node ID "portrait"
//	  scenes/sky.yaml node ID "sky"
//	variables.json    global variables (optional)
//	rules/            one rule set per file, set name = file base name
//
// Documents may be JSON (.json) or YAML (.yaml, .yml).
//
// # Loading
//
// Loading is all or nothing: any unreadable or invalid document fails the
// whole load with an error wrapping tagspec.ErrConfig, and no snapshot is
// built. Files are checked for size and UTF-8 encoding before parsing.
// Hidden files are skipped and symbolic link loops are detected.
//
// # Registry and hot reload
//
// Registry holds the current snapshot and swaps it atomically on reload.
// Builds take a snapshot once and keep using it, so a reload never changes
// data under a running build. A failed reload keeps the previous snapshot.
// FileWatcher triggers debounced reloads on file changes.
package catalog
