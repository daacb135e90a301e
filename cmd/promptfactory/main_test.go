package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/spf13/cobra"
)

// syncBuffer is a bytes.Buffer safe for concurrent use.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// setupGlobals points the global flags at a catalog directory and a config
// file that does not exist, so the defaults apply.
func setupGlobals(t *testing.T, catalog string) {
	t.Helper()
	cfgFile = filepath.Join(t.TempDir(), "missing.yaml")
	catalogDir = catalog
	verbose = false
	outFormat = "text"
	t.Cleanup(func() {
		cfgFile = "promptfactory.yaml"
		catalogDir = ""
		outFormat = "text"
	})
}

// testCommand returns a command capturing its output. When seed is not
// nil it is registered as the --seed flag and set to *seed.
func testCommand(t *testing.T, seedVar *uint64, seed *uint64) (*cobra.Command, *syncBuffer, *syncBuffer) {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	stdout, stderr := &syncBuffer{}, &syncBuffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetContext(context.Background())
	if seedVar != nil {
		cmd.Flags().Uint64Var(seedVar, "seed", 0, "")
		if seed != nil {
			if err := cmd.Flags().Set("seed", strconv.FormatUint(*seed, 10)); err != nil {
				t.Fatalf("failed to set seed: %v", err)
			}
		}
	}
	return cmd, stdout, stderr
}

func ptr[T any](v T) *T { return &v }
