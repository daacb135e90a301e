package catalog

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Load(t *testing.T) {
	reg := NewRegistry(nil, validPaths("testdata/valid"), nil)

	_, err := reg.Snapshot()
	assert.Error(t, err)
	assert.Nil(t, reg.Current())

	var calls int
	reg.OnReload(func(snap *Snapshot, err error, _ time.Duration) {
		calls++
		assert.NoError(t, err)
		assert.NotNil(t, snap)
	})

	snap, err := reg.Load()
	require.NoError(t, err)
	assert.Same(t, snap, reg.Current())
	assert.Equal(t, 1, calls)

	got, err := reg.Snapshot()
	require.NoError(t, err)
	assert.Same(t, snap, got)
}

func TestRegistry_FailedReloadKeepsSnapshot(t *testing.T) {
	root := copyCatalog(t)
	reg := NewRegistry(nil, validPaths(root), nil)

	first, err := reg.Load()
	require.NoError(t, err)

	var gotErr error
	var gotSnap *Snapshot
	reg.OnReload(func(snap *Snapshot, err error, _ time.Duration) {
		gotSnap, gotErr = snap, err
	})

	writeFile(t, filepath.Join(root, "nodes", "portrait.json"), "{ broken")
	_, err = reg.Load()
	require.Error(t, err)
	assert.Same(t, first, reg.Current())
	assert.Same(t, first, gotSnap)
	assert.Equal(t, err, gotErr)

	writeFile(t, filepath.Join(root, "nodes", "portrait.json"), `{"tags": {"eyes": ["green", "brown"]}}`)
	second, err := reg.Load()
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Same(t, second, reg.Current())
	assert.Nil(t, gotErr)

	portrait, ok := second.Node("portrait")
	require.True(t, ok)
	assert.Equal(t, "eyes", portrait.Tags[0].Name)
}

func TestRegistry_ConcurrentReads(t *testing.T) {
	reg := NewRegistry(nil, validPaths("testdata/valid"), nil)
	_, err := reg.Load()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if snap := reg.Current(); snap == nil {
					t.Error("Current() returned nil")
					return
				}
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := reg.Load(); err != nil {
				t.Errorf("Load() error = %v", err)
			}
		}()
	}
	wg.Wait()
}
