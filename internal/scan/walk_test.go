package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/morfx/internal/lang"
	"github.com/oxhq/morfx/providers/javascript"
)

func newTestRegistry(t *testing.T) *lang.Registry {
	t.Helper()
	r := lang.NewRegistry()
	require.NoError(t, r.Register(javascript.New()))
	return r
}

func TestWalkDiscoversMatchingFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.js"), []byte("console.log(1);"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.txt"), []byte("not js"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "vendor"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "vendor", "c.js"), []byte("console.log(2);"), 0o644))

	w := NewWalker(newTestRegistry(t))
	results, err := w.Walk(context.Background(), Scope{Path: root, Exclude: []string{"**/vendor/**"}})
	require.NoError(t, err)

	var paths []string
	for r := range results {
		require.NoError(t, r.Error)
		paths = append(paths, filepath.Base(r.Path))
		if filepath.Base(r.Path) == "a.js" {
			assert.Equal(t, "javascript", r.Language)
		}
	}
	assert.Contains(t, paths, "a.js")
	assert.Contains(t, paths, "b.txt")
	assert.NotContains(t, paths, "c.js")
}

func TestWalkRespectsMaxFiles(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(root, string(rune('a'+i))+".js"), []byte("x"), 0o644))
	}

	w := NewWalker(newTestRegistry(t))
	results, err := w.Walk(context.Background(), Scope{Path: root, MaxFiles: 2})
	require.NoError(t, err)

	count := 0
	for range results {
		count++
	}
	assert.LessOrEqual(t, count, 2)
}

func TestWalkRejectsNonDirectory(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "f.js")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	w := NewWalker(newTestRegistry(t))
	_, err := w.Walk(context.Background(), Scope{Path: file})
	assert.Error(t, err)
}
