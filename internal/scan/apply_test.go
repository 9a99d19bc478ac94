package scan

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterAppliesEditAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.js")
	require.NoError(t, os.WriteFile(path, []byte("console.log(1);"), 0o644))

	w := NewWriter(DefaultWriterConfig())
	err := w.Apply(path, func(src []byte) []byte {
		return bytes.Replace(src, []byte("console.log"), []byte("console.warn"), 1)
	})
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "console.warn(1);", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var sawBackup bool
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".js" && e.Name() != "a.js" {
			sawBackup = true
		}
	}
	assert.True(t, sawBackup, "expected a backup file alongside the rewritten original")
}

func TestWriterSerializesConcurrentWritesToSamePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.js")
	require.NoError(t, os.WriteFile(path, []byte("0"), 0o644))

	w := NewWriter(DefaultWriterConfig())
	done := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			done <- w.Apply(path, func(src []byte) []byte { return []byte("1") })
		}()
	}
	for i := 0; i < 2; i++ {
		require.NoError(t, <-done)
	}

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1", string(got))
}
