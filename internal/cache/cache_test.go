package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreAndLookupRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "scan.db")
	c, err := Open(dbPath)
	require.NoError(t, err)
	defer c.Close()

	fileHash := HashFile([]byte("console.log(1);"))
	ruleSetHash := HashRuleSet([]string{"no-console-log", "prefer-const"})

	_, found, err := c.Lookup(fileHash, ruleSetHash)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Store(fileHash, ruleSetHash, `[{"rule":"no-console-log"}]`))

	got, found, err := c.Lookup(fileHash, ruleSetHash)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, `[{"rule":"no-console-log"}]`, got)
}

func TestHashRuleSetIsOrderIndependent(t *testing.T) {
	a := HashRuleSet([]string{"a", "b", "c"})
	b := HashRuleSet([]string{"c", "a", "b"})
	assert.Equal(t, a, b)
}

func TestStoreOverwritesPriorEntry(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "scan.db")
	c, err := Open(dbPath)
	require.NoError(t, err)
	defer c.Close()

	fileHash := HashFile([]byte("x"))
	ruleSetHash := HashRuleSet([]string{"r1"})

	require.NoError(t, c.Store(fileHash, ruleSetHash, "old"))
	require.NoError(t, c.Store(fileHash, ruleSetHash, "new"))

	got, found, err := c.Lookup(fileHash, ruleSetHash)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "new", got)
}
