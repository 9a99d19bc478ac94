package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/morfx/internal/cache"
	"github.com/oxhq/morfx/internal/rule"
)

func newConsoleLogRule(t *testing.T) (*rule.Collection, *rule.GlobalRules) {
	t.Helper()
	registry := newTestRegistry(t)
	globals := rule.NewGlobalRules()
	collection := rule.NewCollection(globals)

	doc := []byte(`
id: no-console-log
language: javascript
rule:
  pattern: console.log($A)
message: avoid console.log
severity: warning
fix:
  - title: use console.warn
    template: console.warn($A)
`)
	cfg, err := rule.Decode(doc, registry, globals)
	require.NoError(t, err)
	require.NoError(t, collection.Add(cfg))
	require.NoError(t, collection.Link())
	return collection, globals
}

func TestScannerFindsMatchesAcrossFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.js"), []byte("console.log(1);\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.js"), []byte("console.warn(2);\n"), 0o644))

	registry := newTestRegistry(t)
	collection, _ := newConsoleLogRule(t)
	scanner := NewScanner(registry, collection, nil)

	findings, err := scanner.Run(context.Background(), Scope{Path: root})
	require.NoError(t, err)

	var got []Finding
	for f := range findings {
		got = append(got, f)
	}
	require.Len(t, got, 1)
	assert.Equal(t, "no-console-log", got[0].RuleID)
	assert.Equal(t, filepath.Join(root, "a.js"), got[0].Path)
	assert.Equal(t, "console.warn(1)", got[0].FixApplied)
}

func TestScannerSkipsFilesMissingFixedString(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "clean.js"), []byte("const x = 1;\n"), 0o644))

	registry := newTestRegistry(t)
	collection, _ := newConsoleLogRule(t)
	scanner := NewScanner(registry, collection, nil)

	findings, err := scanner.Run(context.Background(), Scope{Path: root})
	require.NoError(t, err)

	count := 0
	for range findings {
		count++
	}
	assert.Equal(t, 0, count)
}

func TestScannerReusesCachedFindingsOnRescan(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "a.js")
	require.NoError(t, os.WriteFile(path, []byte("console.log(1);\n"), 0o644))

	registry := newTestRegistry(t)
	collection, _ := newConsoleLogRule(t)

	c, err := cache.Open(filepath.Join(t.TempDir(), "scan.db"))
	require.NoError(t, err)
	defer c.Close()

	scanner := NewScanner(registry, collection, nil).WithCache(c)

	first, err := scanner.Run(context.Background(), Scope{Path: root})
	require.NoError(t, err)
	var firstGot []Finding
	for f := range first {
		firstGot = append(firstGot, f)
	}
	require.Len(t, firstGot, 1)

	// Rewrite the file with identical content: the cache should serve
	// the memoized finding without re-parsing or re-matching.
	require.NoError(t, os.WriteFile(path, []byte("console.log(1);\n"), 0o644))

	second, err := scanner.Run(context.Background(), Scope{Path: root})
	require.NoError(t, err)
	var secondGot []Finding
	for f := range second {
		secondGot = append(secondGot, f)
	}
	require.Len(t, secondGot, 1)
	assert.Equal(t, firstGot[0].RuleID, secondGot[0].RuleID)
	assert.Equal(t, firstGot[0].FixApplied, secondGot[0].FixApplied)
}
