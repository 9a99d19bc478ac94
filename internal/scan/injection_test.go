package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/morfx/internal/project"
)

// TestScannerAppliesLanguageInjections exercises §12's languageInjections
// hook end-to-end: a javascript string_fragment is re-parsed and
// re-scanned as javascript on its own, so a console.log call embedded as
// text inside a string literal is still found even though it never
// appears as a real call_expression in the host file.
func TestScannerAppliesLanguageInjections(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.js"),
		[]byte(`const snippet = "console.log(1)";`+"\n"), 0o644))

	registry := newTestRegistry(t)
	collection, _ := newConsoleLogRule(t)
	scanner := NewScanner(registry, collection, nil)

	injections := []project.LanguageInjection{
		{
			HostLanguage: "javascript",
			Language:     "javascript",
			Rule:         map[string]any{"kind": "string_fragment"},
		},
	}
	scanner.WithInjections(injections)

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

// TestWithInjectionsDropsUnknownHostLanguage confirms a misconfigured
// injection (unknown host language) is skipped rather than failing the
// whole scanner setup.
func TestWithInjectionsDropsUnknownHostLanguage(t *testing.T) {
	registry := newTestRegistry(t)
	collection, _ := newConsoleLogRule(t)
	scanner := NewScanner(registry, collection, nil)

	scanner.WithInjections([]project.LanguageInjection{
		{HostLanguage: "cobol", Language: "javascript", Rule: map[string]any{"kind": "string_fragment"}},
	})

	assert.Empty(t, scanner.injections)
}
