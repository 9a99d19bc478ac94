package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindWalksUpward(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte("ruleDirs: [rules]\n"), 0o644))

	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, err := Find(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ConfigFileName), found)
}

func TestFindReturnsErrorWhenMissing(t *testing.T) {
	_, err := Find(t.TempDir())
	assert.Error(t, err)
}

func TestLoadResolvesRelativePaths(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("ruleDirs:\n  - rules\nutilDirs:\n  - utils\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "rules"), cfg.RuleDirs[0])
	assert.Equal(t, filepath.Join(root, "utils"), cfg.UtilDirs[0])
}

func TestLoadDecodesLanguageInjections(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, ConfigFileName)
	doc := `
languageInjections:
  - hostLanguage: javascript
    language: javascript
    rule:
      kind: string_fragment
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.LanguageInjections, 1)
	inj := cfg.LanguageInjections[0]
	assert.Equal(t, "javascript", inj.HostLanguage)
	assert.Equal(t, "javascript", inj.Language)
	assert.Equal(t, "string_fragment", inj.Rule["kind"])
}
