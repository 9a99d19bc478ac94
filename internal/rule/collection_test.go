package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectionRulesForHonorsFilesAndIgnores(t *testing.T) {
	registry := newRegistry(t)
	globals := NewGlobalRules()
	collection := NewCollection(globals)

	cfg, err := Decode([]byte(`
id: no-console-log
language: javascript
rule:
  pattern: console.log($A)
files:
  - "src/**/*.js"
ignores:
  - "**/*_test.js"
`), registry, globals)
	require.NoError(t, err)
	require.NoError(t, collection.Add(cfg))
	require.NoError(t, collection.Link())

	effective := collection.RulesFor("javascript", "src/app.js")
	assert.Len(t, effective.Effective, 1)
	assert.Empty(t, effective.Skipped)

	skippedByIgnore := collection.RulesFor("javascript", "src/app_test.js")
	assert.Empty(t, skippedByIgnore.Effective)
	require.Len(t, skippedByIgnore.Skipped, 1)
	assert.Equal(t, "matched an ignores glob", skippedByIgnore.Skipped[0].Reason)

	skippedByFiles := collection.RulesFor("javascript", "other/app.js")
	assert.Empty(t, skippedByFiles.Effective)
	require.Len(t, skippedByFiles.Skipped, 1)
	assert.Equal(t, "did not match any files glob", skippedByFiles.Skipped[0].Reason)

	assert.ElementsMatch(t, []string{"javascript"}, collection.Languages())
}

func TestCollectionAllFlattensEveryLanguage(t *testing.T) {
	registry := newRegistry(t)
	globals := NewGlobalRules()
	collection := NewCollection(globals)

	cfg, err := Decode([]byte(`
id: no-console-log
language: javascript
rule:
  pattern: console.log($A)
`), registry, globals)
	require.NoError(t, err)
	require.NoError(t, collection.Add(cfg))
	require.NoError(t, collection.Link())

	all := collection.All()
	require.Len(t, all, 1)
	assert.Equal(t, "no-console-log", all[0].ID)
}
