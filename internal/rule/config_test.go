package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/morfx/core"
	"github.com/oxhq/morfx/internal/lang"
	"github.com/oxhq/morfx/internal/matcher"
	"github.com/oxhq/morfx/providers/javascript"
	"github.com/oxhq/morfx/providers/typescript"
)

func newRegistry(t *testing.T) *lang.Registry {
	t.Helper()
	r := lang.NewRegistry()
	require.NoError(t, r.Register(javascript.New()))
	return r
}

func TestDecodeSimplePatternRule(t *testing.T) {
	registry := newRegistry(t)
	globals := NewGlobalRules()

	doc := []byte(`
id: no-console-log
language: javascript
rule:
  pattern: console.log($A)
message: avoid console.log in committed code
severity: warning
`)
	cfg, err := Decode(doc, registry, globals)
	require.NoError(t, err)
	assert.Equal(t, "no-console-log", cfg.ID)
	require.NoError(t, globals.Add(cfg))
	require.NoError(t, globals.Link())
}

func TestDecodeAllCombinator(t *testing.T) {
	registry := newRegistry(t)
	globals := NewGlobalRules()

	doc := []byte(`
id: combined
language: javascript
rule:
  all:
    - pattern: console.log($A)
    - not:
        regex: "^debug"
`)
	cfg, err := Decode(doc, registry, globals)
	require.NoError(t, err)
	require.NoError(t, globals.Add(cfg))
	require.NoError(t, globals.Link())
}

func TestCyclicReferenceRejected(t *testing.T) {
	registry := newRegistry(t)
	globals := NewGlobalRules()

	a := []byte(`
id: a
language: javascript
rule:
  matches: b
`)
	b := []byte(`
id: b
language: javascript
rule:
  matches: a
`)
	cfgA, err := Decode(a, registry, globals)
	require.NoError(t, err)
	require.NoError(t, globals.Add(cfgA))

	cfgB, err := Decode(b, registry, globals)
	require.NoError(t, err)
	require.NoError(t, globals.Add(cfgB))

	err = globals.Link()
	assert.Error(t, err)
}

func TestFixerExpandsTemplate(t *testing.T) {
	registry := newRegistry(t)
	globals := NewGlobalRules()

	doc := []byte(`
id: use-warn
language: javascript
rule:
  pattern: console.log($A)
fix:
  - title: use console.warn
    template: console.warn($A)
`)
	cfg, err := Decode(doc, registry, globals)
	require.NoError(t, err)

	adapter := javascript.New()
	tree := mustParse(t, adapter, "console.log(42);")
	defer tree.Close()

	m := matcher.FindFirst(tree.Root(), cfg.Matcher)
	require.NotNil(t, m)

	diff, ok := BuildDiff(cfg, m)
	require.True(t, ok)
	assert.Equal(t, "console.warn(42)", string(diff.Primary.InsertedText))
}

func TestDecodeContextualPatternHonorsStrictness(t *testing.T) {
	registry := lang.NewRegistry()
	require.NoError(t, registry.Register(typescript.New()))
	globals := NewGlobalRules()

	doc := []byte(`
id: field-assign-cst
language: typescript
rule:
  pattern: $F = $I
  context: "class A { $F = $I }"
  selector: public_field_definition
  strictness: cst
message: field assignment
`)
	cfg, err := Decode(doc, registry, globals)
	require.NoError(t, err)

	pm, ok := cfg.Matcher.(*matcher.PatternMatcher)
	require.True(t, ok)
	assert.Equal(t, core.StrictnessCst, pm.Pattern.Strictness)
}
