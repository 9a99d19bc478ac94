package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/morfx/core"
	"github.com/oxhq/morfx/providers/golang"
	"github.com/oxhq/morfx/providers/javascript"
	"github.com/oxhq/morfx/providers/typescript"
)

func TestCompileSingleCapture(t *testing.T) {
	adapter := javascript.New()
	p, err := Compile(adapter, "console.log($A)")
	require.NoError(t, err)
	require.Equal(t, core.PatternInternal, p.NodeKind)
	assert.False(t, p.HasError())
}

func TestCompileMultipleNodeFails(t *testing.T) {
	adapter := javascript.New()
	_, err := Compile(adapter, "a; b;")
	require.Error(t, err)
	var engErr *core.EngineError
	require.ErrorAs(t, err, &engErr)
	assert.Equal(t, core.ErrMultipleNode, engErr.Code)
}

func TestCompileNoContentFails(t *testing.T) {
	adapter := javascript.New()
	_, err := Compile(adapter, "")
	require.Error(t, err)
	var engErr *core.EngineError
	require.ErrorAs(t, err, &engErr)
	assert.Equal(t, core.ErrNoContent, engErr.Code)
}

func TestCompileSingleNodeCollapse(t *testing.T) {
	adapter := javascript.New()
	p, err := Compile(adapter, "Some")
	require.NoError(t, err)
	assert.Equal(t, core.PatternTerminal, p.NodeKind)
	assert.Equal(t, "Some", p.Text)
}

func TestCompileGoWrapsFunctionBody(t *testing.T) {
	adapter := golang.New()
	p, err := Compile(adapter, "fmt.Println($A)")
	require.NoError(t, err)
	assert.Equal(t, core.PatternInternal, p.NodeKind)
}

func TestCompileEllipsisToken(t *testing.T) {
	adapter := javascript.New()
	p, err := Compile(adapter, "console.log($$$ARGS)")
	require.NoError(t, err)
	require.Equal(t, core.PatternInternal, p.NodeKind)
	found := false
	for _, c := range p.Children {
		if c.NodeKind == core.PatternMetaVar && c.MetaVar.Kind == core.MetaMultiCapture && c.MetaVar.Name == "ARGS" {
			found = true
		}
	}
	assert.True(t, found, "expected a multi-capture ARGS meta-var among pattern children")
}

func TestCompileContextualFieldPattern(t *testing.T) {
	adapter := typescript.New()
	p, err := CompileContextual(adapter, "class A { $F = $I }", "public_field_definition", core.StrictnessSmart)
	require.NoError(t, err)
	assert.Equal(t, core.PatternInternal, p.NodeKind)
}

func TestCompileContextualCstStrictnessIncludesAnonymousChildren(t *testing.T) {
	adapter := typescript.New()
	smart, err := CompileContextual(adapter, "class A { $F = $I }", "public_field_definition", core.StrictnessSmart)
	require.NoError(t, err)
	cst, err := CompileContextual(adapter, "class A { $F = $I }", "public_field_definition", core.StrictnessCst)
	require.NoError(t, err)

	assert.Equal(t, core.StrictnessSmart, smart.Strictness)
	assert.Equal(t, core.StrictnessCst, cst.Strictness)
	assert.Greater(t, len(cst.Children), len(smart.Children), "cst strictness should also capture the '=' token")
}
