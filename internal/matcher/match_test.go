package matcher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/morfx/core"
	"github.com/oxhq/morfx/internal/lang"
	"github.com/oxhq/morfx/internal/pattern"
	"github.com/oxhq/morfx/providers/javascript"
)

func TestFindAllSingleCapture(t *testing.T) {
	adapter := javascript.New()
	p, err := pattern.Compile(adapter, "console.log($A)")
	require.NoError(t, err)

	tree, err := lang.Parse(context.Background(), adapter, []byte("console.log(1); console.log(2);"))
	require.NoError(t, err)
	defer tree.Close()

	matches := FindAll(tree.Root(), NewPatternMatcher(p))
	require.Len(t, matches, 2)
	first, ok := matches[0].Env.Single("A")
	require.True(t, ok)
	assert.Equal(t, "1", first.Text())
}

func TestFindAllEllipsisCapturesAllArgs(t *testing.T) {
	adapter := javascript.New()
	p, err := pattern.Compile(adapter, "console.log($$$ARGS)")
	require.NoError(t, err)

	tree, err := lang.Parse(context.Background(), adapter, []byte("console.log(1, 2, 3);"))
	require.NoError(t, err)
	defer tree.Close()

	match := FindFirst(tree.Root(), NewPatternMatcher(p))
	require.NotNil(t, match)
	args, ok := match.Env.Multiple("ARGS")
	require.True(t, ok)
	assert.Len(t, args, 3)
}

func TestLinearityRejectsMismatchedCaptures(t *testing.T) {
	adapter := javascript.New()
	p, err := pattern.Compile(adapter, "$A + $A")
	require.NoError(t, err)

	tree, err := lang.Parse(context.Background(), adapter, []byte("1 + 2;"))
	require.NoError(t, err)
	defer tree.Close()

	match := FindFirst(tree.Root(), NewPatternMatcher(p))
	assert.Nil(t, match, "non-linear binding of $A must not match")
}

func TestLinearityAcceptsMatchingCaptures(t *testing.T) {
	adapter := javascript.New()
	p, err := pattern.Compile(adapter, "$A + $A")
	require.NoError(t, err)

	tree, err := lang.Parse(context.Background(), adapter, []byte("1 + 1;"))
	require.NoError(t, err)
	defer tree.Close()

	match := FindFirst(tree.Root(), NewPatternMatcher(p))
	require.NotNil(t, match)
}

func TestPotentialKindsSoundness(t *testing.T) {
	adapter := javascript.New()
	p, err := pattern.Compile(adapter, "console.log($A)")
	require.NoError(t, err)

	pm := NewPatternMatcher(p)
	kinds := pm.PotentialKinds()
	require.NotNil(t, kinds)

	tree, err := lang.Parse(context.Background(), adapter, []byte("console.log(1);"))
	require.NoError(t, err)
	defer tree.Close()

	matches := FindAll(tree.Root(), pm)
	for _, m := range matches {
		assert.True(t, kinds.Contains(m.Node.KindID()), "every real match's kind must be in the declared potential-kinds set")
	}
}

func TestRelationalInside(t *testing.T) {
	adapter := javascript.New()
	inner, err := pattern.Compile(adapter, "console.log($A)")
	require.NoError(t, err)
	outerCtx, err := pattern.CompileContextual(adapter, "function f() { $$$BODY }", "function_declaration", core.StrictnessSmart)
	require.NoError(t, err)

	rm := &core.RelationalMatcher{
		Relation: core.RelationInside,
		Self:     NewPatternMatcher(inner),
		Other:    NewPatternMatcher(outerCtx),
	}

	tree, err := lang.Parse(context.Background(), adapter, []byte("function f() { console.log(1); }\nconsole.log(2);"))
	require.NoError(t, err)
	defer tree.Close()

	matches := FindAll(tree.Root(), rm)
	require.Len(t, matches, 1)
}
