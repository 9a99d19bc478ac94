package rule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/morfx/internal/lang"
)

func mustParse(t *testing.T, adapter lang.Adapter, src string) *lang.Tree {
	t.Helper()
	tree, err := lang.Parse(context.Background(), adapter, []byte(src))
	require.NoError(t, err)
	return tree
}
