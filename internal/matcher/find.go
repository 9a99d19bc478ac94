package matcher

import "github.com/oxhq/morfx/core"

// FindAll performs a pre-order scan of root, attempting m at every
// node whose kind survives m.PotentialKinds() pruning (§4.5), and
// returns every successful match with its own fresh environment. Nodes
// that are pruned or that fail to match are still descended into, since
// a match can start at any depth.
func FindAll(root core.SyntaxNode, m core.Matcher) []*core.NodeMatch {
	var out []*core.NodeMatch
	kinds := m.PotentialKinds()

	var walk func(n core.SyntaxNode, ancestors []core.SyntaxNode)
	walk = func(n core.SyntaxNode, ancestors []core.SyntaxNode) {
		if n == nil {
			return
		}
		if kinds == nil || kinds.Contains(n.KindID()) {
			env := core.NewMetaVarEnv()
			if evalMatcher(m, n, env, ancestors) {
				out = append(out, &core.NodeMatch{Node: n, Env: env, EndByte: n.Range().End})
			}
		}
		childAncestors := append(append([]core.SyntaxNode{}, ancestors...), n)
		for i := 0; i < n.ChildCount(); i++ {
			walk(n.Child(i), childAncestors)
		}
	}
	walk(root, nil)
	return out
}

// FindFirst returns the first match FindAll would report, or nil.
func FindFirst(root core.SyntaxNode, m core.Matcher) *core.NodeMatch {
	kinds := m.PotentialKinds()

	var found *core.NodeMatch
	var walk func(n core.SyntaxNode, ancestors []core.SyntaxNode) bool
	walk = func(n core.SyntaxNode, ancestors []core.SyntaxNode) bool {
		if n == nil || found != nil {
			return found != nil
		}
		if kinds == nil || kinds.Contains(n.KindID()) {
			env := core.NewMetaVarEnv()
			if evalMatcher(m, n, env, ancestors) {
				found = &core.NodeMatch{Node: n, Env: env, EndByte: n.Range().End}
				return true
			}
		}
		childAncestors := append(append([]core.SyntaxNode{}, ancestors...), n)
		for i := 0; i < n.ChildCount(); i++ {
			if walk(n.Child(i), childAncestors) {
				return true
			}
		}
		return false
	}
	walk(root, nil)
	return found
}
