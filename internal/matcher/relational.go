package matcher

import "github.com/oxhq/morfx/core"

// evalMatcher evaluates any matcher in a composed tree against node,
// threading the ancestor chain (root-first, node's parent last) so
// *core.RelationalMatcher can see outside node's own subtree — context
// core.Matcher's plain MatchNodeWithEnv contract cannot carry (§4.6's
// relational constraints: inside, has, follows, precedes).
func evalMatcher(m core.Matcher, node core.SyntaxNode, env *core.MetaVarEnv, ancestors []core.SyntaxNode) bool {
	switch t := m.(type) {
	case *core.RelationalMatcher:
		return evalRelational(t, node, env, ancestors)
	case *core.AllMatcher:
		for _, inner := range t.Matchers {
			if !evalMatcher(inner, node, env, ancestors) {
				return false
			}
		}
		return true
	case *core.AnyMatcher:
		for _, inner := range t.Matchers {
			scratch := env.Clone()
			if evalMatcher(inner, node, scratch, ancestors) {
				*env = *scratch
				return true
			}
		}
		return false
	case *core.NotMatcher:
		scratch := env.Clone()
		return !evalMatcher(t.Inner, node, scratch, ancestors)
	default:
		_, ok := m.MatchNodeWithEnv(node, env)
		return ok
	}
}

// evalRelational evaluates one relational constraint (§4.6).
func evalRelational(rm *core.RelationalMatcher, node core.SyntaxNode, env *core.MetaVarEnv, ancestors []core.SyntaxNode) bool {
	if rm.Self != nil {
		if !evalMatcher(rm.Self, node, env, ancestors) {
			return false
		}
	}

	switch rm.Relation {
	case core.RelationInside:
		return evalInside(rm, ancestors, env)
	case core.RelationHas:
		return evalHas(rm, node, env, ancestors)
	case core.RelationFollows, core.RelationPrecedes:
		return evalSibling(rm, node, env, ancestors)
	default:
		return false
	}
}

func evalInside(rm *core.RelationalMatcher, ancestors []core.SyntaxNode, env *core.MetaVarEnv) bool {
	if len(ancestors) == 0 {
		return false
	}
	if rm.Immediate {
		parent := ancestors[len(ancestors)-1]
		scratch := env.Clone()
		if evalMatcher(rm.Other, parent, scratch, ancestors[:len(ancestors)-1]) {
			*env = *scratch
			return true
		}
		return false
	}
	for i := len(ancestors) - 1; i >= 0; i-- {
		scratch := env.Clone()
		if evalMatcher(rm.Other, ancestors[i], scratch, ancestors[:i]) {
			*env = *scratch
			return true
		}
	}
	return false
}

func evalHas(rm *core.RelationalMatcher, node core.SyntaxNode, env *core.MetaVarEnv, ancestors []core.SyntaxNode) bool {
	selfAncestors := append(append([]core.SyntaxNode{}, ancestors...), node)
	if rm.Immediate {
		for _, c := range node.NamedChildren() {
			scratch := env.Clone()
			if evalMatcher(rm.Other, c, scratch, selfAncestors) {
				*env = *scratch
				return true
			}
		}
		return false
	}
	var found bool
	var walk func(n core.SyntaxNode, anc []core.SyntaxNode)
	walk = func(n core.SyntaxNode, anc []core.SyntaxNode) {
		if found {
			return
		}
		scratch := env.Clone()
		if evalMatcher(rm.Other, n, scratch, anc) {
			*env = *scratch
			found = true
			return
		}
		childAnc := append(append([]core.SyntaxNode{}, anc...), n)
		for _, c := range n.NamedChildren() {
			walk(c, childAnc)
			if found {
				return
			}
		}
	}
	for _, c := range node.NamedChildren() {
		walk(c, selfAncestors)
		if found {
			break
		}
	}
	return found
}

func evalSibling(rm *core.RelationalMatcher, node core.SyntaxNode, env *core.MetaVarEnv, ancestors []core.SyntaxNode) bool {
	if len(ancestors) == 0 {
		return false
	}
	parent := ancestors[len(ancestors)-1]
	siblings := parent.NamedChildren()
	idx := indexOfNode(siblings, node)
	if idx < 0 {
		return false
	}

	var candidates []core.SyntaxNode
	if rm.Relation == core.RelationFollows {
		if rm.Immediate {
			if idx == 0 {
				return false
			}
			candidates = siblings[idx-1 : idx]
		} else {
			for i := idx - 1; i >= 0; i-- {
				candidates = append(candidates, siblings[i])
			}
		}
	} else {
		if rm.Immediate {
			if idx+1 >= len(siblings) {
				return false
			}
			candidates = siblings[idx+1 : idx+2]
		} else {
			candidates = siblings[idx+1:]
		}
	}

	for _, c := range candidates {
		scratch := env.Clone()
		if evalMatcher(rm.Other, c, scratch, ancestors[:len(ancestors)-1]) {
			*env = *scratch
			return true
		}
	}
	return false
}

func indexOfNode(nodes []core.SyntaxNode, target core.SyntaxNode) int {
	r := target.Range()
	for i, n := range nodes {
		if n.Range() == r {
			return i
		}
	}
	return -1
}
