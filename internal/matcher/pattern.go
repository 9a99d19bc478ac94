// Package matcher implements the Structural Matcher (§4.4) and Kind
// Index (§4.5): matching a compiled core.Pattern against a candidate
// syntax tree, with sibling alignment for ellipsis meta-variables, and
// a pre-order scanner that prunes candidates by potential grammar kind
// before attempting a full match.
package matcher

import "github.com/oxhq/morfx/core"

// PatternMatcher adapts a compiled core.Pattern to the core.Matcher
// contract, so it can be combined with the other Rule Layer combinators
// (All, Any, Not, Relational, Regex, Reference) in a single matcher
// tree (§4.6).
type PatternMatcher struct {
	Pattern *core.Pattern
}

// NewPatternMatcher wraps a compiled pattern for use as a core.Matcher.
func NewPatternMatcher(p *core.Pattern) *PatternMatcher {
	return &PatternMatcher{Pattern: p}
}

func (pm *PatternMatcher) MatchNodeWithEnv(node core.SyntaxNode, env *core.MetaVarEnv) (core.SyntaxNode, bool) {
	return matchSingle(pm.Pattern, node, env)
}

// PotentialKinds reports the set of concrete grammar kinds this
// pattern's root could possibly match: a single kind id for Terminal
// and Internal roots, the constrained kind for a contextually-compiled
// meta-var root, or nil ("any kind") for an unconstrained meta-var root
// (§4.5).
func (pm *PatternMatcher) PotentialKinds() *core.KindSet {
	return potentialKinds(pm.Pattern)
}

func potentialKinds(p *core.Pattern) *core.KindSet {
	if p.NodeKind == core.PatternMetaVar {
		if p.MetaVarKindID != nil {
			return core.NewKindSet(*p.MetaVarKindID)
		}
		return nil
	}
	return core.NewKindSet(p.KindID)
}

var _ core.Matcher = (*PatternMatcher)(nil)
