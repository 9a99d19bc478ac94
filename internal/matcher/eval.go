package matcher

import "github.com/oxhq/morfx/core"

// matchSingle matches one Pattern node against one candidate node,
// binding env as needed (§4.4).
func matchSingle(p *core.Pattern, n core.SyntaxNode, env *core.MetaVarEnv) (core.SyntaxNode, bool) {
	if n == nil {
		return nil, false
	}
	switch p.NodeKind {
	case core.PatternMetaVar:
		return matchMetaVar(p, n, env)
	case core.PatternTerminal:
		if n.IsNamed() != p.IsNamed || n.KindID() != p.KindID || n.Text() != p.Text {
			return nil, false
		}
		return n, true
	case core.PatternInternal:
		if n.KindID() != p.KindID {
			return nil, false
		}
		candidateChildren := n.NamedChildren()
		if p.Strictness == core.StrictnessCst {
			candidateChildren = n.Children()
		}
		local := env.Clone()
		if !alignChildren(p.Children, candidateChildren, local) {
			return nil, false
		}
		*env = *local
		return n, true
	default:
		return nil, false
	}
}

// matchMetaVar matches a single (non-ellipsis) meta-var leaf against a
// candidate node (§4.3). Ellipsis and multi-capture variables are only
// ever matched inside alignChildren, against a run of siblings.
func matchMetaVar(p *core.Pattern, n core.SyntaxNode, env *core.MetaVarEnv) (core.SyntaxNode, bool) {
	if p.MetaVarKindID != nil && n.KindID() != *p.MetaVarKindID {
		return nil, false
	}
	switch p.MetaVar.Kind {
	case core.MetaDropped:
		return n, true
	case core.MetaCapture:
		if !p.MetaVar.Relaxed && !n.IsNamed() {
			return nil, false
		}
		if !env.BindSingle(p.MetaVar.Name, n) {
			return nil, false
		}
		return n, true
	default:
		return n, true
	}
}

// alignChildren matches a pattern's children against a candidate's
// children (named children, or every child under StrictnessCst), with
// backtracking sibling alignment for ellipsis and
// multi-capture meta-variables (§4.4). An ellipsis consumes the
// smallest run of leading candidates that still lets the remainder of
// the pattern align — the "anchor" is whatever concrete pattern node
// follows the ellipsis, found by this same recursive search.
func alignChildren(pc []*core.Pattern, cc []core.SyntaxNode, env *core.MetaVarEnv) bool {
	if len(pc) == 0 {
		return len(cc) == 0
	}

	head := pc[0]
	if head.NodeKind == core.PatternMetaVar &&
		(head.MetaVar.Kind == core.MetaEllipsis || head.MetaVar.Kind == core.MetaMultiCapture) {
		for k := 0; k <= len(cc); k++ {
			scratch := env.Clone()
			if head.MetaVar.Kind == core.MetaMultiCapture {
				if !scratch.BindMultiple(head.MetaVar.Name, cc[:k]) {
					continue
				}
			}
			if alignChildren(pc[1:], cc[k:], scratch) {
				*env = *scratch
				return true
			}
		}
		return false
	}

	if len(cc) == 0 {
		return false
	}
	if _, ok := matchSingle(head, cc[0], env); !ok {
		return false
	}
	return alignChildren(pc[1:], cc[1:], env)
}
