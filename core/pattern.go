package core

// Strictness controls how a contextually-compiled pattern's internal
// nodes are matched against a candidate's children: whether anonymous
// (unnamed) grammar tokens participate in the comparison. Standalone
// (non-contextual) patterns always compile at StrictnessSmart, the
// matcher's long-standing default of comparing named children only.
type Strictness int

const (
	// StrictnessSmart compares named children only; an unnamed token's
	// own fixed text is still implicitly enforced wherever it appears
	// as a PatternTerminal leaf, since terminals are built from any
	// leaf node regardless of named-ness. This is the default.
	StrictnessSmart Strictness = iota
	// StrictnessCst compares every child, named and anonymous, so a
	// candidate must reproduce the pattern's punctuation and token
	// layout exactly.
	StrictnessCst
	// StrictnessAst compares named children only; it compiles and
	// matches identically to StrictnessSmart.
	StrictnessAst
)

// PatternNodeKind distinguishes the three shapes a compiled Pattern node
// can take (§3).
type PatternNodeKind int

const (
	// PatternMetaVar is a placeholder leaf, optionally constrained to a
	// grammar kind by contextual compilation.
	PatternMetaVar PatternNodeKind = iota
	// PatternTerminal is a leaf: a named leaf or any childless node,
	// named or anonymous, compared by (kind id, text).
	PatternTerminal
	// PatternInternal is a non-terminal node; its Children are the
	// *named* children of the pattern's own parse tree, or every child
	// under StrictnessCst.
	PatternInternal
)

// Pattern is a compiled structural template: a tree shaped like a syntax
// subtree with placeholder leaves (§3, §4.2).
//
// Invariant: a PatternInternal node always has at least one child. A
// Pattern never simultaneously fixes a kind and leaves a meta-var
// unconstrained at the same position — MetaVarKindID is only set when
// contextual compilation determined the concrete grammar kind the
// meta-var's position must match.
type Pattern struct {
	NodeKind PatternNodeKind

	// --- PatternMetaVar ---
	MetaVar       MetaVariable
	MetaVarKindID *uint16 // nil means "any kind"

	// --- PatternTerminal ---
	Text    string
	IsNamed bool

	// --- shared by Terminal and Internal ---
	KindID uint16
	Kind   string

	// --- PatternInternal ---
	Children []*Pattern
	// Strictness controls whether Children was built (and is matched)
	// against the candidate's named children only or every child; only
	// ever non-default for a contextually-compiled pattern (§12).
	Strictness Strictness

	// src is the pre-processed pattern source this node was compiled
	// from; retained for fixed_string() and diagnostics only.
	src string

	// errorNode records whether this pattern's root was parsed into the
	// grammar's ERROR kind (§4.2's has_error()); set once at compile time
	// by internal/pattern, since only the compiler still holds the raw
	// SyntaxNode the pattern tree was built from.
	errorNode bool
}

// SetSrc records the pre-processed pattern source this node was compiled
// from. Exported for internal/pattern, which builds Pattern values from
// outside this package.
func (p *Pattern) SetSrc(src string) { p.src = src }

// SetHasError records whether this pattern's root parsed into the
// grammar's ERROR kind. Exported for internal/pattern.
func (p *Pattern) SetHasError(v bool) { p.errorNode = v }

// IsTrivial reports whether this pattern node is an unnamed terminal. The
// matcher's sibling alignment does not consult it: no pattern node is
// skipped after an ellipsis consumes its siblings.
func (p *Pattern) IsTrivial() bool {
	return p.NodeKind == PatternTerminal && !p.IsNamed
}

// FixedString returns the longest literal substring this pattern requires
// of any matching source text (§4.2). Used by an outer scanner as a cheap
// pre-filter before invoking the parser and structural matcher.
func (p *Pattern) FixedString() string {
	switch p.NodeKind {
	case PatternTerminal:
		return p.Text
	case PatternMetaVar:
		return ""
	case PatternInternal:
		longest := ""
		for _, c := range p.Children {
			if s := c.FixedString(); len(s) > len(longest) {
				longest = s
			}
		}
		return longest
	}
	return ""
}

// HasError reports whether this pattern's root was parsed into the
// grammar's ERROR kind, i.e. the pattern source was syntactically
// malformed but still produced a usable (if approximate) tree (§4.2).
func (p *Pattern) HasError() bool {
	return p.errorNode
}
