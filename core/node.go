// Package core contains the pure data model of the structural pattern
// engine: syntax node contracts, patterns, meta-variable environments,
// matches, matchers and rules. Nothing in this package depends on a
// specific parser backend or language grammar.
package core

// Position is a line+column location, both 0-based, matching tree-sitter's
// own convention.
type Position struct {
	Row    int
	Column int
}

// Range is a byte span, start inclusive, end exclusive.
type Range struct {
	Start int
	End   int
}

// Len reports the number of bytes spanned by r.
func (r Range) Len() int { return r.End - r.Start }

// SyntaxNode is the external contract this engine consumes from the
// underlying incremental parser (§3). Implementations wrap a concrete
// parse tree (e.g. tree-sitter) and must keep it alive for the lifetime of
// any SyntaxNode, Pattern match, or MetaVarEnv derived from it.
type SyntaxNode interface {
	// KindID is the grammar's integer identifier for this node's type.
	KindID() uint16
	// Kind is the grammar's human-readable name for KindID, e.g.
	// "lexical_declaration".
	Kind() string
	// IsNamed reports whether this node corresponds to a grammar rule
	// (true) or a literal/anonymous token (false).
	IsNamed() bool
	// IsNamedLeaf reports whether this node is named and has no named
	// children.
	IsNamedLeaf() bool
	// IsError reports whether this node is the grammar's ERROR node,
	// i.e. the parser could not make sense of this span (§4.2's
	// has_error()).
	IsError() bool
	// IsMissing reports whether this node was synthesized by the
	// parser's error recovery to fill a grammar-required slot that had
	// no corresponding source text (§4.2, §9's grammar-idiosyncrasy
	// note, §9's design note on trailing missing/empty children).
	IsMissing() bool
	// ChildCount is the number of all children, named and anonymous.
	ChildCount() int
	// Child returns the i-th child, named or anonymous.
	Child(i int) SyntaxNode
	// Children returns all children, named and anonymous, in order.
	Children() []SyntaxNode
	// NamedChildren returns only the named children, in order.
	NamedChildren() []SyntaxNode
	// Text is this node's source text.
	Text() string
	// Range is this node's byte span in the source.
	Range() Range
	// StartPosition is this node's starting line+column.
	StartPosition() Position
	// EndPosition is this node's ending line+column.
	EndPosition() Position
}
