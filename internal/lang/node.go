package lang

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/morfx/core"
)

// Tree owns a parsed tree-sitter tree and the source bytes it was parsed
// from. The source must outlive every core.SyntaxNode, pattern match and
// environment derived from it (§9's Node lifetimes design note); bundling
// tree+source into this one owned handle is option (a) from that note.
type Tree struct {
	tree *sitter.Tree
	src  []byte
}

// Parse parses src with adapter's grammar and returns an owning Tree.
func Parse(ctx context.Context, adapter Adapter, src []byte) (*Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(adapter.Grammar())
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, err
	}
	return &Tree{tree: tree, src: src}, nil
}

// Root returns the tree's root node.
func (t *Tree) Root() core.SyntaxNode {
	return node{n: t.tree.RootNode(), src: t.src}
}

// Source returns the original source bytes.
func (t *Tree) Source() []byte { return t.src }

// Close releases the underlying tree-sitter tree.
func (t *Tree) Close() {
	if t.tree != nil {
		t.tree.Close()
	}
}

// node implements core.SyntaxNode over a *sitter.Node, satisfying the §3
// external Syntax Node contract. It is deliberately unexported: the rest
// of the engine only ever sees core.SyntaxNode, so swapping the parser
// backend never touches callers outside this package.
type node struct {
	n   *sitter.Node
	src []byte
}

func (nd node) KindID() uint16 { return uint16(nd.n.Symbol()) }
func (nd node) Kind() string   { return nd.n.Type() }
func (nd node) IsNamed() bool  { return nd.n.IsNamed() }

func (nd node) IsNamedLeaf() bool {
	return nd.n.IsNamed() && nd.n.NamedChildCount() == 0
}

func (nd node) IsError() bool { return nd.n.IsError() }

func (nd node) IsMissing() bool { return nd.n.IsMissing() }

func (nd node) ChildCount() int { return int(nd.n.ChildCount()) }

func (nd node) Child(i int) core.SyntaxNode {
	c := nd.n.Child(i)
	if c == nil {
		return nil
	}
	return node{n: c, src: nd.src}
}

func (nd node) Children() []core.SyntaxNode {
	n := int(nd.n.ChildCount())
	out := make([]core.SyntaxNode, 0, n)
	for i := 0; i < n; i++ {
		if c := nd.n.Child(i); c != nil {
			out = append(out, node{n: c, src: nd.src})
		}
	}
	return out
}

func (nd node) NamedChildren() []core.SyntaxNode {
	n := int(nd.n.NamedChildCount())
	out := make([]core.SyntaxNode, 0, n)
	for i := 0; i < n; i++ {
		if c := nd.n.NamedChild(i); c != nil {
			out = append(out, node{n: c, src: nd.src})
		}
	}
	return out
}

func (nd node) Text() string { return nd.n.Content(nd.src) }

func (nd node) Range() core.Range {
	return core.Range{Start: int(nd.n.StartByte()), End: int(nd.n.EndByte())}
}

func (nd node) StartPosition() core.Position {
	p := nd.n.StartPoint()
	return core.Position{Row: int(p.Row), Column: int(p.Column)}
}

func (nd node) EndPosition() core.Position {
	p := nd.n.EndPoint()
	return core.Position{Row: int(p.Row), Column: int(p.Column)}
}

// WrapNode exposes the node{} wrapper to sibling packages in rare cases
// where a tree-sitter node must be wrapped directly (the pattern compiler,
// which parses pattern source with the same grammar).
func WrapNode(n *sitter.Node, src []byte) core.SyntaxNode {
	if n == nil {
		return nil
	}
	return node{n: n, src: src}
}
