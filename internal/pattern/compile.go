// Package pattern implements the Pattern Compiler (§4.2): turning raw
// pattern source into a core.Pattern tree, either standalone or
// contextually (compiled inside a larger fragment and re-rooted at a
// named selector kind, §3's contextual compilation, §9 scenario 3).
package pattern

import (
	"context"
	"fmt"
	"strings"

	"github.com/oxhq/morfx/core"
	"github.com/oxhq/morfx/internal/lang"
)

// Compile parses src as a standalone pattern for adapter's grammar and
// converts it to a core.Pattern (§4.2 steps 1-4).
func Compile(adapter lang.Adapter, src string) (*core.Pattern, error) {
	processed := preProcess(adapter, src)

	tree, err := lang.Parse(context.Background(), adapter, []byte(processed))
	if err != nil {
		return nil, core.NewEngineError(core.ErrTSParse, "", fmt.Sprintf("parsing pattern %q", src), err)
	}
	defer tree.Close()

	root := tree.Root()
	if entry := adapter.WrapEntryKind(); entry != "" {
		found := findFirstOfKind(root, entry)
		if found == nil {
			return nil, core.NewEngineError(core.ErrTSParse, "",
				fmt.Sprintf("wrapper kind %q not found after pre-processing pattern %q", entry, src), nil)
		}
		root = found
	}

	patRoot, err := rootShape(root, src)
	if err != nil {
		return nil, err
	}

	p := convert(patRoot, adapter, core.StrictnessSmart)
	p.SetSrc(processed)
	p.SetHasError(patRoot.IsError() || root.IsError())
	return p, nil
}

// CompileContextual parses context as a standalone fragment, then
// re-roots the resulting pattern at the first node whose grammar kind
// equals selectorKind (§3's contextual mode). It is used when the
// pattern only makes grammatical sense embedded in a larger shape, e.g.
// a class field declaration that cannot stand alone as a Go-style
// top-level fragment.
//
// strictness controls how deep the re-rooted pattern's internal nodes
// compare against a candidate's children (§12's supplemented
// `strictness` field): StrictnessCst additionally requires a
// candidate's anonymous (punctuation/keyword) tokens to line up, while
// StrictnessSmart/StrictnessAst (the default) compare named children
// only.
func CompileContextual(adapter lang.Adapter, contextSrc, selectorKind string, strictness core.Strictness) (*core.Pattern, error) {
	processed := preProcess(adapter, contextSrc)

	tree, err := lang.Parse(context.Background(), adapter, []byte(processed))
	if err != nil {
		return nil, core.NewEngineError(core.ErrTSParse, "", fmt.Sprintf("parsing context %q", contextSrc), err)
	}
	defer tree.Close()

	selected := findFirstOfKind(tree.Root(), selectorKind)
	if selected == nil {
		return nil, core.NewEngineError(core.ErrNoSelectorInContext, "",
			fmt.Sprintf("selector kind %q not found in context %q", selectorKind, contextSrc), nil)
	}

	p := convert(selected, adapter, strictness)
	if p.NodeKind == core.PatternMetaVar {
		id := selected.KindID()
		p.MetaVarKindID = &id
	}
	p.SetSrc(processed)
	p.SetHasError(selected.IsError())
	return p, nil
}

// preProcess substitutes MetaVarChar for ExpandoChar before handing the
// result to the adapter's own grammar-specific wrapping (§4.1).
func preProcess(adapter lang.Adapter, src string) string {
	substituted := strings.ReplaceAll(src, string(adapter.MetaVarChar()), string(adapter.ExpandoChar()))
	return adapter.PreProcessPattern(substituted)
}

// rootShape enforces §4.2 step 2 (root must have content and must not
// be a multi-statement fragment) and performs step 3's single-child
// collapse, returning the node the Pattern tree is actually built from.
func rootShape(root core.SyntaxNode, src string) (core.SyntaxNode, error) {
	if root.ChildCount() == 0 {
		return nil, core.NewEngineError(core.ErrNoContent, "", fmt.Sprintf("pattern %q has no content", src), nil)
	}
	if !isSingleNode(root) {
		return nil, core.NewEngineError(core.ErrMultipleNode, "",
			fmt.Sprintf("pattern %q compiles to more than one top-level node", src), nil)
	}
	return collapse(root), nil
}

// isSingleNode reports whether n has exactly one substantive child:
// either a lone child, or two children where the second is a
// parser-synthesized placeholder for a required-but-absent grammar slot
// (§9's design note on trailing missing/empty children).
func isSingleNode(n core.SyntaxNode) bool {
	switch n.ChildCount() {
	case 1:
		return true
	case 2:
		second := n.Child(1)
		return second != nil && (second.IsMissing() || second.Range().Len() == 0)
	default:
		return false
	}
}

// collapse walks down single-child wrapper chains (e.g. an
// expression_statement wrapping a call_expression) until it reaches a
// node that is not itself a trivial single-child wrapper.
func collapse(n core.SyntaxNode) core.SyntaxNode {
	for isSingleNode(n) {
		next := firstSubstantiveChild(n)
		if next == nil {
			break
		}
		n = next
	}
	return n
}

func firstSubstantiveChild(n core.SyntaxNode) core.SyntaxNode {
	for i := 0; i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c == nil || c.IsMissing() || c.Range().Len() == 0 {
			continue
		}
		return c
	}
	return nil
}

// findFirstOfKind performs a pre-order search for the first node (named
// or not) whose Kind() equals kind.
func findFirstOfKind(n core.SyntaxNode, kind string) core.SyntaxNode {
	if n == nil {
		return nil
	}
	if n.Kind() == kind {
		return n
	}
	for i := 0; i < n.ChildCount(); i++ {
		if found := findFirstOfKind(n.Child(i), kind); found != nil {
			return found
		}
	}
	return nil
}

// convert recursively builds a core.Pattern from a parsed syntax node
// (§4.2 step 4). Meta-variable tokens become PatternMetaVar leaves;
// named leaves and any other childless node become PatternTerminal;
// everything else becomes
// PatternInternal over its children, restricted to named children
// unless strictness is core.StrictnessCst (§12's `strictness` field).
func convert(n core.SyntaxNode, adapter lang.Adapter, strictness core.Strictness) *core.Pattern {
	text := n.Text()

	if n.ChildCount() == 0 && n.IsNamed() {
		if mv, ok := parseMetaVarToken(text, adapter.ExpandoChar()); ok {
			return &core.Pattern{
				NodeKind: core.PatternMetaVar,
				MetaVar:  mv,
				KindID:   n.KindID(),
				Kind:     n.Kind(),
			}
		}
	}

	if n.IsNamedLeaf() || n.ChildCount() == 0 {
		return &core.Pattern{
			NodeKind: core.PatternTerminal,
			Text:     text,
			IsNamed:  n.IsNamed(),
			KindID:   n.KindID(),
			Kind:     n.Kind(),
		}
	}

	sub := n.NamedChildren()
	if strictness == core.StrictnessCst {
		sub = n.Children()
	}
	children := make([]*core.Pattern, 0, len(sub))
	for _, c := range sub {
		if c.IsMissing() {
			continue
		}
		children = append(children, convert(c, adapter, strictness))
	}

	return &core.Pattern{
		NodeKind:   core.PatternInternal,
		KindID:     n.KindID(),
		Kind:       n.Kind(),
		Children:   children,
		Strictness: strictness,
	}
}
