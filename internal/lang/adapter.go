// Package lang defines the Grammar Adapter contract (§4.1): a uniform
// capability surface over one tree-sitter grammar per language, plus a
// thread-safe registry of adapters keyed by language name, alias and file
// extension.
package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Adapter is the Grammar Adapter contract of §4.1. Each supported language
// provides exactly one Adapter.
type Adapter interface {
	// Language is the canonical language identifier, e.g. "go", "tsx".
	Language() string
	// Aliases are additional accepted spellings, e.g. "golang" for "go".
	Aliases() []string
	// Extensions are the file-extension globs this language claims,
	// e.g. []string{".go"}.
	Extensions() []string
	// Grammar returns the tree-sitter grammar for this language.
	Grammar() *sitter.Language
	// MetaVarChar is the sigil a pattern source uses for meta-variables
	// before pre-processing; always '$' per §4.3.
	MetaVarChar() byte
	// ExpandoChar is an identifier-safe character pre_process_pattern
	// substitutes for MetaVarChar so the grammar's lexer accepts the
	// token as an identifier (§4.1).
	ExpandoChar() byte
	// PreProcessPattern rewrites pattern source so it parses as a valid
	// fragment of this grammar by wrapping it in whatever context the
	// grammar requires (e.g. a dummy function body) so that bare
	// expressions/statements parse at all (§4.1). The source it receives
	// already has MetaVarChar replaced by ExpandoChar; internal/pattern
	// does that substitution before calling it.
	PreProcessPattern(src string) string
	// IDForNodeKind resolves a grammar kind name to its kind-id. named
	// indicates whether to look up in the named or anonymous symbol
	// space (some grammars assign distinct ids to a name used both ways).
	IDForNodeKind(name string, named bool) (uint16, bool)
	// NormalizeForLinearity normalizes a captured node's text for
	// linearity comparison (§3, §9's Open Question 2). Every adapter in
	// this module returns text unchanged, and nothing in this module
	// calls it: core.MetaVarEnv compares two bindings' raw Text.
	NormalizeForLinearity(text string) string
	// KindAliases maps a friendly name (as used in the `kind:` matcher
	// YAML sugar and in contextual pattern selectors) to one or more
	// concrete grammar kind names, e.g. "function" -> ["function_declaration",
	// "method_declaration"] for Go.
	KindAliases() map[string][]string
	// WrapEntryKind is the grammar kind the pattern compiler should
	// re-root to immediately after parsing PreProcessPattern's output,
	// before single-node collapse. Most grammars parse a bare
	// expression/statement directly as a child of their root node, so
	// the root's own single-child chain already leads to the real
	// pattern; for those, WrapEntryKind returns "". A few grammars
	// (e.g. Go) require a wrapper whose root is not itself a
	// single-child chain (a package clause next to a function
	// declaration), so their adapter names the inner node — e.g.
	// "block" — the compiler should jump to before collapsing further.
	WrapEntryKind() string
}
