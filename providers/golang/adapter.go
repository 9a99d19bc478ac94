// Package golang adapts the Go tree-sitter grammar to the lang.Adapter
// contract (§4.1).
package golang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/oxhq/morfx/internal/lang"
)

// Adapter implements lang.Adapter for Go.
type Adapter struct{}

// New returns a Go Adapter.
func New() *Adapter { return &Adapter{} }

func (a *Adapter) Language() string     { return "go" }
func (a *Adapter) Aliases() []string    { return []string{"golang"} }
func (a *Adapter) Extensions() []string { return []string{".go"} }

func (a *Adapter) Grammar() *sitter.Language { return golang.GetLanguage() }

func (a *Adapter) MetaVarChar() byte { return '$' }
func (a *Adapter) ExpandoChar() byte { return 'Z' }

// PreProcessPattern wraps pattern source in a throwaway function body:
// Go's source_file rule requires a package clause plus at least one
// top-level declaration, so a bare expression or statement never parses
// as a root-level fragment the way it does for JavaScript or Python.
func (a *Adapter) PreProcessPattern(src string) string {
	return "package morfxpattern\nfunc morfxPattern() {\n" + src + "\n}\n"
}

// WrapEntryKind re-roots the parse tree at the function body: source_file
// has two named children (package_clause, function_declaration), so its
// own single-child chain never reaches the pattern; "block" is the node
// whose children are the statements the caller actually wrote.
func (a *Adapter) WrapEntryKind() string { return "block" }

func (a *Adapter) IDForNodeKind(name string, _ bool) (uint16, bool) {
	return lang.KindID(a.Grammar(), name)
}

func (a *Adapter) NormalizeForLinearity(text string) string { return text }

func (a *Adapter) KindAliases() map[string][]string {
	return map[string][]string{
		"function":  {"function_declaration", "method_declaration"},
		"func":      {"function_declaration", "method_declaration"},
		"fn":        {"function_declaration", "method_declaration"},
		"struct":    {"type_spec"},
		"interface": {"type_spec"},
		"iface":     {"type_spec"},
		"variable":  {"var_declaration", "short_var_declaration"},
		"var":       {"var_declaration", "short_var_declaration"},
		"constant":  {"const_declaration"},
		"const":     {"const_declaration"},
		"import":    {"import_declaration"},
		"type":      {"type_declaration", "type_spec"},
		"method":    {"method_declaration"},
		"field":     {"field_declaration"},
		"comment":   {"comment"},
		"comments":  {"comment"},
	}
}

var _ lang.Adapter = (*Adapter)(nil)
