// Package javascript adapts the JavaScript tree-sitter grammar to the
// lang.Adapter contract (§4.1).
package javascript

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/oxhq/morfx/internal/lang"
)

// Adapter implements lang.Adapter for JavaScript.
type Adapter struct{}

// New returns a JavaScript Adapter.
func New() *Adapter { return &Adapter{} }

func (a *Adapter) Language() string     { return "javascript" }
func (a *Adapter) Aliases() []string    { return []string{"js", "jsx"} }
func (a *Adapter) Extensions() []string { return []string{".js", ".jsx", ".mjs", ".cjs"} }

func (a *Adapter) Grammar() *sitter.Language { return javascript.GetLanguage() }

func (a *Adapter) MetaVarChar() byte { return '$' }
func (a *Adapter) ExpandoChar() byte { return 'Z' }

// PreProcessPattern is the identity function: tree-sitter-javascript's
// program rule parses a bare expression or statement directly as its
// (single) child, so no wrapper is needed.
func (a *Adapter) PreProcessPattern(src string) string { return src }

func (a *Adapter) WrapEntryKind() string { return "" }

func (a *Adapter) IDForNodeKind(name string, _ bool) (uint16, bool) {
	return lang.KindID(a.Grammar(), name)
}

func (a *Adapter) NormalizeForLinearity(text string) string { return text }

func (a *Adapter) KindAliases() map[string][]string {
	return map[string][]string{
		"function":    {"function_declaration", "function_expression", "arrow_function", "method_definition"},
		"func":        {"function_declaration", "function_expression", "arrow_function", "method_definition"},
		"fn":          {"function_declaration", "function_expression", "arrow_function", "method_definition"},
		"method":      {"method_definition"},
		"constructor": {"method_definition"},
		"ctor":        {"method_definition"},
		"class":       {"class_declaration", "class_expression"},
		"property":    {"field_definition"},
		"prop":        {"field_definition"},
		"field":       {"field_definition"},
		"variable":    {"variable_declaration", "lexical_declaration", "variable_declarator"},
		"var":         {"variable_declaration", "lexical_declaration", "variable_declarator"},
		"const":       {"variable_declaration", "lexical_declaration", "variable_declarator"},
		"let":         {"variable_declaration", "lexical_declaration", "variable_declarator"},
		"lambda":      {"arrow_function"},
		"arrow":       {"arrow_function"},
		"array":       {"array", "array_pattern"},
		"object":      {"object", "object_pattern"},
		"import":      {"import_statement"},
		"export":      {"export_statement"},
		"decorator":   {"decorator"},
		"comment":     {"comment"},
		"comments":    {"comment"},
	}
}

var _ lang.Adapter = (*Adapter)(nil)
