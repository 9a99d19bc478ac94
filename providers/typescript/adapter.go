// Package typescript adapts the TypeScript tree-sitter grammar to the
// lang.Adapter contract (§4.1).
package typescript

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/oxhq/morfx/internal/lang"
)

// Adapter implements lang.Adapter for TypeScript.
type Adapter struct{}

// New returns a TypeScript Adapter.
func New() *Adapter { return &Adapter{} }

func (a *Adapter) Language() string     { return "typescript" }
func (a *Adapter) Aliases() []string    { return []string{"ts"} }
func (a *Adapter) Extensions() []string { return []string{".ts", ".mts", ".cts"} }

func (a *Adapter) Grammar() *sitter.Language { return typescript.GetLanguage() }

func (a *Adapter) MetaVarChar() byte { return '$' }
func (a *Adapter) ExpandoChar() byte { return 'Z' }

// PreProcessPattern is the identity function, for the same reason as the
// javascript adapter: program parses a single statement directly.
func (a *Adapter) PreProcessPattern(src string) string { return src }

func (a *Adapter) WrapEntryKind() string { return "" }

func (a *Adapter) IDForNodeKind(name string, _ bool) (uint16, bool) {
	return lang.KindID(a.Grammar(), name)
}

func (a *Adapter) NormalizeForLinearity(text string) string { return text }

func (a *Adapter) KindAliases() map[string][]string {
	return map[string][]string{
		"function":    {"function_declaration", "function_expression", "arrow_function", "method_definition", "method_signature"},
		"func":        {"function_declaration", "function_expression", "arrow_function", "method_definition", "method_signature"},
		"fn":          {"function_declaration", "function_expression", "arrow_function", "method_definition", "method_signature"},
		"class":       {"class_declaration", "class_expression"},
		"interface":   {"interface_declaration"},
		"iface":       {"interface_declaration"},
		"type":        {"type_alias_declaration"},
		"enum":        {"enum_declaration"},
		"enum_member": {"enum_member"},
		"member":      {"enum_member"},
		"method":      {"method_definition", "method_signature"},
		"getter":      {"method_definition", "method_signature"},
		"setter":      {"method_definition", "method_signature"},
		"accessor":    {"method_definition", "method_signature"},
		"constructor": {"method_definition"},
		"ctor":        {"method_definition"},
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
		"module":      {"module_declaration"},
		"namespace":   {"namespace_declaration"},
		"property":    {"public_field_definition", "private_field_definition", "property_signature"},
		"prop":        {"public_field_definition", "private_field_definition", "property_signature"},
		"field":       {"public_field_definition", "private_field_definition", "property_signature"},
		"decorator":   {"decorator"},
		"comment":     {"comment"},
		"comments":    {"comment"},
	}
}

var _ lang.Adapter = (*Adapter)(nil)
