// Package python adapts the Python tree-sitter grammar to the
// lang.Adapter contract (§4.1).
package python

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/oxhq/morfx/internal/lang"
)

// Adapter implements lang.Adapter for Python.
type Adapter struct{}

// New returns a Python Adapter.
func New() *Adapter { return &Adapter{} }

func (a *Adapter) Language() string     { return "python" }
func (a *Adapter) Aliases() []string    { return []string{"py"} }
func (a *Adapter) Extensions() []string { return []string{".py", ".pyw", ".pyi"} }

func (a *Adapter) Grammar() *sitter.Language { return python.GetLanguage() }

func (a *Adapter) MetaVarChar() byte { return '$' }
func (a *Adapter) ExpandoChar() byte { return 'Z' }

// PreProcessPattern is the identity function: Python's module rule
// parses a single top-level statement directly as its only child.
func (a *Adapter) PreProcessPattern(src string) string { return src }

func (a *Adapter) WrapEntryKind() string { return "" }

func (a *Adapter) IDForNodeKind(name string, _ bool) (uint16, bool) {
	return lang.KindID(a.Grammar(), name)
}

func (a *Adapter) NormalizeForLinearity(text string) string { return text }

func (a *Adapter) KindAliases() map[string][]string {
	return map[string][]string{
		"function":  {"function_definition"},
		"func":      {"function_definition"},
		"fn":        {"function_definition"},
		"method":    {"function_definition"},
		"def":       {"function_definition"},
		"class":     {"class_definition"},
		"cls":       {"class_definition"},
		"variable":  {"assignment", "augmented_assignment", "global_statement", "nonlocal_statement"},
		"var":       {"assignment", "augmented_assignment", "global_statement", "nonlocal_statement"},
		"import":    {"import_statement", "import_from_statement"},
		"from":      {"import_from_statement"},
		"decorator": {"decorator"},
		"lambda":    {"lambda"},
		"comment":   {"comment"},
		"comments":  {"comment"},
	}
}

var _ lang.Adapter = (*Adapter)(nil)
