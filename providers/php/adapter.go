// Package php adapts the PHP tree-sitter grammar to the lang.Adapter
// contract (§4.1).
package php

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/php"

	"github.com/oxhq/morfx/internal/lang"
)

// Adapter implements lang.Adapter for PHP.
type Adapter struct{}

// New returns a PHP Adapter.
func New() *Adapter { return &Adapter{} }

func (a *Adapter) Language() string     { return "php" }
func (a *Adapter) Aliases() []string    { return nil }
func (a *Adapter) Extensions() []string { return []string{".php", ".phtml", ".php4", ".php5", ".phps"} }

func (a *Adapter) Grammar() *sitter.Language { return php.GetLanguage() }

func (a *Adapter) MetaVarChar() byte { return '$' }
func (a *Adapter) ExpandoChar() byte { return 'Z' }

// PreProcessPattern wraps pattern source in the PHP open tag: unlike
// source_file in most grammars, tree-sitter-php's program rule expects
// the `<?php` token up front. The tag itself is anonymous, so program's
// named children still collapse straight to the statement.
func (a *Adapter) PreProcessPattern(src string) string {
	return "<?php\n" + src + "\n"
}

func (a *Adapter) WrapEntryKind() string { return "" }

func (a *Adapter) IDForNodeKind(name string, _ bool) (uint16, bool) {
	return lang.KindID(a.Grammar(), name)
}

func (a *Adapter) NormalizeForLinearity(text string) string { return text }

func (a *Adapter) KindAliases() map[string][]string {
	return map[string][]string{
		"function":  {"function_definition", "method_declaration"},
		"func":      {"function_definition", "method_declaration"},
		"method":    {"method_declaration"},
		"class":     {"class_declaration"},
		"interface": {"interface_declaration"},
		"trait":     {"trait_declaration"},
		"variable":  {"simple_parameter", "property_declaration", "variable_name"},
		"var":       {"simple_parameter", "property_declaration", "variable_name"},
		"constant":  {"const_declaration"},
		"const":     {"const_declaration"},
		"namespace": {"namespace_definition"},
		"use":       {"namespace_use_declaration"},
		"import":    {"namespace_use_declaration"},
	}
}

var _ lang.Adapter = (*Adapter)(nil)
