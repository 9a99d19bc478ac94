package rule

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/oxhq/morfx/core"
)

// BuildDiff expands every fixer template in cfg against a match's
// environment and returns the resulting core.Diff: a primary Edit (the
// first template) plus any further templates as Alternatives, matching
// the fixer variant syntax of §4.7.
func BuildDiff(cfg *core.RuleConfig, match *core.NodeMatch) (*core.Diff, bool) {
	if len(cfg.Fixers) == 0 {
		return nil, false
	}

	primary := expandTemplate(cfg.Fixers[0].Template, match.Env)
	diff := &core.Diff{
		Primary: core.Edit{
			Position:      match.Node.Range().Start,
			DeletedLength: match.Node.Range().Len(),
			InsertedText:  []byte(primary),
		},
		PrimaryTitle: cfg.Fixers[0].Title,
	}

	for _, f := range cfg.Fixers[1:] {
		text := expandTemplate(f.Template, match.Env)
		diff.Alternatives = append(diff.Alternatives, core.Diff{
			Primary: core.Edit{
				Position:      match.Node.Range().Start,
				DeletedLength: match.Node.Range().Len(),
				InsertedText:  []byte(text),
			},
			PrimaryTitle: f.Title,
		})
	}

	return diff, true
}

// expandTemplate substitutes every $NAME / $$$NAME token in template
// with the corresponding binding's text, leaving unrecognized tokens
// untouched.
func expandTemplate(template string, env *core.MetaVarEnv) string {
	var out strings.Builder
	i := 0
	for i < len(template) {
		if template[i] != '$' {
			out.WriteByte(template[i])
			i++
			continue
		}
		j := i
		for j < len(template) && template[j] == '$' {
			j++
		}
		nameStart := j
		for j < len(template) && isNameByte(template[j]) {
			j++
		}
		name := template[nameStart:j]
		if name == "" {
			out.WriteString(template[i:j])
			i = j
			continue
		}
		if b, ok := env.Binding(name); ok {
			out.WriteString(b.Text())
		} else {
			out.WriteString(template[i:j])
		}
		i = j
	}
	return out.String()
}

func isNameByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}

// RenderUnifiedDiff renders src with edit applied as a unified diff
// string for terminal display, grounded on the teacher's own
// generateDiff helper.
func RenderUnifiedDiff(path string, src []byte, edit core.Edit) string {
	original := string(src)
	modified := string(edit.Apply(src))
	if original == modified {
		return ""
	}

	d := difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(modified),
		FromFile: path,
		ToFile:   path,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(d)
	if err != nil {
		return fmt.Sprintf("--- %s\n+++ %s\n@@ %s bytes -> %s bytes @@\n",
			path, path, strconv.Itoa(len(original)), strconv.Itoa(len(modified)))
	}
	return text
}
