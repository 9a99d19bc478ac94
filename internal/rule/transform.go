package rule

import (
	"regexp"
	"strings"

	"github.com/oxhq/morfx/core"
)

// transformYAML is the YAML shape of one named transform (§4.7): derive
// a new value from a captured meta-variable, available to fixers and
// output under its own name alongside the raw captures.
type transformYAML struct {
	Substring *substringYAML `yaml:"substring"`
	Replace   *replaceYAML   `yaml:"replace"`
	Convert   *convertYAML   `yaml:"convert"`
}

type substringYAML struct {
	Source    string `yaml:"source"`
	StartChar int    `yaml:"startChar"`
	EndChar   int    `yaml:"endChar"`
}

type replaceYAML struct {
	Source  string `yaml:"source"`
	Replace string `yaml:"replace"`
	By      string `yaml:"by"`
}

type convertYAML struct {
	Source string `yaml:"source"`
	ToCase string `yaml:"toCase"`
}

func (t transformYAML) toSpec() (core.TransformSpec, error) {
	switch {
	case t.Substring != nil:
		return core.TransformSpec{
			Kind:      core.TransformSubstring,
			Source:    t.Substring.Source,
			StartChar: t.Substring.StartChar,
			EndChar:   t.Substring.EndChar,
		}, nil
	case t.Replace != nil:
		return core.TransformSpec{
			Kind:    core.TransformReplace,
			Source:  t.Replace.Source,
			Replace: t.Replace.Replace,
			By:      t.Replace.By,
		}, nil
	case t.Convert != nil:
		return core.TransformSpec{
			Kind:   core.TransformConvert,
			Source: t.Convert.Source,
			ToCase: t.Convert.ToCase,
		}, nil
	default:
		return core.TransformSpec{}, errEmptyTransform
	}
}

var errEmptyTransform = transformErr("empty transform node")

type transformErr string

func (e transformErr) Error() string { return string(e) }

// ApplyTransforms evaluates every transform in cfg against env's
// existing captures, writing each result back into env under its own
// transform name so fixers and JSON output can reference it like any
// other meta-variable (§4.7).
func ApplyTransforms(cfg *core.RuleConfig, env *core.MetaVarEnv) {
	for name, spec := range cfg.Transform {
		value := applyTransform(spec, env)
		env.SetTransformed(name, []byte(value))
	}
}

func applyTransform(spec core.TransformSpec, env *core.MetaVarEnv) string {
	b, ok := env.Binding(strings.TrimPrefix(spec.Source, "$"))
	if !ok {
		return ""
	}
	text := b.Text()

	switch spec.Kind {
	case core.TransformSubstring:
		runes := []rune(text)
		start, end := spec.StartChar, spec.EndChar
		if start < 0 {
			start += len(runes)
		}
		if end <= 0 {
			end += len(runes)
		}
		if start < 0 {
			start = 0
		}
		if end > len(runes) {
			end = len(runes)
		}
		if start >= end {
			return ""
		}
		return string(runes[start:end])

	case core.TransformReplace:
		re, err := regexp.Compile(spec.Replace)
		if err != nil {
			return text
		}
		return re.ReplaceAllString(text, spec.By)

	case core.TransformConvert:
		switch spec.ToCase {
		case "upperCase":
			return strings.ToUpper(text)
		case "lowerCase":
			return strings.ToLower(text)
		case "capitalize":
			if text == "" {
				return text
			}
			return strings.ToUpper(text[:1]) + text[1:]
		default:
			return text
		}

	default:
		return text
	}
}
