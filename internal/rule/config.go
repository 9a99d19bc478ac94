// Package rule implements the Rule Layer (§4.6): decoding YAML rule
// files into a core.RuleConfig plus a compiled core.Matcher tree, rule
// references through a GlobalRules table, transforms and fixers
// (§4.7), and collecting rules per-project with glob-based file
// scoping.
package rule

import (
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/oxhq/morfx/core"
	"github.com/oxhq/morfx/internal/lang"
	"github.com/oxhq/morfx/internal/matcher"
	"github.com/oxhq/morfx/internal/pattern"
)

// matcherYAML is the YAML shape of one matcher node, covering every
// matcher variant of §3/§4.6. Exactly one of Pattern/Kind/Regex/Matches
// /All/Any/Not/Inside/Has/Follows/Precedes is expected to be set;
// Decode checks them in this same order and uses the first non-empty
// one, which keeps the common single-field rules terse.
type matcherYAML struct {
	Pattern    string        `yaml:"pattern"`
	Context    string        `yaml:"context"`
	Selector   string        `yaml:"selector"`
	Strictness string        `yaml:"strictness"`
	Kind       string        `yaml:"kind"`
	Regex      string        `yaml:"regex"`
	Matches    string        `yaml:"matches"`
	All        []matcherYAML `yaml:"all"`
	Any        []matcherYAML `yaml:"any"`
	Not        *matcherYAML  `yaml:"not"`
	Inside     *relationYAML `yaml:"inside"`
	Has        *relationYAML `yaml:"has"`
	Follows    *relationYAML `yaml:"follows"`
	Precedes   *relationYAML `yaml:"precedes"`
}

// relationYAML is a relational matcher: the constraint it wraps, plus
// whether it's restricted to the immediate parent/child/sibling.
type relationYAML struct {
	matcherYAML `yaml:",inline"`
	Immediate   bool `yaml:"immediate"`
}

// ruleYAML is the top-level shape of one rule document in a rule file
// (§4.6, §6).
type ruleYAML struct {
	ID          string                     `yaml:"id"`
	Language    string                     `yaml:"language"`
	Rule        matcherYAML                `yaml:"rule"`
	Constraints map[string]matcherYAML     `yaml:"constraints"`
	Transform   map[string]transformYAML   `yaml:"transform"`
	Labels      map[string]labelYAML       `yaml:"labels"`
	Message     string                     `yaml:"message"`
	Note        string                     `yaml:"note"`
	Severity    string                     `yaml:"severity"`
	Metadata    map[string]any             `yaml:"metadata"`
	Fix         []fixYAML                  `yaml:"fix"`
	Files       []string                   `yaml:"files"`
	Ignores     []string                   `yaml:"ignores"`
}

type labelYAML struct {
	Style   string `yaml:"style"`
	Message string `yaml:"message"`
}

type fixYAML struct {
	Title    string `yaml:"title"`
	Template string `yaml:"template"`
}

// Decode parses a single rule YAML document and compiles its matcher
// tree against the named language's adapter, resolving `matches:`
// references lazily through globals (the referenced rule need not be
// registered yet; ReferenceMatcher.Resolved is filled in once globals
// finishes loading every rule, see globalrules.go).
func Decode(doc []byte, registry *lang.Registry, globals *GlobalRules) (*core.RuleConfig, error) {
	var y ruleYAML
	if err := yaml.Unmarshal(doc, &y); err != nil {
		return nil, core.NewEngineError(core.ErrParseRule, "", "decoding rule YAML", err)
	}
	if y.ID == "" {
		return nil, core.NewEngineError(core.ErrParseRule, "", "rule is missing an id", nil)
	}

	adapter, ok := registry.Get(y.Language)
	if !ok {
		return nil, core.NewEngineError(core.ErrParseRule, "", fmt.Sprintf("rule %q: unknown language %q", y.ID, y.Language), nil)
	}

	m, err := compileMatcher(y.Rule, adapter, globals)
	if err != nil {
		return nil, core.NewEngineError(core.ErrParseRule, "", fmt.Sprintf("rule %q", y.ID), err)
	}

	cfg := &core.RuleConfig{
		ID:       y.ID,
		Language: y.Language,
		Matcher:  m,
		Message:  y.Message,
		Note:     y.Note,
		Severity: severityFromString(y.Severity),
		Metadata: y.Metadata,
		Files:    y.Files,
		Ignores:  y.Ignores,
	}

	if len(y.Constraints) > 0 {
		cfg.Constraints = make(map[string]core.Matcher, len(y.Constraints))
		for name, c := range y.Constraints {
			cm, err := compileMatcher(c, adapter, globals)
			if err != nil {
				return nil, core.NewEngineError(core.ErrParseRule, "", fmt.Sprintf("rule %q: constraint %q", y.ID, name), err)
			}
			cfg.Constraints[name] = cm
		}
	}

	if len(y.Transform) > 0 {
		cfg.Transform = make(map[string]core.TransformSpec, len(y.Transform))
		for name, t := range y.Transform {
			spec, err := t.toSpec()
			if err != nil {
				return nil, core.NewEngineError(core.ErrParseRule, "", fmt.Sprintf("rule %q: transform %q", y.ID, name), err)
			}
			cfg.Transform[name] = spec
		}
	}

	if len(y.Labels) > 0 {
		cfg.Labels = make(map[string]core.LabelSpec, len(y.Labels))
		for name, l := range y.Labels {
			style := core.LabelPrimary
			if l.Style == "secondary" {
				style = core.LabelSecondary
			}
			cfg.Labels[name] = core.LabelSpec{Style: style, Message: l.Message}
		}
	}

	for _, f := range y.Fix {
		cfg.Fixers = append(cfg.Fixers, core.RewriteTemplate{Title: f.Title, Template: f.Template})
	}

	return cfg, nil
}

// CompileMap compiles a matcher expressed as a generic YAML-decoded map
// (sgconfig.yml's `languageInjections[].rule`, §12) the same way a
// rule file's own `rule:` block compiles, by round-tripping it through
// yaml so the existing matcherYAML decoding handles it without a
// parallel map[string]any walker.
func CompileMap(raw map[string]any, adapter lang.Adapter, globals *GlobalRules) (core.Matcher, error) {
	doc, err := yaml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("re-encoding injection rule: %w", err)
	}
	var m matcherYAML
	if err := yaml.Unmarshal(doc, &m); err != nil {
		return nil, fmt.Errorf("decoding injection rule: %w", err)
	}
	return compileMatcher(m, adapter, globals)
}

// strictnessFromString maps sgconfig.yml's `strictness` field to its
// core.Strictness value, defaulting to core.StrictnessSmart for an
// unrecognized or empty string (§12).
func strictnessFromString(s string) core.Strictness {
	switch s {
	case "cst":
		return core.StrictnessCst
	case "ast":
		return core.StrictnessAst
	default:
		return core.StrictnessSmart
	}
}

func severityFromString(s string) core.Severity {
	switch s {
	case "warning":
		return core.SeverityWarning
	case "info":
		return core.SeverityInfo
	case "hint":
		return core.SeverityHint
	case "off":
		return core.SeverityOff
	default:
		return core.SeverityError
	}
}

// compileMatcher builds a core.Matcher from one matcherYAML node,
// recursing into combinators and relational sub-rules (§4.6).
func compileMatcher(m matcherYAML, adapter lang.Adapter, globals *GlobalRules) (core.Matcher, error) {
	switch {
	case m.Pattern != "":
		var p *core.Pattern
		var err error
		if m.Context != "" && m.Selector != "" {
			p, err = pattern.CompileContextual(adapter, m.Context, m.Selector, strictnessFromString(m.Strictness))
		} else {
			p, err = pattern.Compile(adapter, m.Pattern)
		}
		if err != nil {
			return nil, err
		}
		return matcher.NewPatternMatcher(p), nil

	case m.Kind != "":
		kindNames, ok := adapter.KindAliases()[m.Kind]
		if !ok {
			kindNames = []string{m.Kind}
		}
		var inner []core.Matcher
		for _, name := range kindNames {
			id, ok := adapter.IDForNodeKind(name, true)
			if !ok {
				continue
			}
			inner = append(inner, &core.KindMatcher{Kind: id, KindName: name})
		}
		if len(inner) == 0 {
			return nil, core.NewEngineError(core.ErrInvalidKind, "", fmt.Sprintf("unknown kind %q", m.Kind), nil)
		}
		if len(inner) == 1 {
			return inner[0], nil
		}
		return &core.AnyMatcher{Matchers: inner}, nil

	case m.Regex != "":
		re, err := regexp.Compile(m.Regex)
		if err != nil {
			return nil, fmt.Errorf("compiling regex %q: %w", m.Regex, err)
		}
		return core.NewRegexMatcher(m.Regex, re), nil

	case m.Matches != "":
		return globals.Reference(m.Matches), nil

	case len(m.All) > 0:
		var inner []core.Matcher
		for i, sub := range m.All {
			sm, err := compileMatcher(sub, adapter, globals)
			if err != nil {
				return nil, fmt.Errorf("all[%d]: %w", i, err)
			}
			inner = append(inner, sm)
		}
		return &core.AllMatcher{Matchers: inner}, nil

	case len(m.Any) > 0:
		var inner []core.Matcher
		for i, sub := range m.Any {
			sm, err := compileMatcher(sub, adapter, globals)
			if err != nil {
				return nil, fmt.Errorf("any[%d]: %w", i, err)
			}
			inner = append(inner, sm)
		}
		return &core.AnyMatcher{Matchers: inner}, nil

	case m.Not != nil:
		inner, err := compileMatcher(*m.Not, adapter, globals)
		if err != nil {
			return nil, fmt.Errorf("not: %w", err)
		}
		return &core.NotMatcher{Inner: inner}, nil

	case m.Inside != nil:
		return compileRelational(core.RelationInside, m.Inside, adapter, globals)
	case m.Has != nil:
		return compileRelational(core.RelationHas, m.Has, adapter, globals)
	case m.Follows != nil:
		return compileRelational(core.RelationFollows, m.Follows, adapter, globals)
	case m.Precedes != nil:
		return compileRelational(core.RelationPrecedes, m.Precedes, adapter, globals)

	default:
		return nil, fmt.Errorf("empty matcher node")
	}
}

func compileRelational(rel core.RelationKind, r *relationYAML, adapter lang.Adapter, globals *GlobalRules) (core.Matcher, error) {
	other, err := compileMatcher(r.matcherYAML, adapter, globals)
	if err != nil {
		return nil, err
	}
	return &core.RelationalMatcher{Relation: rel, Other: other, Immediate: r.Immediate}, nil
}
