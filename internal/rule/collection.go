package rule

import (
	"github.com/bmatcuk/doublestar/v4"

	"github.com/oxhq/morfx/core"
)

// Collection groups compiled rules by language, and reports an
// effective/skipped trace for a given file path so callers can explain
// why a rule did or didn't run against it (§6's ruleDirs, §9).
type Collection struct {
	byLanguage map[string][]*core.RuleConfig
	globals    *GlobalRules
}

// NewCollection returns an empty Collection backed by globals for
// `matches:` resolution.
func NewCollection(globals *GlobalRules) *Collection {
	return &Collection{byLanguage: make(map[string][]*core.RuleConfig), globals: globals}
}

// Add registers cfg under its language and in the global rule
// dictionary (so other rules can reference it by id).
func (c *Collection) Add(cfg *core.RuleConfig) error {
	if err := c.globals.Add(cfg); err != nil {
		return err
	}
	c.byLanguage[cfg.Language] = append(c.byLanguage[cfg.Language], cfg)
	return nil
}

// Link resolves every `matches:` reference across every added rule.
func (c *Collection) Link() error { return c.globals.Link() }

// Trace reports, for one file of the given language, which rules apply
// (Effective) and which were scoped out by files/ignores (Skipped).
type Trace struct {
	Effective []*core.RuleConfig
	Skipped   []SkippedRule
}

// SkippedRule names a rule that did not apply to a file and why.
type SkippedRule struct {
	Rule   *core.RuleConfig
	Reason string
}

// RulesFor computes the Trace for path in language.
func (c *Collection) RulesFor(language, path string) Trace {
	var t Trace
	for _, cfg := range c.byLanguage[language] {
		if len(cfg.Ignores) > 0 && matchesAny(cfg.Ignores, path) {
			t.Skipped = append(t.Skipped, SkippedRule{Rule: cfg, Reason: "matched an ignores glob"})
			continue
		}
		if len(cfg.Files) > 0 && !matchesAny(cfg.Files, path) {
			t.Skipped = append(t.Skipped, SkippedRule{Rule: cfg, Reason: "did not match any files glob"})
			continue
		}
		t.Effective = append(t.Effective, cfg)
	}
	return t
}

func matchesAny(globs []string, path string) bool {
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, path); ok {
			return true
		}
	}
	return false
}

// Languages returns every language with at least one registered rule.
func (c *Collection) Languages() []string {
	out := make([]string, 0, len(c.byLanguage))
	for lang := range c.byLanguage {
		out = append(out, lang)
	}
	return out
}

// All returns every registered rule across every language, for callers
// (the `morfx test` fixture runner) that need to enumerate rules rather
// than scope them to one file.
func (c *Collection) All() []*core.RuleConfig {
	var out []*core.RuleConfig
	for _, cfgs := range c.byLanguage {
		out = append(out, cfgs...)
	}
	return out
}
