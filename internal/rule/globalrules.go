package rule

import (
	"fmt"

	"github.com/oxhq/morfx/core"
)

// GlobalRules is the process-wide rule dictionary `matches:` references
// resolve against (§4.6, §9). Rules may be decoded in any order: a
// `matches: some-id` reference is handed an unresolved
// *core.ReferenceMatcher up front, and Link fills in every reference's
// Resolved matcher once all rules are known, rejecting cycles.
type GlobalRules struct {
	rules map[string]*core.RuleConfig
	refs  []*core.ReferenceMatcher
}

// NewGlobalRules returns an empty rule dictionary.
func NewGlobalRules() *GlobalRules {
	return &GlobalRules{rules: make(map[string]*core.RuleConfig)}
}

// Add registers a fully-decoded rule under its id.
func (g *GlobalRules) Add(cfg *core.RuleConfig) error {
	if _, exists := g.rules[cfg.ID]; exists {
		return core.NewEngineError(core.ErrParseRule, "", fmt.Sprintf("duplicate rule id %q", cfg.ID), nil)
	}
	g.rules[cfg.ID] = cfg
	return nil
}

// Reference returns an unresolved ReferenceMatcher for ruleID, to be
// filled in by Link.
func (g *GlobalRules) Reference(ruleID string) *core.ReferenceMatcher {
	rm := &core.ReferenceMatcher{RuleID: ruleID}
	g.refs = append(g.refs, rm)
	return rm
}

// Link resolves every ReferenceMatcher produced by Reference against
// the registered rules, and rejects cyclic `matches:` chains (§9).
func (g *GlobalRules) Link() error {
	for _, rm := range g.refs {
		cfg, ok := g.rules[rm.RuleID]
		if !ok {
			return core.NewEngineError(core.ErrUnknownRuleReference, "", fmt.Sprintf("unknown rule %q", rm.RuleID), nil)
		}
		rm.Resolved = cfg.Matcher
	}
	for id := range g.rules {
		if err := g.checkAcyclic(id, make(map[string]bool)); err != nil {
			return err
		}
	}
	return nil
}

func (g *GlobalRules) checkAcyclic(id string, visiting map[string]bool) error {
	if visiting[id] {
		return core.NewEngineError(core.ErrCyclicRuleReference, "", fmt.Sprintf("cyclic rule reference through %q", id), nil)
	}
	cfg, ok := g.rules[id]
	if !ok {
		return nil
	}
	visiting[id] = true
	for _, refID := range referencedIDs(cfg.Matcher) {
		if err := g.checkAcyclic(refID, visiting); err != nil {
			return err
		}
	}
	delete(visiting, id)
	return nil
}

// referencedIDs walks a matcher tree collecting every `matches:` target
// it directly depends on.
func referencedIDs(m core.Matcher) []string {
	switch t := m.(type) {
	case *core.ReferenceMatcher:
		return []string{t.RuleID}
	case *core.AllMatcher:
		var out []string
		for _, inner := range t.Matchers {
			out = append(out, referencedIDs(inner)...)
		}
		return out
	case *core.AnyMatcher:
		var out []string
		for _, inner := range t.Matchers {
			out = append(out, referencedIDs(inner)...)
		}
		return out
	case *core.NotMatcher:
		return referencedIDs(t.Inner)
	case *core.RelationalMatcher:
		var out []string
		if t.Self != nil {
			out = append(out, referencedIDs(t.Self)...)
		}
		out = append(out, referencedIDs(t.Other)...)
		return out
	default:
		return nil
	}
}
