package scan

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/oxhq/morfx/core"
	"github.com/oxhq/morfx/internal/cache"
	"github.com/oxhq/morfx/internal/lang"
	"github.com/oxhq/morfx/internal/matcher"
	"github.com/oxhq/morfx/internal/project"
	"github.com/oxhq/morfx/internal/rule"
)

// Finding is one rule match discovered in one file: plain reporting
// data rather than a live core.NodeMatch, so a Finding outlives the
// lang.Tree it was found in (the tree is closed at the end of
// scanFile) and round-trips through internal/cache as JSON.
type Finding struct {
	Path       string
	RuleID     string
	Message    string
	Severity   core.Severity
	Start      int
	End        int
	StartLine  int
	StartCol   int
	Text       string
	FixTitle   string
	FixApplied string
}

// Scanner runs a rule.Collection over a directory tree: one Walker pass
// to discover files, then one parse+match per file per applicable rule,
// behind the fixed_string() substring pre-filter supplemented from
// ast-grep's own scanner (§12). An optional cache.Cache memoizes a
// file+rule-set pair's findings so an unchanged tree's repeat scan
// skips re-parsing entirely (§11).
type Scanner struct {
	registry   *lang.Registry
	rules      *rule.Collection
	walker     *Walker
	logger     *zap.Logger
	cache      *cache.Cache
	injections []compiledInjection
}

// compiledInjection pairs a languageInjections entry (§6, §12) with its
// host-side matcher, already compiled against the host language's
// grammar so WithInjections only pays the compile cost once per run
// rather than once per scanned file.
type compiledInjection struct {
	spec        project.LanguageInjection
	hostMatcher core.Matcher
}

// NewScanner returns a Scanner. A nil logger is replaced with a no-op
// logger, the same nil-safe default the teacher's own components use.
func NewScanner(registry *lang.Registry, rules *rule.Collection, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{
		registry: registry,
		rules:    rules,
		walker:   NewWalker(registry),
		logger:   logger,
	}
}

// WithCache attaches a scan cache, returning s for chaining.
func (s *Scanner) WithCache(c *cache.Cache) *Scanner {
	s.cache = c
	return s
}

// WithInjections compiles sgconfig.yml's `languageInjections` host rules
// against their declared host language's grammar, returning s for
// chaining (§12). An injection whose host language is unknown or whose
// rule fails to compile is dropped with a warning rather than aborting
// the whole scan.
func (s *Scanner) WithInjections(injections []project.LanguageInjection) *Scanner {
	for _, inj := range injections {
		adapter, ok := s.registry.Get(inj.HostLanguage)
		if !ok {
			s.logger.Warn("language injection: unknown host language",
				zap.String("hostLanguage", inj.HostLanguage))
			continue
		}
		m, err := rule.CompileMap(inj.Rule, adapter, rule.NewGlobalRules())
		if err != nil {
			s.logger.Warn("language injection: failed to compile host rule",
				zap.String("hostLanguage", inj.HostLanguage),
				zap.String("language", inj.Language), zap.Error(err))
			continue
		}
		s.injections = append(s.injections, compiledInjection{spec: inj, hostMatcher: m})
	}
	return s
}

func (s *Scanner) injectionsFor(hostLanguage string) []compiledInjection {
	var out []compiledInjection
	for _, inj := range s.injections {
		if inj.spec.HostLanguage == hostLanguage {
			out = append(out, inj)
		}
	}
	return out
}

// Run walks scope and streams Finding over the returned channel. Files
// whose language has no registered rule, or whose content is missing
// every candidate rule's fixed_string(), never reach the parser.
func (s *Scanner) Run(ctx context.Context, scope Scope) (<-chan Finding, error) {
	files, err := s.walker.Walk(ctx, scope)
	if err != nil {
		return nil, err
	}

	findings := make(chan Finding, 256)
	var wg sync.WaitGroup
	workers := s.walker.workers
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range files {
				if f.Error != nil {
					s.logger.Warn("skipping file", zap.String("path", f.Path), zap.Error(f.Error))
					continue
				}
				s.scanFile(ctx, f, findings)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(findings)
	}()

	return findings, nil
}

func (s *Scanner) scanFile(ctx context.Context, f Result, findings chan<- Finding) {
	trace := s.rules.RulesFor(f.Language, f.Path)
	for _, skipped := range trace.Skipped {
		s.logger.Debug("rule skipped", zap.String("rule", skipped.Rule.ID), zap.String("path", f.Path), zap.String("reason", skipped.Reason))
	}

	injections := s.injectionsFor(f.Language)
	if len(trace.Effective) == 0 && len(injections) == 0 {
		return
	}

	src, err := readFile(f.Path)
	if err != nil {
		s.logger.Warn("failed to read file", zap.String("path", f.Path), zap.Error(err))
		return
	}

	ruleSetHash := cache.HashRuleSet(append(ruleIDsOf(trace.Effective), injectionIDsOf(injections)...))
	fileHash := cache.HashFile([]byte(src))
	if s.cache != nil {
		if cached, ok, err := s.cache.Lookup(fileHash, ruleSetHash); err == nil && ok {
			for _, found := range decodeFindings(cached) {
				found.Path = f.Path
				findings <- found
			}
			return
		}
	}

	candidates := make([]*core.RuleConfig, 0, len(trace.Effective))
	for _, cfg := range trace.Effective {
		if fixed := fixedStringOf(cfg.Matcher); fixed != "" && !strings.Contains(src, fixed) {
			continue
		}
		candidates = append(candidates, cfg)
	}

	var fileFindings []Finding
	if len(candidates) > 0 || len(injections) > 0 {
		adapter, ok := s.registry.Get(f.Language)
		if !ok {
			return
		}
		tree, err := lang.Parse(ctx, adapter, []byte(src))
		if err != nil {
			s.logger.Warn("parse failed", zap.String("path", f.Path), zap.Error(err))
			return
		}

		root := tree.Root()
		for _, cfg := range candidates {
			for _, m := range matcher.FindAll(root, cfg.Matcher) {
				if !satisfiesConstraints(cfg, m.Env) {
					continue
				}
				fileFindings = append(fileFindings, toFinding(f.Path, cfg, m))
			}
		}
		for _, inj := range injections {
			fileFindings = append(fileFindings, s.scanInjection(ctx, f.Path, src, root, inj)...)
		}
		tree.Close()
	}

	if s.cache != nil {
		if encoded, err := encodeFindings(fileFindings); err == nil {
			if err := s.cache.Store(fileHash, ruleSetHash, encoded); err != nil {
				s.logger.Warn("failed to store scan cache entry", zap.String("path", f.Path), zap.Error(err))
			}
		}
	}

	for _, found := range fileFindings {
		findings <- found
	}
}

func toFinding(path string, cfg *core.RuleConfig, m *core.NodeMatch) Finding {
	diff, _ := rule.BuildDiff(cfg, m)
	f := Finding{
		Path:      path,
		RuleID:    cfg.ID,
		Message:   cfg.Message,
		Severity:  cfg.Severity,
		Start:     m.MatchedRange().Start,
		End:       m.MatchedRange().End,
		StartLine: m.Node.StartPosition().Row,
		StartCol:  m.Node.StartPosition().Column,
		Text:      m.Node.Text(),
	}
	if diff != nil {
		f.FixTitle = diff.PrimaryTitle
		f.FixApplied = string(diff.Primary.InsertedText)
	}
	return f
}

// scanInjection finds every sub-range inj's host matcher matches inside
// root, re-parses each one as inj's injected language, and runs that
// language's full effective rule set against the resulting tree (§12).
// Findings are translated back into host-file coordinates: byte offsets
// are shifted by the sub-range's start, and StartLine/StartCol are
// recomputed against the host source rather than the extracted snippet.
func (s *Scanner) scanInjection(ctx context.Context, path, src string, root core.SyntaxNode, inj compiledInjection) []Finding {
	injAdapter, ok := s.registry.Get(inj.spec.Language)
	if !ok {
		return nil
	}
	injTrace := s.rules.RulesFor(inj.spec.Language, path)
	if len(injTrace.Effective) == 0 {
		return nil
	}

	var out []Finding
	for _, hm := range matcher.FindAll(root, inj.hostMatcher) {
		region := hm.MatchedRange()
		if region.Start < 0 || region.End > len(src) || region.Start >= region.End {
			continue
		}
		sub := src[region.Start:region.End]

		subTree, err := lang.Parse(ctx, injAdapter, []byte(sub))
		if err != nil {
			s.logger.Warn("language injection: parse failed",
				zap.String("path", path), zap.String("language", inj.spec.Language), zap.Error(err))
			continue
		}

		for _, cfg := range injTrace.Effective {
			for _, m := range matcher.FindAll(subTree.Root(), cfg.Matcher) {
				if !satisfiesConstraints(cfg, m.Env) {
					continue
				}
				found := toFinding(path, cfg, m)
				found.Start += region.Start
				found.End += region.Start
				found.StartLine, found.StartCol = linePosition(src, found.Start)
				out = append(out, found)
			}
		}
		subTree.Close()
	}
	return out
}

// linePosition converts an absolute byte offset in src to a 0-indexed
// row/column pair, the same coordinate space lang.Tree positions already
// use, so a re-homed injection Finding points at the right place in the
// host file rather than at an offset into the extracted sub-range.
func linePosition(src string, offset int) (row, col int) {
	if offset > len(src) {
		offset = len(src)
	}
	prefix := src[:offset]
	row = strings.Count(prefix, "\n")
	if idx := strings.LastIndexByte(prefix, '\n'); idx >= 0 {
		col = len(prefix) - idx - 1
	} else {
		col = len(prefix)
	}
	return row, col
}

func ruleIDsOf(cfgs []*core.RuleConfig) []string {
	ids := make([]string, len(cfgs))
	for i, cfg := range cfgs {
		ids[i] = cfg.ID
	}
	return ids
}

func injectionIDsOf(injections []compiledInjection) []string {
	ids := make([]string, len(injections))
	for i, inj := range injections {
		ids[i] = inj.spec.HostLanguage + "->" + inj.spec.Language
	}
	return ids
}

func encodeFindings(findings []Finding) (string, error) {
	// Path is re-stamped by the caller on every read, so it's omitted
	// from the cached representation to keep cache entries portable
	// across a file being scanned under a different root.
	type cacheable = Finding
	out := make([]cacheable, len(findings))
	for i, f := range findings {
		f.Path = ""
		out[i] = f
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeFindings(data string) []Finding {
	var out []Finding
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil
	}
	return out
}

// fixedStringOf extracts a PatternMatcher's fixed_string(), if any; any
// other matcher kind (kind/regex/relational/combinator) yields "",
// disabling the pre-filter for that rule.
func fixedStringOf(m core.Matcher) string {
	pm, ok := m.(*matcher.PatternMatcher)
	if !ok {
		return ""
	}
	return pm.Pattern.FixedString()
}

func satisfiesConstraints(cfg *core.RuleConfig, env *core.MetaVarEnv) bool {
	for name, constraint := range cfg.Constraints {
		node, ok := env.Single(name)
		if !ok {
			return false
		}
		if _, ok := constraint.MatchNodeWithEnv(node, core.NewMetaVarEnv()); !ok {
			return false
		}
	}
	return true
}
