package core

// KindSet is a sparse set of grammar kind-ids, used by PotentialKinds
// (§4.5) to let outer scanners prune candidate nodes before ever calling
// MatchNodeWithEnv.
type KindSet struct {
	bits map[uint16]struct{}
}

// NewKindSet builds a KindSet from the given kind-ids.
func NewKindSet(ids ...uint16) *KindSet {
	s := &KindSet{bits: make(map[uint16]struct{}, len(ids))}
	for _, id := range ids {
		s.bits[id] = struct{}{}
	}
	return s
}

// Contains reports whether id is a member.
func (s *KindSet) Contains(id uint16) bool {
	if s == nil {
		return false
	}
	_, ok := s.bits[id]
	return ok
}

// Union returns the set union of s and other. A nil receiver or argument is
// treated as empty.
func (s *KindSet) Union(other *KindSet) *KindSet {
	out := NewKindSet()
	if s != nil {
		for id := range s.bits {
			out.bits[id] = struct{}{}
		}
	}
	if other != nil {
		for id := range other.bits {
			out.bits[id] = struct{}{}
		}
	}
	return out
}

// Intersect returns the set intersection of s and other. An empty result is
// a legitimate "matches nothing" signal (§4.5), distinct from the nil/"any
// kind" signal returned by PotentialKinds itself.
func (s *KindSet) Intersect(other *KindSet) *KindSet {
	out := NewKindSet()
	if s == nil || other == nil {
		return out
	}
	for id := range s.bits {
		if _, ok := other.bits[id]; ok {
			out.bits[id] = struct{}{}
		}
	}
	return out
}

// Slice returns the set's members in unspecified order.
func (s *KindSet) Slice() []uint16 {
	if s == nil {
		return nil
	}
	out := make([]uint16, 0, len(s.bits))
	for id := range s.bits {
		out = append(out, id)
	}
	return out
}

// Len reports the number of members.
func (s *KindSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.bits)
}

// Matcher is the polymorphic capability every matcher variant in §3
// implements: run against a candidate node, mutating env on success; and
// report the set of kinds it could possibly match. Reporting a match's
// byte length is the separate, optional LenMatcher interface, which no
// matcher in this module implements.
type Matcher interface {
	// MatchNodeWithEnv attempts to match node, mutating env on success and
	// returning the matched node (which may differ from the input node
	// for relational matchers like Inside/Has). Returns (nil, false) on
	// failure, in which case env must be left unchanged by the caller's
	// copy-on-write discipline.
	MatchNodeWithEnv(node SyntaxNode, env *MetaVarEnv) (SyntaxNode, bool)
	// PotentialKinds returns the set of grammar kind-ids that could
	// possibly match this matcher's root, or nil to mean "any kind"
	// (§4.5).
	PotentialKinds() *KindSet
}

// LenMatcher is implemented by matchers that can report how many bytes of
// the candidate node they actually consumed (relevant for Pattern matchers
// against prefix-of-siblings matches, §4.4's match_end_non_recursive).
type LenMatcher interface {
	Matcher
	MatchLen(node SyntaxNode) (int, bool)
}

// KindMatcher matches any node whose KindID equals Kind.
type KindMatcher struct {
	Kind     uint16
	KindName string
}

func (m *KindMatcher) MatchNodeWithEnv(node SyntaxNode, _ *MetaVarEnv) (SyntaxNode, bool) {
	if node.KindID() == m.Kind {
		return node, true
	}
	return nil, false
}

func (m *KindMatcher) PotentialKinds() *KindSet { return NewKindSet(m.Kind) }

// AllMatcher requires every inner matcher to succeed against the same
// node and environment, short-circuiting on first failure.
type AllMatcher struct{ Matchers []Matcher }

func (m *AllMatcher) MatchNodeWithEnv(node SyntaxNode, env *MetaVarEnv) (SyntaxNode, bool) {
	matched := node
	for _, inner := range m.Matchers {
		n, ok := inner.MatchNodeWithEnv(matched, env)
		if !ok {
			return nil, false
		}
		matched = n
	}
	return matched, true
}

func (m *AllMatcher) PotentialKinds() *KindSet {
	if len(m.Matchers) == 0 {
		return nil
	}
	var out *KindSet
	sawAny := false
	for _, inner := range m.Matchers {
		k := inner.PotentialKinds()
		if k == nil {
			continue // "any kind" contributes nothing to the intersection
		}
		sawAny = true
		if out == nil {
			out = k
		} else {
			out = out.Intersect(k)
		}
	}
	if !sawAny {
		return nil
	}
	return out
}

// AnyMatcher requires at least one inner matcher to succeed; the first
// success wins and its bindings are kept.
type AnyMatcher struct{ Matchers []Matcher }

func (m *AnyMatcher) MatchNodeWithEnv(node SyntaxNode, env *MetaVarEnv) (SyntaxNode, bool) {
	for _, inner := range m.Matchers {
		scratch := env.Clone()
		if n, ok := inner.MatchNodeWithEnv(node, scratch); ok {
			*env = *scratch
			return n, true
		}
	}
	return nil, false
}

func (m *AnyMatcher) PotentialKinds() *KindSet {
	out := NewKindSet()
	for _, inner := range m.Matchers {
		k := inner.PotentialKinds()
		if k == nil {
			return nil // any member matching any kind means the union is "any"
		}
		out = out.Union(k)
	}
	return out
}

// NotMatcher succeeds, binding nothing, iff its inner matcher fails.
type NotMatcher struct{ Inner Matcher }

func (m *NotMatcher) MatchNodeWithEnv(node SyntaxNode, env *MetaVarEnv) (SyntaxNode, bool) {
	scratch := env.Clone()
	if _, ok := m.Inner.MatchNodeWithEnv(node, scratch); ok {
		return nil, false
	}
	return node, true
}

func (m *NotMatcher) PotentialKinds() *KindSet { return m.Inner.PotentialKinds() }

// RelationKind distinguishes the four relational matcher variants, all of
// which constrain a node by its relationship to another matched node
// rather than its own shape.
type RelationKind int

const (
	RelationInside RelationKind = iota
	RelationHas
	RelationFollows
	RelationPrecedes
)

// RelationalMatcher requires node to satisfy Self (if set) AND stand in
// the given structural Relation to some ancestor/descendant/sibling
// matched by Other (§3, §4.5).
type RelationalMatcher struct {
	Relation RelationKind
	Self     Matcher // nil means "any node"
	Other    Matcher
	// Immediate restricts Inside/Has to the direct parent/child and
	// Follows/Precedes to the immediately adjacent sibling, rather than
	// any ancestor/descendant/earlier-or-later sibling.
	Immediate bool
	// The core package itself has no notion of tree walking, so testing
	// Other against a node's ancestors, descendants or siblings is done
	// by internal/matcher's evalRelational (reached from FindAll and
	// FindFirst). MatchNodeWithEnv below only handles the Self check.
}

func (m *RelationalMatcher) MatchNodeWithEnv(node SyntaxNode, env *MetaVarEnv) (SyntaxNode, bool) {
	if m.Self == nil {
		return node, true
	}
	return m.Self.MatchNodeWithEnv(node, env)
}

func (m *RelationalMatcher) PotentialKinds() *KindSet {
	if m.Self != nil {
		return m.Self.PotentialKinds()
	}
	return nil
}

// RegexMatcher matches any node whose text satisfies a compiled regular
// expression (§3's Regex matcher variant). Binds nothing itself.
type RegexMatcher struct {
	Source string
	re     RegexEngine
}

// RegexEngine is the minimal regexp surface RegexMatcher needs, satisfied
// by *regexp.Regexp (stdlib). Kept as an interface so core never imports
// regexp itself and callers can swap engines without touching this file.
type RegexEngine interface {
	MatchString(s string) bool
}

// NewRegexMatcher builds a RegexMatcher from an already-compiled engine.
func NewRegexMatcher(source string, engine RegexEngine) *RegexMatcher {
	return &RegexMatcher{Source: source, re: engine}
}

func (m *RegexMatcher) MatchNodeWithEnv(node SyntaxNode, _ *MetaVarEnv) (SyntaxNode, bool) {
	if m.re != nil && m.re.MatchString(node.Text()) {
		return node, true
	}
	return nil, false
}

func (m *RegexMatcher) PotentialKinds() *KindSet { return nil }

// ReferenceMatcher defers to a named rule resolved from a GlobalRules
// table at compile time (§4.6, §9). By the time matching runs, Resolved
// must be set to the referenced rule's matcher — references are never
// followed recursively at runtime.
type ReferenceMatcher struct {
	RuleID   string
	Resolved Matcher
}

func (m *ReferenceMatcher) MatchNodeWithEnv(node SyntaxNode, env *MetaVarEnv) (SyntaxNode, bool) {
	if m.Resolved == nil {
		return nil, false
	}
	return m.Resolved.MatchNodeWithEnv(node, env)
}

func (m *ReferenceMatcher) PotentialKinds() *KindSet {
	if m.Resolved == nil {
		return nil
	}
	return m.Resolved.PotentialKinds()
}
