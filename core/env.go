package core

// Binding is the value a MetaVarEnv holds for one name: either a single
// captured node, an ordered sequence of captured nodes (ellipsis/multi), or
// a byte-string computed by a rule transform (§3).
type Binding struct {
	Single        SyntaxNode
	Multiple      []SyntaxNode
	Transformed   []byte
	isMultiple    bool
	isTransformed bool
}

// IsMultiple reports whether this binding holds a MultipleNodes sequence.
func (b Binding) IsMultiple() bool { return b.isMultiple }

// IsTransformed reports whether this binding holds a Transformed byte
// string rather than a captured node.
func (b Binding) IsTransformed() bool { return b.isTransformed }

// Text returns the textual content of this binding, regardless of shape:
// the single node's text, the concatenation of the multi-capture's nodes'
// own source spans (from the first node's start to the last node's end,
// preserving any interleaved anonymous siblings), or the transformed bytes.
func (b Binding) Text() string {
	switch {
	case b.isTransformed:
		return string(b.Transformed)
	case b.isMultiple:
		if len(b.Multiple) == 0 {
			return ""
		}
		first, last := b.Multiple[0], b.Multiple[len(b.Multiple)-1]
		r := first.Range()
		// Multi-captures bind disjoint sibling nodes; reconstructing the
		// exact original span (including interleaved punctuation) needs
		// the source text, which the caller has. Here we conservatively
		// join each captured node's own text.
		_ = r
		out := make([]byte, 0, 64)
		for i, n := range b.Multiple {
			if i > 0 {
				out = append(out, ' ')
			}
			out = append(out, []byte(n.Text())...)
		}
		_ = last
		return string(out)
	default:
		if b.Single == nil {
			return ""
		}
		return b.Single.Text()
	}
}

// SingleBinding constructs a Binding holding one captured node.
func SingleBinding(n SyntaxNode) Binding { return Binding{Single: n} }

// MultiBinding constructs a Binding holding an ordered capture sequence.
func MultiBinding(ns []SyntaxNode) Binding {
	return Binding{Multiple: ns, isMultiple: true}
}

// TransformedBinding constructs a Binding holding a transform's output.
func TransformedBinding(b []byte) Binding {
	return Binding{Transformed: b, isTransformed: true}
}

// MetaVarEnv is an append-only (within one match attempt) mapping from
// meta-variable name to Binding (§3). Single and Multi names live in
// disjoint namespaces; Transformed bindings are only ever written after a
// full match succeeds, from already-bound captures.
type MetaVarEnv struct {
	single      map[string]SyntaxNode
	multiple    map[string][]SyntaxNode
	transformed map[string][]byte
	// order preserves first-insertion order of single/multi names, for
	// deterministic message/label rendering.
	order []string
}

// NewMetaVarEnv returns an empty environment.
func NewMetaVarEnv() *MetaVarEnv {
	return &MetaVarEnv{
		single:      make(map[string]SyntaxNode),
		multiple:    make(map[string][]SyntaxNode),
		transformed: make(map[string][]byte),
	}
}

// Clone returns a deep-enough copy for speculative/copy-on-write branching:
// maps are copied so a failed branch can be discarded without mutating the
// parent environment (§4.4, §9).
func (e *MetaVarEnv) Clone() *MetaVarEnv {
	c := NewMetaVarEnv()
	for k, v := range e.single {
		c.single[k] = v
	}
	for k, v := range e.multiple {
		c.multiple[k] = append([]SyntaxNode(nil), v...)
	}
	for k, v := range e.transformed {
		c.transformed[k] = append([]byte(nil), v...)
	}
	c.order = append([]string(nil), e.order...)
	return c
}

// BindSingle attempts to bind name to node. If name is already bound, the
// new value must be textually equal to the existing one (linearity, §3);
// otherwise the bind fails and the environment is left untouched.
func (e *MetaVarEnv) BindSingle(name string, node SyntaxNode) bool {
	if existing, ok := e.single[name]; ok {
		return existing.Text() == node.Text()
	}
	e.single[name] = node
	e.order = append(e.order, name)
	return true
}

// BindMultiple attempts to bind name to an ordered node sequence. Linearity
// compares the joined text of the two sequences.
func (e *MetaVarEnv) BindMultiple(name string, nodes []SyntaxNode) bool {
	if existing, ok := e.multiple[name]; ok {
		return joinText(existing) == joinText(nodes)
	}
	e.multiple[name] = nodes
	e.order = append(e.order, name)
	return true
}

// SetTransformed stores a transform's computed output under name. Transform
// names are independent of the single/multi namespaces and always
// overwrite (transforms run once, post-match, in declaration order).
func (e *MetaVarEnv) SetTransformed(name string, value []byte) {
	e.transformed[name] = value
}

// Single looks up a single-node binding.
func (e *MetaVarEnv) Single(name string) (SyntaxNode, bool) {
	n, ok := e.single[name]
	return n, ok
}

// Multiple looks up a multi-node binding.
func (e *MetaVarEnv) Multiple(name string) ([]SyntaxNode, bool) {
	n, ok := e.multiple[name]
	return n, ok
}

// Transformed looks up a transform's output.
func (e *MetaVarEnv) Transformed(name string) ([]byte, bool) {
	b, ok := e.transformed[name]
	return b, ok
}

// Binding looks up name across all three namespaces (transformed takes
// precedence, since transforms are computed from captures and named
// independently but conventionally override at use sites).
func (e *MetaVarEnv) Binding(name string) (Binding, bool) {
	if b, ok := e.transformed[name]; ok {
		return TransformedBinding(b), true
	}
	if n, ok := e.single[name]; ok {
		return SingleBinding(n), true
	}
	if n, ok := e.multiple[name]; ok {
		return MultiBinding(n), true
	}
	return Binding{}, false
}

// Names returns every single/multi meta-variable name bound so far, in
// first-insertion order.
func (e *MetaVarEnv) Names() []string {
	return append([]string(nil), e.order...)
}

// SingleNames returns a snapshot of the single-capture bindings.
func (e *MetaVarEnv) SingleNames() map[string]SyntaxNode {
	out := make(map[string]SyntaxNode, len(e.single))
	for k, v := range e.single {
		out[k] = v
	}
	return out
}

// MultipleNames returns a snapshot of the multi-capture bindings.
func (e *MetaVarEnv) MultipleNames() map[string][]SyntaxNode {
	out := make(map[string][]SyntaxNode, len(e.multiple))
	for k, v := range e.multiple {
		out[k] = append([]SyntaxNode(nil), v...)
	}
	return out
}

func joinText(nodes []SyntaxNode) string {
	out := make([]byte, 0, 64)
	for i, n := range nodes {
		if i > 0 {
			out = append(out, ',')
		}
		out = append(out, []byte(n.Text())...)
	}
	return string(out)
}
