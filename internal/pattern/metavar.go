package pattern

import "github.com/oxhq/morfx/core"

// parseMetaVarToken recognizes a post-substitution identifier token as
// one of the five meta-variable shapes of §4.3: a single capture
// ($NAME), a relaxed single capture ($_NAME), an anonymous single
// wildcard ($$ or $_), a multi-capture ellipsis ($$$NAME), or an
// anonymous ellipsis ($$$). text is the node's raw source text after
// the compiler's preProcess has already replaced MetaVarChar by expando;
// ok is false for any identifier that is not one of these shapes, in
// which case the caller treats it as an ordinary terminal.
func parseMetaVarToken(text string, expando byte) (core.MetaVariable, bool) {
	if text == "" || text[0] != expando {
		return core.MetaVariable{}, false
	}

	i := 0
	for i < len(text) && text[i] == expando {
		i++
	}
	rest := text[i:]

	switch i {
	case 1:
		if rest == "" {
			return core.MetaVariable{}, false
		}
		if rest[0] == '_' {
			name := rest[1:]
			if name == "" {
				return core.MetaVariable{Kind: core.MetaDropped, Relaxed: true}, true
			}
			return core.MetaVariable{Kind: core.MetaCapture, Name: name, Relaxed: true}, true
		}
		return core.MetaVariable{Kind: core.MetaCapture, Name: rest}, true
	case 2:
		if rest == "" {
			return core.MetaVariable{Kind: core.MetaDropped}, true
		}
		return core.MetaVariable{}, false
	case 3:
		if rest == "" {
			return core.MetaVariable{Kind: core.MetaEllipsis}, true
		}
		return core.MetaVariable{Kind: core.MetaMultiCapture, Name: rest}, true
	default:
		return core.MetaVariable{}, false
	}
}
