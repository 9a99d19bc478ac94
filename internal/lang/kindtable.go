package lang

import (
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
)

// kindTable caches a grammar's symbol-name -> symbol-id reverse index,
// built once per *sitter.Language the first time an adapter resolves a
// kind name. Grammars only expose a forward Symbol -> name lookup, so
// every adapter needs this same reverse scan; keeping it here avoids
// five copies of the same loop.
var (
	kindTableMu sync.Mutex
	kindTables  = map[*sitter.Language]map[string]uint16{}
)

// KindID resolves a grammar kind name to its numeric symbol id by
// scanning the grammar's symbol table once and caching the result.
func KindID(grammar *sitter.Language, name string) (uint16, bool) {
	kindTableMu.Lock()
	table, ok := kindTables[grammar]
	if !ok {
		table = buildKindTable(grammar)
		kindTables[grammar] = table
	}
	kindTableMu.Unlock()

	id, ok := table[name]
	return id, ok
}

func buildKindTable(grammar *sitter.Language) map[string]uint16 {
	count := int(grammar.SymbolCount())
	table := make(map[string]uint16, count)
	for i := 0; i < count; i++ {
		sym := uint16(i)
		name := grammar.SymbolName(sitter.Symbol(sym))
		if name == "" {
			continue
		}
		if _, exists := table[name]; !exists {
			table[name] = sym
		}
	}
	return table
}
