package symbols

import (
	"iter"
	"maps"
	"slices"
)

// Table is a stack of scopes. Lookups search from the innermost scope out.
type Table struct {
	scopes []map[string]*Symbol
}

func NewTable() *Table {
	return new(Table)
}

func (t *Table) Push() {
	t.scopes = append(t.scopes, make(map[string]*Symbol))
}

func (t *Table) Pop() {
	if len(t.scopes) > 0 {
		t.scopes = t.scopes[:len(t.scopes)-1]
	}
}

// Depth is the index of the innermost scope.
func (t *Table) Depth() int {
	return len(t.scopes) - 1
}

// Declare adds sym to the innermost scope. It returns the existing symbol and
// false when the name is already declared in that scope.
func (t *Table) Declare(sym *Symbol) (*Symbol, bool) {
	scope := t.scopes[len(t.scopes)-1]
	if existing, ok := scope[sym.Name]; ok {
		return existing, false
	}
	sym.Depth = t.Depth()
	scope[sym.Name] = sym
	return sym, true
}

func (t *Table) Lookup(name string) (*Symbol, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if sym, ok := t.scopes[i][name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// All yields visible symbols, innermost scope first, names sorted within a scope.
func (t *Table) All() iter.Seq[*Symbol] {
	return func(yield func(*Symbol) bool) {
		seen := make(map[string]bool)
		for i := len(t.scopes) - 1; i >= 0; i-- {
			for _, name := range slices.Sorted(maps.Keys(t.scopes[i])) {
				if seen[name] {
					continue
				}
				seen[name] = true
				if !yield(t.scopes[i][name]) {
					return
				}
			}
		}
	}
}
