package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"pyl/internal/source"
)

// Hints provide optional capacity suggestions for the symbol table arenas.
type Hints struct{ Scopes, Symbols uint }

// Table is a tree of scopes stored in an arena; a child refers to its parent
// by index, so a parent can keep growing while children are walked.
type Table struct {
	Scopes  *Scopes
	Symbols *Symbols
	Strings *source.Interner
	Global  ScopeID
}

// NewTable builds a fresh table with its global scope already allocated.
// If strings is nil, a fresh interner is allocated.
func NewTable(h Hints, strings *source.Interner, span source.Span) *Table {
	scopeCap, err := safecast.Conv[uint32](h.Scopes)
	if err != nil {
		panic(fmt.Errorf("scope capacity overflow: %w", err))
	}
	symCap, err := safecast.Conv[uint32](h.Symbols)
	if err != nil {
		panic(fmt.Errorf("symbol capacity overflow: %w", err))
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	t := &Table{
		Scopes:  NewScopes(scopeCap),
		Symbols: NewSymbols(symCap),
		Strings: strings,
	}
	t.Global = t.Scopes.New(ScopeGlobal, NoScopeID, span)
	return t
}

// Enter opens a child scope of parent.
func (t *Table) Enter(kind ScopeKind, parent ScopeID, span source.Span) ScopeID {
	return t.Scopes.New(kind, parent, span)
}

// Declare adds sym to scope. If the name is already bound in that same
// scope (same namespace) nothing is added and the existing symbol is
// returned with ok=false; bindings in parent scopes never collide.
func (t *Table) Declare(scope ScopeID, sym Symbol) (id SymbolID, ok bool) {
	sc := t.Scopes.Get(scope)
	if sc == nil {
		return NoSymbolID, false
	}
	index := sc.Vars
	if sym.Kind == SymbolFunction {
		index = sc.Funcs
	}
	if prev, exists := index[sym.Name]; exists {
		return prev, false
	}
	sym.Scope = scope
	id = t.Symbols.New(&sym)
	index[sym.Name] = id
	if sym.Kind != SymbolFunction {
		sc.Order = append(sc.Order, id)
	}
	return id, true
}

// LookupVar walks from scope to the root and returns the nearest variable
// binding for name.
func (t *Table) LookupVar(scope ScopeID, name source.StringID) SymbolID {
	return t.lookup(scope, name, false)
}

// LookupFunc is LookupVar for the function namespace.
func (t *Table) LookupFunc(scope ScopeID, name source.StringID) SymbolID {
	return t.lookup(scope, name, true)
}

func (t *Table) lookup(scope ScopeID, name source.StringID, fn bool) SymbolID {
	for id := scope; id.IsValid(); {
		sc := t.Scopes.Get(id)
		if sc == nil {
			return NoSymbolID
		}
		index := sc.Vars
		if fn {
			index = sc.Funcs
		}
		if sym, ok := index[name]; ok {
			return sym
		}
		id = sc.Parent
	}
	return NoSymbolID
}

// MarkUsed flags the symbol as referenced.
func (t *Table) MarkUsed(id SymbolID) {
	if sym := t.Symbols.Get(id); sym != nil {
		sym.Used = true
	}
}

// Unused returns the variables of scope that were never referenced, in
// declaration order.
func (t *Table) Unused(scope ScopeID) []SymbolID {
	sc := t.Scopes.Get(scope)
	if sc == nil {
		return nil
	}
	var out []SymbolID
	for _, id := range sc.Order {
		if sym := t.Symbols.Get(id); sym != nil && !sym.Used {
			out = append(out, id)
		}
	}
	return out
}

// Name returns the identifier text of a symbol.
func (t *Table) Name(id SymbolID) string {
	sym := t.Symbols.Get(id)
	if sym == nil {
		return ""
	}
	s, _ := t.Strings.Lookup(sym.Name)
	return s
}
