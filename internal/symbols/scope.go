package symbols

import (
	"pyl/internal/source"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid ScopeKind = iota
	ScopeGlobal            // top-level functions of one compilation unit
	ScopeParams            // function parameters
	ScopeBlock             // `{ ... }`, including if/else arms
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeParams:
		return "params"
	case ScopeBlock:
		return "block"
	default:
		return "invalid"
	}
}

// Scope models a lexical scope with a parent-child hierarchy. Variables and
// functions live in separate namespaces; Order keeps variables in
// declaration order for end-of-scope reporting.
type Scope struct {
	Kind     ScopeKind
	Parent   ScopeID
	Span     source.Span
	Vars     map[source.StringID]SymbolID
	Funcs    map[source.StringID]SymbolID
	Order    []SymbolID
	Children []ScopeID
}
