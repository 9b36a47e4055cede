package symbols

import (
	"pyl/internal/ast"
	"pyl/internal/source"
	"pyl/internal/types"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolFunction
	SymbolLet
	SymbolParam
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolFunction:
		return "function"
	case SymbolLet:
		return "let"
	case SymbolParam:
		return "param"
	default:
		return "invalid"
	}
}

// Symbol describes a named entity available in a scope.
type Symbol struct {
	Name  source.StringID
	Kind  SymbolKind
	Scope ScopeID

	// Переменные и параметры.
	Type types.Type

	// Функции.
	Params  []types.Type
	Result  types.Type
	SigSpan source.Span
	Item    ast.ItemID

	// DeclSpan covers the whole declaration, NameSpan only the identifier.
	DeclSpan source.Span
	NameSpan source.Span
	Used     bool
}

// IsVariable reports whether the symbol lives in the variable namespace.
func (s *Symbol) IsVariable() bool {
	return s.Kind == SymbolLet || s.Kind == SymbolParam
}
