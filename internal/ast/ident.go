package ast

import "pyl/internal/source"

// Ident is a name occurrence. Symbol tables key on Name only, so two
// occurrences of the same text are the same identifier wherever they appear.
type Ident struct {
	Name source.StringID
	Span source.Span
}

// TypeKind enumerates the type annotations the grammar accepts.
type TypeKind uint8

const (
	TypeInt TypeKind = iota + 1
	TypeFloat
	TypeBool
)

func (k TypeKind) String() string {
	switch k {
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	default:
		return "?"
	}
}

// TypeRef is a written type annotation.
type TypeRef struct {
	Kind TypeKind
	Span source.Span
}
