package types

import (
	"fmt"

	"pyl/internal/ast"
	"pyl/internal/source"
)

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	// KindInvalid marks an expression whose type could not be derived;
	// checks involving it are skipped so one error does not cascade.
	KindInvalid Kind = iota
	KindInt
	KindFloat
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a primitive type together with the place it was written or inferred.
type Type struct {
	Kind Kind
	Span source.Span
}

// Primitive builds a Type of the given kind anchored at sp.
func Primitive(k Kind, sp source.Span) Type {
	return Type{Kind: k, Span: sp}
}

// Invalid returns the poison type.
func Invalid(sp source.Span) Type {
	return Type{Kind: KindInvalid, Span: sp}
}

// Equal compares kinds only: two occurrences of `int` are the same type.
func (t Type) Equal(other Type) bool {
	return t.Kind == other.Kind
}

// IsValid reports whether the type is usable in further checks.
func (t Type) IsValid() bool {
	return t.Kind != KindInvalid
}

func (t Type) String() string {
	return t.Kind.String()
}

// FromAST converts a written type annotation.
func FromAST(ref ast.TypeRef) Type {
	switch ref.Kind {
	case ast.TypeInt:
		return Primitive(KindInt, ref.Span)
	case ast.TypeFloat:
		return Primitive(KindFloat, ref.Span)
	case ast.TypeBool:
		return Primitive(KindBool, ref.Span)
	default:
		return Invalid(ref.Span)
	}
}

// FromLiteral returns the type of a literal of the given kind.
func FromLiteral(kind ast.ExprLitKind, sp source.Span) Type {
	switch kind {
	case ast.ExprLitInt:
		return Primitive(KindInt, sp)
	case ast.ExprLitFloat:
		return Primitive(KindFloat, sp)
	case ast.ExprLitBool:
		return Primitive(KindBool, sp)
	default:
		return Invalid(sp)
	}
}
