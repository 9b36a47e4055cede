package ast

import (
	"pyl/internal/source"
)

// ExprKind enumerates the different kinds of expressions.
type ExprKind uint8

const (
	// ExprIdent represents an identifier expression.
	ExprIdent ExprKind = iota
	// ExprLit represents a literal expression.
	ExprLit
	// ExprGroup represents a parenthesized expression.
	ExprGroup
	// ExprCall represents a function call expression.
	ExprCall
	// ExprUnary represents a unary expression.
	ExprUnary
	// ExprBinary represents a binary expression.
	ExprBinary
)

// Expr represents an expression node in the AST.
type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

// ExprBinaryOp enumerates binary operator kinds.
type ExprBinaryOp uint8

const (
	// Арифметические
	ExprBinaryAdd ExprBinaryOp = iota
	ExprBinarySub
	ExprBinaryMul
	ExprBinaryDiv
	ExprBinaryMod

	// Логические
	ExprBinaryLogicalAnd
	ExprBinaryLogicalOr

	// Сравнения
	ExprBinaryEq
	ExprBinaryNotEq
	ExprBinaryLess
	ExprBinaryLessEq
	ExprBinaryGreater
	ExprBinaryGreaterEq
)

// String returns the symbol representation of a binary operator.
func (op ExprBinaryOp) String() string {
	switch op {
	case ExprBinaryAdd:
		return "+"
	case ExprBinarySub:
		return "-"
	case ExprBinaryMul:
		return "*"
	case ExprBinaryDiv:
		return "/"
	case ExprBinaryMod:
		return "%"
	case ExprBinaryLogicalAnd:
		return "&&"
	case ExprBinaryLogicalOr:
		return "||"
	case ExprBinaryEq:
		return "=="
	case ExprBinaryNotEq:
		return "!="
	case ExprBinaryLess:
		return "<"
	case ExprBinaryLessEq:
		return "<="
	case ExprBinaryGreater:
		return ">"
	case ExprBinaryGreaterEq:
		return ">="
	default:
		return "?"
	}
}

// IsComparison reports whether op yields bool regardless of operand type.
func (op ExprBinaryOp) IsComparison() bool {
	return op >= ExprBinaryEq && op <= ExprBinaryGreaterEq
}

// ExprUnaryOp enumerates unary operator kinds.
type ExprUnaryOp uint8

const (
	// ExprUnaryMinus represents negation (-).
	ExprUnaryMinus ExprUnaryOp = iota
	// ExprUnaryNot represents logical not (!).
	ExprUnaryNot
)

func (op ExprUnaryOp) String() string {
	switch op {
	case ExprUnaryMinus:
		return "-"
	case ExprUnaryNot:
		return "!"
	default:
		return "?"
	}
}

// ExprLitKind enumerates literal kinds.
type ExprLitKind uint8

const (
	ExprLitInt ExprLitKind = iota
	ExprLitFloat
	ExprLitBool
)

func (k ExprLitKind) String() string {
	switch k {
	case ExprLitInt:
		return "int"
	case ExprLitFloat:
		return "float"
	case ExprLitBool:
		return "bool"
	default:
		return "?"
	}
}

type ExprIdentData struct {
	Name source.StringID
}

// ExprLiteralData keeps the source text and the decoded value.
type ExprLiteralData struct {
	Kind  ExprLitKind
	Raw   source.StringID
	Int   int64
	Float float64
	Bool  bool
}

type ExprGroupData struct {
	Inner ExprID
}

type ExprCallData struct {
	Callee Ident
	Args   []ExprID
}

type ExprUnaryData struct {
	Op      ExprUnaryOp
	Operand ExprID
}

type ExprBinaryData struct {
	Op    ExprBinaryOp
	Left  ExprID
	Right ExprID
}
