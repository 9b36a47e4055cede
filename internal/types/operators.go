package types

import "pyl/internal/ast"

// FamilyMask describes broad categories of types an operator accepts.
type FamilyMask uint8

const (
	FamilyNone FamilyMask = 0
	FamilyBool FamilyMask = 1 << iota
	FamilyInt
	FamilyFloat
)

const (
	FamilyNumeric = FamilyInt | FamilyFloat
	FamilyAny     = FamilyNumeric | FamilyBool
)

// FamilyOf maps a kind to its family; invalid types belong to none.
func FamilyOf(k Kind) FamilyMask {
	switch k {
	case KindInt:
		return FamilyInt
	case KindFloat:
		return FamilyFloat
	case KindBool:
		return FamilyBool
	default:
		return FamilyNone
	}
}

// BinaryResult describes how to derive the result type for an operator.
type BinaryResult uint8

const (
	BinaryResultUnknown BinaryResult = iota
	BinaryResultOperand
	BinaryResultBool
)

// BinarySpec lists operand families and expected result for an operation.
// Both operands must have the same type.
type BinarySpec struct {
	Operands FamilyMask
	Result   BinaryResult
}

// UnaryResult indicates how to derive the resulting type.
type UnaryResult uint8

const (
	UnaryResultUnknown UnaryResult = iota
	UnaryResultSame
	UnaryResultBool
)

// UnarySpec describes operand expectations for unary operators.
type UnarySpec struct {
	Operand FamilyMask
	Result  UnaryResult
}

var binarySpecTable = map[ast.ExprBinaryOp]BinarySpec{
	ast.ExprBinaryAdd:        {Operands: FamilyNumeric, Result: BinaryResultOperand},
	ast.ExprBinarySub:        {Operands: FamilyNumeric, Result: BinaryResultOperand},
	ast.ExprBinaryMul:        {Operands: FamilyNumeric, Result: BinaryResultOperand},
	ast.ExprBinaryDiv:        {Operands: FamilyNumeric, Result: BinaryResultOperand},
	ast.ExprBinaryMod:        {Operands: FamilyNumeric, Result: BinaryResultOperand},
	ast.ExprBinaryLess:       {Operands: FamilyNumeric, Result: BinaryResultBool},
	ast.ExprBinaryLessEq:     {Operands: FamilyNumeric, Result: BinaryResultBool},
	ast.ExprBinaryGreater:    {Operands: FamilyNumeric, Result: BinaryResultBool},
	ast.ExprBinaryGreaterEq:  {Operands: FamilyNumeric, Result: BinaryResultBool},
	ast.ExprBinaryEq:         {Operands: FamilyAny, Result: BinaryResultBool},
	ast.ExprBinaryNotEq:      {Operands: FamilyAny, Result: BinaryResultBool},
	ast.ExprBinaryLogicalAnd: {Operands: FamilyBool, Result: BinaryResultBool},
	ast.ExprBinaryLogicalOr:  {Operands: FamilyBool, Result: BinaryResultBool},
}

var unarySpecTable = map[ast.ExprUnaryOp]UnarySpec{
	ast.ExprUnaryMinus: {Operand: FamilyNumeric, Result: UnaryResultSame},
	ast.ExprUnaryNot:   {Operand: FamilyBool, Result: UnaryResultBool},
}

// BinarySpecFor returns the spec for op.
func BinarySpecFor(op ast.ExprBinaryOp) (BinarySpec, bool) {
	spec, ok := binarySpecTable[op]
	return spec, ok
}

// UnarySpecFor returns the spec for op.
func UnarySpecFor(op ast.ExprUnaryOp) (UnarySpec, bool) {
	spec, ok := unarySpecTable[op]
	return spec, ok
}

// Accepts reports whether t belongs to one of the families in the mask.
func (m FamilyMask) Accepts(t Type) bool {
	return m&FamilyOf(t.Kind) != 0
}
