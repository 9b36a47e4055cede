package types

import (
	"testing"

	"pyl/internal/ast"
	"pyl/internal/source"
)

func TestEqualIgnoresSpan(t *testing.T) {
	a := Primitive(KindInt, source.Span{Start: 1, End: 4})
	b := Primitive(KindInt, source.Span{Start: 40, End: 43})
	if !a.Equal(b) {
		t.Fatal("int types at different spans must be equal")
	}
	if a.Equal(Primitive(KindBool, a.Span)) {
		t.Fatal("int must not equal bool")
	}
}

func TestFromAST(t *testing.T) {
	tests := map[ast.TypeKind]Kind{
		ast.TypeInt:   KindInt,
		ast.TypeFloat: KindFloat,
		ast.TypeBool:  KindBool,
	}
	for in, want := range tests {
		if got := FromAST(ast.TypeRef{Kind: in}).Kind; got != want {
			t.Errorf("FromAST(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestOperatorTable(t *testing.T) {
	intT := Primitive(KindInt, source.Span{})
	boolT := Primitive(KindBool, source.Span{})
	floatT := Primitive(KindFloat, source.Span{})

	add, ok := BinarySpecFor(ast.ExprBinaryAdd)
	if !ok || !add.Operands.Accepts(intT) || !add.Operands.Accepts(floatT) || add.Operands.Accepts(boolT) {
		t.Fatalf("add spec = %+v", add)
	}
	eq, _ := BinarySpecFor(ast.ExprBinaryEq)
	if !eq.Operands.Accepts(boolT) || eq.Result != BinaryResultBool {
		t.Fatalf("eq spec = %+v", eq)
	}
	and, _ := BinarySpecFor(ast.ExprBinaryLogicalAnd)
	if and.Operands.Accepts(intT) {
		t.Fatal("&& must reject int")
	}

	neg, _ := UnarySpecFor(ast.ExprUnaryMinus)
	if neg.Operand.Accepts(boolT) || !neg.Operand.Accepts(intT) {
		t.Fatalf("neg spec = %+v", neg)
	}
	not, _ := UnarySpecFor(ast.ExprUnaryNot)
	if not.Operand.Accepts(intT) {
		t.Fatal("! must reject int")
	}
	if FamilyAny.Accepts(Invalid(source.Span{})) {
		t.Fatal("invalid type must not belong to any family")
	}
}
