package parser

import (
	"pyl/internal/ast"
	"pyl/internal/token"
)

// Таблица приоритетов для бинарных операторов
// Чем больше число, тем выше приоритет
const (
	precLogicalOr      = 1 // ||
	precLogicalAnd     = 2 // &&
	precEquality       = 3 // == !=
	precComparison     = 4 // < <= > >=
	precAdditive       = 5 // + -
	precMultiplicative = 6 // * / %
)

// binaryOp возвращает оператор и приоритет; все операторы левоассоциативны.
func binaryOp(kind token.Kind) (ast.ExprBinaryOp, int, bool) {
	switch kind {
	case token.OrOr:
		return ast.ExprBinaryLogicalOr, precLogicalOr, true
	case token.AndAnd:
		return ast.ExprBinaryLogicalAnd, precLogicalAnd, true
	case token.EqEq:
		return ast.ExprBinaryEq, precEquality, true
	case token.BangEq:
		return ast.ExprBinaryNotEq, precEquality, true
	case token.Lt:
		return ast.ExprBinaryLess, precComparison, true
	case token.LtEq:
		return ast.ExprBinaryLessEq, precComparison, true
	case token.Gt:
		return ast.ExprBinaryGreater, precComparison, true
	case token.GtEq:
		return ast.ExprBinaryGreaterEq, precComparison, true
	case token.Plus:
		return ast.ExprBinaryAdd, precAdditive, true
	case token.Minus:
		return ast.ExprBinarySub, precAdditive, true
	case token.Star:
		return ast.ExprBinaryMul, precMultiplicative, true
	case token.Slash:
		return ast.ExprBinaryDiv, precMultiplicative, true
	case token.Percent:
		return ast.ExprBinaryMod, precMultiplicative, true
	default:
		return 0, -1, false
	}
}

func unaryOp(kind token.Kind) (ast.ExprUnaryOp, bool) {
	switch kind {
	case token.Minus:
		return ast.ExprUnaryMinus, true
	case token.Bang:
		return ast.ExprUnaryNot, true
	default:
		return 0, false
	}
}
