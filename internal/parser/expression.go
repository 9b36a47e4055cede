package parser

import (
	"strconv"

	"pyl/internal/ast"
	"pyl/internal/token"
)

// parseExpr - главная точка входа для парсинга выражений
func (p *Parser) parseExpr() (ast.ExprID, bool) {
	return p.parseBinaryExpr(1)
}

// parseBinaryExpr: precedence climbing. Оператор присоединяется, пока его
// приоритет не ниже minPrec; правая часть разбирается с prec+1, поэтому
// операторы одного уровня группируются влево.
func (p *Parser) parseBinaryExpr(minPrec int) (ast.ExprID, bool) {
	left, ok := p.parseUnaryExpr()
	if !ok {
		return ast.NoExprID, false
	}

	for {
		tok, ok := p.current()
		if !ok {
			return left, true
		}
		op, prec, isBinary := binaryOp(tok.Kind)
		if !isBinary || prec < minPrec {
			return left, true
		}
		p.advance()

		right, ok := p.parseBinaryExpr(prec + 1)
		if !ok {
			return ast.NoExprID, false
		}
		span := p.arenas.Exprs.Get(left).Span.Cover(p.arenas.Exprs.Get(right).Span)
		left = p.arenas.Exprs.NewBinary(span, op, left, right)
	}
}

// parseUnaryExpr: ('-' | '!')* primary. Префикс применяется к ближайшему
// primary, поэтому -a + b это (-a) + b.
func (p *Parser) parseUnaryExpr() (ast.ExprID, bool) {
	tok, ok := p.currentOrEOF()
	if !ok {
		return ast.NoExprID, false
	}
	op, isUnary := unaryOp(tok.Kind)
	if !isUnary {
		return p.parsePrimaryExpr()
	}
	p.advance()
	operand, ok := p.parseUnaryExpr()
	if !ok {
		return ast.NoExprID, false
	}
	span := tok.Span.Cover(p.arenas.Exprs.Get(operand).Span)
	return p.arenas.Exprs.NewUnary(span, op, operand), true
}

// parsePrimaryExpr: literal | IDENT | IDENT '(' args ')' | '(' expression ')'
func (p *Parser) parsePrimaryExpr() (ast.ExprID, bool) {
	tok, ok := p.currentOrEOF()
	if !ok {
		return ast.NoExprID, false
	}
	switch tok.Kind {
	case token.IntLit, token.FloatLit, token.BoolLit:
		return p.parseLiteral()
	case token.Ident:
		return p.parseIdentOrCall()
	case token.LParen:
		open := p.advance()
		inner, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		closeTok, ok := p.expect(token.RParen)
		if !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewGroup(open.Span.Cover(closeTok.Span), inner), true
	default:
		p.errExpectedAny(tok, token.IntLit, token.FloatLit, token.BoolLit, token.Ident, token.LParen)
		return ast.NoExprID, false
	}
}

func (p *Parser) parseLiteral() (ast.ExprID, bool) {
	tok := p.advance()
	data := ast.ExprLiteralData{Raw: p.arenas.StringsInterner.Intern(tok.Text)}
	switch tok.Kind {
	case token.IntLit:
		data.Kind = ast.ExprLitInt
		// лексер уже проверил, что литерал помещается в int64
		data.Int, _ = strconv.ParseInt(tok.Text, 10, 64)
	case token.FloatLit:
		data.Kind = ast.ExprLitFloat
		data.Float, _ = strconv.ParseFloat(tok.Text, 64)
	case token.BoolLit:
		data.Kind = ast.ExprLitBool
		data.Bool = tok.Text == "true"
	}
	return p.arenas.Exprs.NewLiteral(tok.Span, data), true
}

func (p *Parser) parseIdentOrCall() (ast.ExprID, bool) {
	name, ok := p.parseIdent()
	if !ok {
		return ast.NoExprID, false
	}
	if !p.at(token.LParen) {
		return p.arenas.Exprs.NewIdent(name.Span, name.Name), true
	}
	p.advance()

	var args []ast.ExprID
	if closeTok, ok := p.eat(token.RParen); ok {
		return p.arenas.Exprs.NewCall(name.Span.Cover(closeTok.Span), name, args), true
	}
	for {
		arg, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		args = append(args, arg)

		tok, ok := p.currentOrEOF()
		if !ok {
			return ast.NoExprID, false
		}
		switch tok.Kind {
		case token.Comma:
			p.advance()
		case token.RParen:
			p.advance()
			return p.arenas.Exprs.NewCall(name.Span.Cover(tok.Span), name, args), true
		default:
			p.errExpectedAny(tok, token.Comma, token.RParen)
			return ast.NoExprID, false
		}
	}
}
