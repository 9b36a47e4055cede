package parser

import (
	"pyl/internal/ast"
	"pyl/internal/token"
)

// parseFnItem: 'fn' IDENT '(' (param (',' param)*)? ')' '->' type block
func (p *Parser) parseFnItem() (ast.ItemID, bool) {
	fnTok, ok := p.expect(token.KwFn)
	if !ok {
		return ast.NoItemID, false
	}
	name, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}
	params, ok := p.parseFnParams()
	if !ok {
		return ast.NoItemID, false
	}
	if _, ok = p.expect(token.Arrow); !ok {
		return ast.NoItemID, false
	}
	result, ok := p.parseType()
	if !ok {
		return ast.NoItemID, false
	}
	sigSpan := fnTok.Span.Cover(result.Span)

	body, ok := p.parseBlock()
	if !ok {
		return ast.NoItemID, false
	}
	span := fnTok.Span.Cover(p.arenas.Stmts.Get(body).Span)
	return p.arenas.Items.NewFn(name, params, result, body, sigSpan, span), true
}

func (p *Parser) parseFnParams() ([]ast.FnParamID, bool) {
	if _, ok := p.expect(token.LParen); !ok {
		return nil, false
	}
	var params []ast.FnParamID
	if _, ok := p.eat(token.RParen); ok {
		return params, true
	}
	for {
		param, ok := p.parseFnParam()
		if !ok {
			return nil, false
		}
		params = append(params, param)

		tok, ok := p.currentOrEOF()
		if !ok {
			return nil, false
		}
		switch tok.Kind {
		case token.Comma:
			p.advance()
		case token.RParen:
			p.advance()
			return params, true
		default:
			p.errExpectedAny(tok, token.Comma, token.RParen)
			return nil, false
		}
	}
}

// parseFnParam: IDENT ':' type
func (p *Parser) parseFnParam() (ast.FnParamID, bool) {
	name, ok := p.parseIdent()
	if !ok {
		return ast.NoFnParamID, false
	}
	if _, ok = p.expect(token.Colon); !ok {
		return ast.NoFnParamID, false
	}
	typ, ok := p.parseType()
	if !ok {
		return ast.NoFnParamID, false
	}
	return p.arenas.Items.NewFnParam(name, typ, name.Span.Cover(typ.Span)), true
}
