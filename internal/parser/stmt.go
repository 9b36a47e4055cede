package parser

import (
	"pyl/internal/ast"
	"pyl/internal/token"
)

// parseBlock: '{' statement* '}'
func (p *Parser) parseBlock() (ast.StmtID, bool) {
	open, ok := p.expect(token.LBrace)
	if !ok {
		return ast.NoStmtID, false
	}
	var stmts []ast.StmtID
	for {
		tok, ok := p.currentOrEOF()
		if !ok {
			return ast.NoStmtID, false
		}
		if tok.Kind == token.RBrace {
			p.advance()
			return p.arenas.Stmts.NewBlock(open.Span.Cover(tok.Span), stmts), true
		}
		stmt, ok := p.parseStmt()
		if !ok {
			return ast.NoStmtID, false
		}
		stmts = append(stmts, stmt)
	}
}

func (p *Parser) parseStmt() (ast.StmtID, bool) {
	tok, ok := p.currentOrEOF()
	if !ok {
		return ast.NoStmtID, false
	}
	switch tok.Kind {
	case token.KwLet:
		return p.parseLetStmt()
	case token.KwIf:
		return p.parseIfStmt()
	case token.KwReturn:
		return p.parseReturnStmt()
	default:
		return p.parseExprStmt()
	}
}

// parseLetStmt: 'let' IDENT ':' type '=' expression ';'
func (p *Parser) parseLetStmt() (ast.StmtID, bool) {
	letTok, ok := p.expect(token.KwLet)
	if !ok {
		return ast.NoStmtID, false
	}
	name, ok := p.parseIdent()
	if !ok {
		return ast.NoStmtID, false
	}
	if _, ok = p.expect(token.Colon); !ok {
		return ast.NoStmtID, false
	}
	typ, ok := p.parseType()
	if !ok {
		return ast.NoStmtID, false
	}
	if _, ok = p.expect(token.Assign); !ok {
		return ast.NoStmtID, false
	}
	value, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	semi, ok := p.expect(token.Semicolon)
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewLet(letTok.Span.Cover(semi.Span), name, typ, value), true
}

// parseIfStmt: 'if' expression block ('else' block)?
func (p *Parser) parseIfStmt() (ast.StmtID, bool) {
	ifTok, ok := p.expect(token.KwIf)
	if !ok {
		return ast.NoStmtID, false
	}
	cond, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	then, ok := p.parseBlock()
	if !ok {
		return ast.NoStmtID, false
	}
	span := ifTok.Span.Cover(p.arenas.Stmts.Get(then).Span)

	els := ast.NoStmtID
	if _, hasElse := p.eat(token.KwElse); hasElse {
		els, ok = p.parseBlock()
		if !ok {
			return ast.NoStmtID, false
		}
		span = span.Cover(p.arenas.Stmts.Get(els).Span)
	}
	return p.arenas.Stmts.NewIf(span, cond, then, els), true
}

// parseReturnStmt: 'return' expression? ';'
func (p *Parser) parseReturnStmt() (ast.StmtID, bool) {
	retTok, ok := p.expect(token.KwReturn)
	if !ok {
		return ast.NoStmtID, false
	}
	value := ast.NoExprID
	tok, ok := p.currentOrEOF()
	if !ok {
		return ast.NoStmtID, false
	}
	if tok.Kind != token.Semicolon {
		value, ok = p.parseExpr()
		if !ok {
			return ast.NoStmtID, false
		}
	}
	semi, ok := p.expect(token.Semicolon)
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewReturn(retTok.Span.Cover(semi.Span), value), true
}

// parseExprStmt: expression ';'
func (p *Parser) parseExprStmt() (ast.StmtID, bool) {
	expr, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	semi, ok := p.expect(token.Semicolon)
	if !ok {
		return ast.NoStmtID, false
	}
	span := p.arenas.Exprs.Get(expr).Span.Cover(semi.Span)
	return p.arenas.Stmts.NewExpr(span, expr), true
}
