package parser

import (
	"pyl/internal/token"
)

// current: текущий токен без потребления; false в конце потока.
func (p *Parser) current() (token.Token, bool) {
	if p.pos >= len(p.tokens) {
		return token.Token{}, false
	}
	return p.tokens[p.pos], true
}

// currentOrEOF: как current, но конец потока здесь ошибка UnexpectedEOF.
func (p *Parser) currentOrEOF() (token.Token, bool) {
	tok, ok := p.current()
	if !ok {
		p.errEOF()
	}
	return tok, ok
}

func (p *Parser) atEOF() bool {
	return p.pos >= len(p.tokens)
}

// advance: съедает текущий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok, ok := p.current()
	if !ok {
		return token.Token{Kind: token.EOF, Span: p.eofSpan()}
	}
	p.pos++
	p.lastSpan = tok.Span
	return tok
}

// expect: ожидаем конкретный токен. Несовпадение или конец потока
// фиксируют ошибку; возвращается (tok, false).
func (p *Parser) expect(k token.Kind) (token.Token, bool) {
	tok, ok := p.currentOrEOF()
	if !ok {
		return tok, false
	}
	if tok.Kind != k {
		p.errExpected(tok, k)
		return tok, false
	}
	return p.advance(), true
}

// eat съедает токен, если он нужного вида.
func (p *Parser) eat(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	return token.Token{}, false
}
