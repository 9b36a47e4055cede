package lexer

import (
	"fmt"

	"pyl/internal/diag"
	"pyl/internal/token"
)

// Двухсимвольные операторы. Второй символ съедается только если пара
// известна, поэтому "=-" даёт два токена, а не один неизвестный.
var twoCharOps = map[[2]byte]token.Kind{
	{'=', '='}: token.EqEq,
	{'!', '='}: token.BangEq,
	{'<', '='}: token.LtEq,
	{'>', '='}: token.GtEq,
	{'&', '&'}: token.AndAnd,
	{'|', '|'}: token.OrOr,
	{'-', '>'}: token.Arrow,
	{'+', '='}: token.PlusAssign,
	{'-', '='}: token.MinusAssign,
	{'*', '='}: token.StarAssign,
	{'/', '='}: token.SlashAssign,
	{'%', '='}: token.PercentAssign,
	{'^', '='}: token.CaretAssign,
}

var oneCharOps = map[byte]token.Kind{
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Star,
	'/': token.Slash,
	'%': token.Percent,
	'^': token.Caret,
	'=': token.Assign,
	'<': token.Lt,
	'>': token.Gt,
	'!': token.Bang,
	'&': token.Amp,
	'|': token.Pipe,
}

// scanOperator читает оператор; оператор последним байтом входа: UnexpectedEOF.
func (lx *Lexer) scanOperator() token.Token {
	start := lx.cursor.Mark()
	if b0, b1, ok := lx.cursor.Peek2(); ok {
		if k, known := twoCharOps[[2]byte{b0, b1}]; known {
			lx.cursor.Bump()
			lx.cursor.Bump()
			return lx.emit(k, start)
		}
	}

	ch := lx.cursor.Bump()
	if lx.cursor.EOF() {
		tok := lx.emit(token.Invalid, start)
		lx.errLex(diag.LexUnexpectedEOF, tok.Span, "Unexpected EOF")
		return tok
	}
	return lx.emit(oneCharOps[ch], start)
}

func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Mark()
	ch := lx.cursor.Bump()
	switch ch {
	case '{':
		return lx.emit(token.LBrace, start)
	case '}':
		return lx.emit(token.RBrace, start)
	case '(':
		return lx.emit(token.LParen, start)
	case ')':
		return lx.emit(token.RParen, start)
	case ';':
		return lx.emit(token.Semicolon, start)
	case ',':
		return lx.emit(token.Comma, start)
	case '.':
		return lx.emit(token.Dot, start)
	case ':':
		return lx.emit(token.Colon, start)
	default:
		tok := lx.emit(token.Invalid, start)
		lx.errLex(diag.LexUnexpectedChar, tok.Span, fmt.Sprintf("Unexpected character: `%s`", tok.Text))
		return tok
	}
}
