package lexer

import (
	"fmt"

	"pyl/internal/diag"
	"pyl/internal/token"
)

const utf8RuneSelf = 0x80

// scanWord сканирует максимальный [A-Za-z0-9_] прогон (плюс Unicode буквы)
// и проверяет через LookupKeyword. Token.Text: ровно исходный срез.
func (lx *Lexer) scanWord() token.Token {
	start := lx.cursor.Mark()

	r, sz := lx.peekRune()
	if sz == 0 {
		return lx.emit(token.Invalid, start)
	}
	if r >= utf8RuneSelf && !isIdentStartRune(r) {
		lx.bumpRune()
		tok := lx.emit(token.Invalid, start)
		lx.errLex(diag.LexUnexpectedChar, tok.Span, fmt.Sprintf("Unexpected character: `%s`", tok.Text))
		return tok
	}

	for {
		r, sz := lx.peekRune()
		if sz == 0 {
			break
		}
		if r < utf8RuneSelf {
			if !isIdentContinueByte(byte(r)) {
				break
			}
			lx.cursor.Bump()
			continue
		}
		if !isIdentContinueRune(r) {
			break
		}
		lx.bumpRune()
	}

	tok := lx.emit(token.Ident, start)
	if k, ok := token.LookupKeyword(tok.Text); ok {
		tok.Kind = k
	}
	return tok
}
