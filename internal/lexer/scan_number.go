package lexer

import (
	"fmt"
	"strconv"

	"pyl/internal/diag"
	"pyl/internal/token"
)

// scanNumber: [0-9]+ ('.' [0-9]*)?
// Вторая точка в том же литерале: ошибка UnexpectedChar; после неё курсор
// проматывается до ближайшего пробельного символа, чтобы один плохой
// литерал не порождал каскад ошибок.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	hasDot := false

	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if isDec(b) {
			lx.cursor.Bump()
			continue
		}
		if b != '.' {
			break
		}
		if !hasDot {
			hasDot = true
			lx.cursor.Bump()
			continue
		}
		lx.cursor.Bump()
		for !lx.cursor.EOF() && !isSpace(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		tok := lx.emit(token.Invalid, start)
		lx.errLex(diag.LexUnexpectedChar, tok.Span, "Unexpected character: `.`")
		return tok
	}

	var err error
	tok := lx.emit(token.IntLit, start)
	if hasDot {
		tok.Kind = token.FloatLit
		_, err = strconv.ParseFloat(tok.Text, 64)
	} else {
		_, err = strconv.ParseInt(tok.Text, 10, 64)
	}
	if err != nil {
		tok.Kind = token.Invalid
		lx.errLex(diag.LexInvalidLiteral, tok.Span, fmt.Sprintf("Invalid literal: `%s`", tok.Text))
	}
	return tok
}
