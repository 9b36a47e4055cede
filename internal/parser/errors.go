package parser

import (
	"fmt"
	"strings"

	"pyl/internal/diag"
	"pyl/internal/source"
	"pyl/internal/token"
)

// SyntaxError is the first syntax error of a file; parsing stops there.
type SyntaxError struct {
	Code     diag.Code
	Message  string
	Span     source.Span
	Expected []token.Kind
	Found    token.Token
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Code.ID(), e.Span, e.Message)
}

// describeKind: как вид токена выглядит в сообщении.
func describeKind(k token.Kind) string {
	switch k {
	case token.Ident:
		return "identifier"
	case token.IntLit:
		return "integer literal"
	case token.FloatLit:
		return "float literal"
	case token.BoolLit:
		return "boolean literal"
	case token.EOF:
		return "EOF"
	default:
		return "`" + k.String() + "`"
	}
}

func describeFound(tok token.Token) string {
	if tok.Text != "" {
		return tok.Text
	}
	return tok.Kind.String()
}

func (p *Parser) eofSpan() source.Span {
	if n := len(p.tokens); n > 0 {
		return p.tokens[n-1].Span
	}
	return source.ZeroSpan(p.file)
}

func (p *Parser) errExpected(found token.Token, want token.Kind) {
	p.fail(&SyntaxError{
		Code:     diag.SynExpectedToken,
		Message:  fmt.Sprintf("Expected token: %s, found: `%s`", describeKind(want), describeFound(found)),
		Span:     found.Span,
		Expected: []token.Kind{want},
		Found:    found,
	})
}

func (p *Parser) errExpectedAny(found token.Token, want ...token.Kind) {
	parts := make([]string, len(want))
	for i, k := range want {
		parts[i] = describeKind(k)
	}
	p.fail(&SyntaxError{
		Code:     diag.SynExpectedAnyToken,
		Message:  fmt.Sprintf("Expected any of the tokens: %s, found: `%s`", strings.Join(parts, ", "), describeFound(found)),
		Span:     found.Span,
		Expected: append([]token.Kind(nil), want...),
		Found:    found,
	})
}

func (p *Parser) errEOF() {
	sp := p.eofSpan()
	p.fail(&SyntaxError{
		Code:    diag.SynUnexpectedEOF,
		Message: "Unexpected EOF",
		Span:    sp,
		Found:   token.Token{Kind: token.EOF, Span: sp},
	})
}

// fail запоминает только первую ошибку и репортит её.
func (p *Parser) fail(e *SyntaxError) {
	if p.failed != nil {
		return
	}
	p.failed = e
	if p.opts.Reporter == nil {
		return
	}
	b := diag.ReportError(p.opts.Reporter, e.Code, e.Span, e.Message)
	if len(e.Expected) > 0 {
		parts := make([]string, len(e.Expected))
		for i, k := range e.Expected {
			parts[i] = k.String()
		}
		b.WithField("expected", strings.Join(parts, ","))
	}
	b.WithField("found", describeFound(e.Found))
	b.Emit()
}
