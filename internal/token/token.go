package token

import (
	"pyl/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is a numeric or boolean literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, BoolLit:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// Spelling returns the text the token stands for: the fixed spelling for
// keywords and operators, the source text otherwise.
func (t Token) Spelling() string {
	if t.Kind.HasFixedSpelling() {
		return t.Kind.String()
	}
	return t.Text
}
