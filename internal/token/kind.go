package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// IntLit represents an integer literal.
	IntLit
	// FloatLit represents a float literal.
	FloatLit
	// BoolLit represents true/false.
	BoolLit

	KwFn     // fn
	KwIf     // if
	KwElse   // else
	KwLet    // let
	KwReturn // return
	KwInt    // int
	KwBool   // bool
	KwFloat  // float

	Plus          // +
	Minus         // -
	Star          // *
	Slash         // /
	Percent       // %
	Caret         // ^
	Bang          // !
	Assign        // =
	Lt            // <
	Gt            // >
	Amp           // &
	Pipe          // |
	PlusAssign    // +=
	MinusAssign   // -=
	StarAssign    // *=
	SlashAssign   // /=
	PercentAssign // %=
	CaretAssign   // ^=
	BangEq        // !=
	LtEq          // <=
	GtEq          // >=
	EqEq          // ==
	AndAnd        // &&
	OrOr          // ||
	Arrow         // ->

	LBrace    // {
	RBrace    // }
	LParen    // (
	RParen    // )
	Semicolon // ;
	Comma     // ,
	Dot       // .
	Colon     // :
)

var kindSpelling = [...]string{
	Invalid:       "Invalid",
	EOF:           "EOF",
	Ident:         "Ident",
	IntLit:        "IntLit",
	FloatLit:      "FloatLit",
	BoolLit:       "BoolLit",
	KwFn:          "fn",
	KwIf:          "if",
	KwElse:        "else",
	KwLet:         "let",
	KwReturn:      "return",
	KwInt:         "int",
	KwBool:        "bool",
	KwFloat:       "float",
	Plus:          "+",
	Minus:         "-",
	Star:          "*",
	Slash:         "/",
	Percent:       "%",
	Caret:         "^",
	Bang:          "!",
	Assign:        "=",
	Lt:            "<",
	Gt:            ">",
	Amp:           "&",
	Pipe:          "|",
	PlusAssign:    "+=",
	MinusAssign:   "-=",
	StarAssign:    "*=",
	SlashAssign:   "/=",
	PercentAssign: "%=",
	CaretAssign:   "^=",
	BangEq:        "!=",
	LtEq:          "<=",
	GtEq:          ">=",
	EqEq:          "==",
	AndAnd:        "&&",
	OrOr:          "||",
	Arrow:         "->",
	LBrace:        "{",
	RBrace:        "}",
	LParen:        "(",
	RParen:        ")",
	Semicolon:     ";",
	Comma:         ",",
	Dot:           ".",
	Colon:         ":",
}

// String returns the canonical spelling for fixed kinds and the kind name
// for literal/identifier kinds.
func (k Kind) String() string {
	if int(k) < len(kindSpelling) && kindSpelling[k] != "" {
		return kindSpelling[k]
	}
	return "Unknown"
}

// HasFixedSpelling reports whether String() is real source text.
func (k Kind) HasFixedSpelling() bool {
	return k >= KwFn && k <= Colon
}

// IsKeyword reports whether the kind is a reserved word.
func (k Kind) IsKeyword() bool {
	return k >= KwFn && k <= KwFloat
}

// IsOperator reports whether the kind is an operator token.
func (k Kind) IsOperator() bool {
	return k >= Plus && k <= Arrow
}

// IsPunct reports whether the kind is a single-character punctuation token.
func (k Kind) IsPunct() bool {
	return k >= LBrace && k <= Colon
}

// IsTypeKeyword reports whether the kind names a primitive type.
func (k Kind) IsTypeKeyword() bool {
	return k == KwInt || k == KwBool || k == KwFloat
}
