package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pyl/internal/diag"
	"pyl/internal/lexer"
	"pyl/internal/source"
	"pyl/internal/token"
)

// makeTestLexer создаёт лексер для тестовой строки
func makeTestLexer(input string) (*lexer.Lexer, *diag.Bag) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.pyl", []byte(input))
	bag := diag.NewBag(0)
	lx := lexer.New(fs.Get(fileID), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return lx, bag
}

func kinds(tokens []token.Token) []token.Kind {
	out := make([]token.Kind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func messages(bag *diag.Bag) []string {
	out := make([]string, 0, bag.Len())
	for _, d := range bag.Items() {
		out = append(out, fmt.Sprintf("%s %s", d.Code.ID(), d.Message))
	}
	return out
}

// expectTokens проверяет последовательность токенов (без EOF) и отсутствие ошибок
func expectTokens(t *testing.T, input string, expected ...token.Kind) []token.Token {
	t.Helper()
	lx, bag := makeTestLexer(input)
	tokens := lx.Collect()
	if diff := cmp.Diff(expected, kinds(tokens)); diff != "" {
		t.Fatalf("tokens for %q mismatch (-want +got):\n%s", input, diff)
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics for %q: %v", input, messages(bag))
	}
	return tokens
}

func TestFunctionHeaderTokenCount(t *testing.T) {
	src := "fn add(a: int, b: int) -> int { return a + b; }"
	tokens := expectTokens(t, src,
		token.KwFn, token.Ident, token.LParen,
		token.Ident, token.Colon, token.KwInt, token.Comma,
		token.Ident, token.Colon, token.KwInt, token.RParen,
		token.Arrow, token.KwInt, token.LBrace,
		token.KwReturn, token.Ident, token.Plus, token.Ident, token.Semicolon,
		token.RBrace,
	)
	if len(tokens) != 20 {
		t.Fatalf("expected 20 tokens, got %d", len(tokens))
	}
	if tokens[1].Text != "add" || tokens[1].Span.Start != 3 || tokens[1].Span.End != 6 {
		t.Errorf("ident token = %+v", tokens[1])
	}
}

func TestCanonicalSpellingRoundTrip(t *testing.T) {
	src := "fn if else let return int bool float " +
		"+ - * / % ^ ! = < > & | += -= *= /= %= ^= != <= >= == && || -> " +
		"{ } ( ) ; , . :"
	lx, bag := makeTestLexer(src)
	tokens := lx.Collect()
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", messages(bag))
	}

	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		if !tok.Kind.HasFixedSpelling() {
			t.Fatalf("token %d (%q) has no fixed spelling", i, tok.Text)
		}
		parts[i] = tok.Kind.String()
	}
	if got := strings.Join(parts, " "); got != src {
		t.Fatalf("round trip mismatch:\nwant %q\ngot  %q", src, got)
	}
}

func TestOperatorPairs(t *testing.T) {
	tests := []struct {
		input string
		want  []token.Kind
	}{
		{"a==b", []token.Kind{token.Ident, token.EqEq, token.Ident}},
		{"a=-b", []token.Kind{token.Ident, token.Assign, token.Minus, token.Ident}},
		{"a=-5", []token.Kind{token.Ident, token.Assign, token.Minus, token.IntLit}},
		{"a<-1", []token.Kind{token.Ident, token.Lt, token.Minus, token.IntLit}},
		{"a*-2.5", []token.Kind{token.Ident, token.Star, token.Minus, token.FloatLit}},
		{"a=!b", []token.Kind{token.Ident, token.Assign, token.Bang, token.Ident}},
		{"a|-b", []token.Kind{token.Ident, token.Pipe, token.Minus, token.Ident}},
		{"!!a", []token.Kind{token.Bang, token.Bang, token.Ident}},
		{"a<=b", []token.Kind{token.Ident, token.LtEq, token.Ident}},
		{"a&&b||c", []token.Kind{token.Ident, token.AndAnd, token.Ident, token.OrOr, token.Ident}},
		{"a&b", []token.Kind{token.Ident, token.Amp, token.Ident}},
		{"x+=1", []token.Kind{token.Ident, token.PlusAssign, token.IntLit}},
		{"1--2", []token.Kind{token.IntLit, token.Minus, token.Minus, token.IntLit}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectTokens(t, tt.input, tt.want...)
		})
	}
}

func TestKeywordsAndBoolLiterals(t *testing.T) {
	tokens := expectTokens(t, "true false truex _x Int",
		token.BoolLit, token.BoolLit, token.Ident, token.Ident, token.Ident)
	if tokens[0].Text != "true" || tokens[1].Text != "false" {
		t.Errorf("bool literal text: %q %q", tokens[0].Text, tokens[1].Text)
	}
}

func TestUnicodeIdentifier(t *testing.T) {
	tokens := expectTokens(t, "let число: int", token.KwLet, token.Ident, token.Colon, token.KwInt)
	if tokens[1].Text != "число" {
		t.Errorf("ident text = %q", tokens[1].Text)
	}
}

func TestNumbers(t *testing.T) {
	tokens := expectTokens(t, "0 42 3.14 7.", token.IntLit, token.IntLit, token.FloatLit, token.FloatLit)
	if tokens[2].Text != "3.14" {
		t.Errorf("float text = %q", tokens[2].Text)
	}
}

func TestSecondDotResyncs(t *testing.T) {
	lx, bag := makeTestLexer("1.2.3abc ; x")
	tokens := lx.Collect()

	want := []token.Kind{token.Invalid, token.Semicolon, token.Ident}
	if diff := cmp.Diff(want, kinds(tokens)); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"LEX1001 Unexpected character: `.`"}, messages(bag)); diff != "" {
		t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
	}
	if sp := tokens[0].Span; sp.Start != 0 || sp.End != 8 {
		t.Errorf("bad literal span = %v", sp)
	}
}

func TestIntegerOverflow(t *testing.T) {
	lx, bag := makeTestLexer("99999999999999999999")
	lx.Collect()
	if diff := cmp.Diff([]string{"LEX1003 Invalid literal: `99999999999999999999`"}, messages(bag)); diff != "" {
		t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestUnexpectedCharactersAccumulate(t *testing.T) {
	lx, bag := makeTestLexer("let $x = 1 # 2;")
	tokens := lx.Collect()

	want := []token.Kind{
		token.KwLet, token.Invalid, token.Ident, token.Assign, token.IntLit,
		token.Invalid, token.IntLit, token.Semicolon,
	}
	if diff := cmp.Diff(want, kinds(tokens)); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
	wantMsgs := []string{
		"LEX1001 Unexpected character: `$`",
		"LEX1001 Unexpected character: `#`",
	}
	if diff := cmp.Diff(wantMsgs, messages(bag)); diff != "" {
		t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
	}
	if lx.ErrorCount() != 2 {
		t.Errorf("ErrorCount = %d", lx.ErrorCount())
	}
}

func TestOperatorAtEOF(t *testing.T) {
	lx, bag := makeTestLexer("a +")
	tokens := lx.Collect()
	if diff := cmp.Diff([]token.Kind{token.Ident, token.Invalid}, kinds(tokens)); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"LEX1004 Unexpected EOF"}, messages(bag)); diff != "" {
		t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestComments(t *testing.T) {
	src := "// line\nfn /* block /* nested */ still */ main // tail"
	expectTokens(t, src, token.KwFn, token.Ident)

	expectTokens(t, "a / b", token.Ident, token.Slash, token.Ident)
}

func TestUnterminatedBlockComment(t *testing.T) {
	lx, bag := makeTestLexer("fn /* open /* inner */")
	tokens := lx.Collect()
	if diff := cmp.Diff([]token.Kind{token.KwFn}, kinds(tokens)); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]diag.Code{diag.LexUnterminatedBlockComment}, bag.Codes()); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
}

func TestEOFIsSticky(t *testing.T) {
	lx, _ := makeTestLexer("x")
	if tok := lx.Peek(); tok.Kind != token.Ident {
		t.Fatalf("Peek = %v", tok.Kind)
	}
	if tok := lx.Next(); tok.Kind != token.Ident {
		t.Fatalf("Next after Peek = %v", tok.Kind)
	}
	for range 3 {
		if tok := lx.Next(); tok.Kind != token.EOF {
			t.Fatalf("expected EOF, got %v", tok.Kind)
		}
	}
}

func TestEmptyInput(t *testing.T) {
	lx, bag := makeTestLexer("   \n\t ")
	if tokens := lx.Collect(); len(tokens) != 0 {
		t.Fatalf("expected no tokens, got %v", kinds(tokens))
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", messages(bag))
	}
}
