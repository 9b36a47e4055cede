package parser_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pyl/internal/ast"
	"pyl/internal/diag"
	"pyl/internal/lexer"
	"pyl/internal/parser"
	"pyl/internal/source"
	"pyl/internal/testkit"
	"pyl/internal/token"
)

type parsed struct {
	builder *ast.Builder
	result  parser.Result
	bag     *diag.Bag
	tokens  []token.Token
	file    *source.File
}

func parseSource(t *testing.T, src string) parsed {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.pyl", []byte(src))
	bag := diag.NewBag(0)

	lx := lexer.New(fs.Get(fileID), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	tokens := lx.Collect()
	if bag.HasErrors() {
		t.Fatalf("lexer errors for %q: %v", src, bag.Items())
	}

	builder := ast.NewBuilder(ast.Hints{}, nil)
	res := parser.Parse(tokens, builder, fileID, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	return parsed{builder: builder, result: res, bag: bag, tokens: tokens, file: fs.Get(fileID)}
}

func mustParse(t *testing.T, src string) parsed {
	t.Helper()
	p := parseSource(t, src)
	if p.result.Err != nil {
		t.Fatalf("unexpected syntax error for %q: %v", src, p.result.Err)
	}
	if err := testkit.CheckSpanInvariants(p.builder, p.result.AST, p.file); err != nil {
		t.Fatalf("span invariants for %q: %v", src, err)
	}
	return p
}

// sexpr prints an expression as a compact prefix form.
func sexpr(b *ast.Builder, id ast.ExprID) string {
	expr := b.Exprs.Get(id)
	switch expr.Kind {
	case ast.ExprIdent:
		data, _ := b.Exprs.Ident(id)
		return b.Name(data.Name)
	case ast.ExprLit:
		data, _ := b.Exprs.Literal(id)
		return b.Name(data.Raw)
	case ast.ExprGroup:
		data, _ := b.Exprs.Group(id)
		return "(group " + sexpr(b, data.Inner) + ")"
	case ast.ExprCall:
		data, _ := b.Exprs.Call(id)
		parts := []string{"call", b.Name(data.Callee.Name)}
		for _, arg := range data.Args {
			parts = append(parts, sexpr(b, arg))
		}
		return "(" + strings.Join(parts, " ") + ")"
	case ast.ExprUnary:
		data, _ := b.Exprs.Unary(id)
		return fmt.Sprintf("(%s %s)", data.Op, sexpr(b, data.Operand))
	case ast.ExprBinary:
		data, _ := b.Exprs.Binary(id)
		return fmt.Sprintf("(%s %s %s)", data.Op, sexpr(b, data.Left), sexpr(b, data.Right))
	default:
		return "?"
	}
}

func firstFn(t *testing.T, p parsed) *ast.FnItem {
	t.Helper()
	items := p.builder.Programs.Get(p.result.AST.Program).Items
	if len(items) == 0 {
		t.Fatal("program has no items")
	}
	fn, ok := p.builder.Items.Fn(items[0])
	if !ok {
		t.Fatal("first item is not a function")
	}
	return fn
}

func bodyStmts(p parsed, fn *ast.FnItem) []ast.StmtID {
	return p.builder.Stmts.Block(fn.Body).Stmts
}

func TestParseAddFunction(t *testing.T) {
	p := mustParse(t, "fn add(a: int, b: int) -> int { return a + b; }")
	if len(p.tokens) != 20 {
		t.Fatalf("expected 20 tokens, got %d", len(p.tokens))
	}
	items := p.builder.Programs.Get(p.result.AST.Program).Items
	if len(items) != 1 {
		t.Fatalf("expected one item, got %d", len(items))
	}

	fn := firstFn(t, p)
	if name := p.builder.Name(fn.Name.Name); name != "add" {
		t.Fatalf("fn name = %q", name)
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	for i, want := range []string{"a", "b"} {
		param := p.builder.Items.FnParam(fn.Params[i])
		if p.builder.Name(param.Name.Name) != want || param.Type.Kind != ast.TypeInt {
			t.Errorf("param %d = %+v", i, param)
		}
	}
	if fn.Result.Kind != ast.TypeInt {
		t.Errorf("result type = %v", fn.Result.Kind)
	}

	stmts := bodyStmts(p, fn)
	if len(stmts) != 1 {
		t.Fatalf("expected one statement, got %d", len(stmts))
	}
	ret := p.builder.Stmts.Return(stmts[0])
	if ret == nil {
		t.Fatalf("statement kind = %v", p.builder.Stmts.Get(stmts[0]).Kind)
	}
	if got := sexpr(p.builder, ret.Value); got != "(+ a b)" {
		t.Fatalf("return value = %s", got)
	}
	if fn.Span.Start != 0 || fn.Span.End != 47 {
		t.Errorf("fn span = %v", fn.Span)
	}
}

func TestExpressionShapes(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"1 + 2 * 3", "(+ 1 (* 2 3))"},
		{"1 * 2 + 3", "(+ (* 1 2) 3)"},
		{"1 - 2 - 3", "(- (- 1 2) 3)"},
		{"8 / 4 % 3", "(% (/ 8 4) 3)"},
		{"a || b && c", "(|| a (&& b c))"},
		{"a && b || c", "(|| (&& a b) c)"},
		{"a == b < c", "(== a (< b c))"},
		{"a + 1 >= b * 2", "(>= (+ a 1) (* b 2))"},
		{"(1 + 2) * 3", "(* (group (+ 1 2)) 3)"},
		{"f()", "(call f)"},
		{"f(1, g(x), y + 1)", "(call f 1 (call g x) (+ y 1))"},
		{"2.5 * x", "(* 2.5 x)"},
		{"true != false", "(!= true false)"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			p := mustParse(t, "fn main() -> int { return "+tt.expr+"; }")
			ret := p.builder.Stmts.Return(bodyStmts(p, firstFn(t, p))[0])
			if got := sexpr(p.builder, ret.Value); got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

// Unary operators are accepted at the start of any primary, not only after
// a binary operator.
func TestUnaryPlacement(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"-5", "(- 5)"},
		{"!flag", "(! flag)"},
		{"-a + b", "(+ (- a) b)"},
		{"a - -b", "(- a (- b))"},
		{"a * -b", "(* a (- b))"},
		{"!!a", "(! (! a))"},
		{"(-a)", "(group (- a))"},
		{"-f(x)", "(- (call f x))"},
		{"!(a && b)", "(! (group (&& a b)))"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			p := mustParse(t, "fn main() -> int { return "+tt.expr+"; }")
			ret := p.builder.Stmts.Return(bodyStmts(p, firstFn(t, p))[0])
			if got := sexpr(p.builder, ret.Value); got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestStatements(t *testing.T) {
	src := `fn main() -> int {
	let x: int = 1;
	let ok: bool = x == 1;
	if ok { x; } else { return 0; }
	f(x);
	return;
}`
	p := mustParse(t, src)
	stmts := bodyStmts(p, firstFn(t, p))

	var kinds []ast.StmtKind
	for _, id := range stmts {
		kinds = append(kinds, p.builder.Stmts.Get(id).Kind)
	}
	want := []ast.StmtKind{ast.StmtLet, ast.StmtLet, ast.StmtIf, ast.StmtExpr, ast.StmtReturn}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("statement kinds mismatch (-want +got):\n%s", diff)
	}

	let := p.builder.Stmts.Let(stmts[0])
	if p.builder.Name(let.Name.Name) != "x" || let.Type.Kind != ast.TypeInt {
		t.Errorf("let = %+v", let)
	}
	letSpan := p.builder.Stmts.Get(stmts[0]).Span
	if text := src[letSpan.Start:letSpan.End]; text != "let x: int = 1;" {
		t.Errorf("let span text = %q", text)
	}

	ifStmt := p.builder.Stmts.If(stmts[2])
	if !ifStmt.Else.IsValid() {
		t.Error("else block missing")
	}
	ifSpan := p.builder.Stmts.Get(stmts[2]).Span
	if text := src[ifSpan.Start:ifSpan.End]; text != "if ok { x; } else { return 0; }" {
		t.Errorf("if span text = %q", text)
	}

	if ret := p.builder.Stmts.Return(stmts[4]); ret.Value.IsValid() {
		t.Error("bare return must have no value")
	}
}

func TestSeveralFunctions(t *testing.T) {
	p := mustParse(t, "fn a() -> int { return 1; } fn b(x: float) -> bool { return true; }")
	items := p.builder.Programs.Get(p.result.AST.Program).Items
	if len(items) != 2 {
		t.Fatalf("expected two items, got %d", len(items))
	}
	fn, _ := p.builder.Items.Fn(items[1])
	if fn.Result.Kind != ast.TypeBool {
		t.Errorf("second fn result = %v", fn.Result.Kind)
	}
	if p.builder.Items.FnParam(fn.Params[0]).Type.Kind != ast.TypeFloat {
		t.Error("float param lost")
	}
}

func TestEmptyInput(t *testing.T) {
	p := mustParse(t, "// nothing here\n")
	if items := p.builder.Programs.Get(p.result.AST.Program).Items; len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
		msg  string
		text string // source under the error span
	}{
		{
			name: "top level",
			src:  "let x: int = 1;",
			code: diag.SynExpectedAnyToken,
			msg:  "Expected any of the tokens: `fn`, found: `let`",
			text: "let",
		},
		{
			name: "missing colon",
			src:  "fn main() -> int { let x int = 1; }",
			code: diag.SynExpectedToken,
			msg:  "Expected token: `:`, found: `int`",
			text: "int",
		},
		{
			name: "param without name",
			src:  "fn main( -> int {}",
			code: diag.SynExpectedToken,
			msg:  "Expected token: identifier, found: `->`",
			text: "->",
		},
		{
			name: "unknown type",
			src:  "fn main() -> string {}",
			code: diag.SynExpectedAnyToken,
			msg:  "Expected any of the tokens: `int`, `bool`, `float`, found: `string`",
			text: "string",
		},
		{
			name: "missing separator",
			src:  "fn main(a: int b: int) -> int {}",
			code: diag.SynExpectedAnyToken,
			msg:  "Expected any of the tokens: `,`, `)`, found: `b`",
			text: "b",
		},
		{
			name: "bad primary",
			src:  "fn main() -> int { return ; ; }",
			code: diag.SynExpectedAnyToken,
			msg:  "Expected any of the tokens: integer literal, float literal, boolean literal, identifier, `(`, found: `;`",
			text: ";",
		},
		{
			name: "eof",
			src:  "fn main() -> int { return 1",
			code: diag.SynUnexpectedEOF,
			msg:  "Unexpected EOF",
			text: "1",
		},
		{
			name: "compound assignment is not an expression",
			src:  "fn main() -> int { x += 1; }",
			code: diag.SynExpectedToken,
			msg:  "Expected token: `;`, found: `+=`",
			text: "+=",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parseSource(t, tt.src)
			err := p.result.Err
			if err == nil {
				t.Fatal("expected a syntax error")
			}
			if err.Code != tt.code || err.Message != tt.msg {
				t.Fatalf("got %s %q, want %s %q", err.Code.ID(), err.Message, tt.code.ID(), tt.msg)
			}
			if text := tt.src[err.Span.Start:err.Span.End]; text != tt.text {
				t.Errorf("span text = %q, want %q", text, tt.text)
			}
			if p.bag.Len() != 1 {
				t.Fatalf("expected exactly one reported diagnostic, got %d", p.bag.Len())
			}
			if found, _ := p.bag.Items()[0].Field("found"); found == "" {
				t.Error("found field missing")
			}
		})
	}
}

func TestStopsAtFirstError(t *testing.T) {
	p := parseSource(t, "fn a( {} fn b) -> {}")
	if p.result.Err == nil {
		t.Fatal("expected error")
	}
	if diff := cmp.Diff([]diag.Code{diag.SynExpectedToken}, p.bag.Codes()); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
}

func TestTrailingEOFTokenIgnored(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("eof.pyl", []byte("fn main() -> int { return 0; }"))
	lx := lexer.New(fs.Get(id), lexer.Options{})
	tokens := append(lx.Collect(), lx.Next())
	if tokens[len(tokens)-1].Kind != token.EOF {
		t.Fatal("expected trailing EOF token")
	}
	res := parser.Parse(tokens, ast.NewBuilder(ast.Hints{}, nil), id, parser.Options{})
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
}
