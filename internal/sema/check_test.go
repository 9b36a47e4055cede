package sema_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/tools/txtar"

	"pyl/internal/ast"
	"pyl/internal/diag"
	"pyl/internal/lexer"
	"pyl/internal/parser"
	"pyl/internal/sema"
	"pyl/internal/source"
	"pyl/internal/trace"
	"pyl/internal/types"
)

type checked struct {
	fs      *source.FileSet
	bag     *diag.Bag
	builder *ast.Builder
	tree    ast.AST
	res     sema.Result
}

func checkSource(t *testing.T, src string, opts sema.Options) checked {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("input.pyl", []byte(src))
	bag := diag.NewBag(0)
	reporter := diag.BagReporter{Bag: bag}

	lx := lexer.New(fs.Get(fileID), lexer.Options{Reporter: reporter})
	tokens := lx.Collect()
	if lx.ErrorCount() != 0 {
		t.Fatalf("lex errors: %s", diag.FormatGoldenDiagnostics(bag.Items(), fs, false))
	}
	builder := ast.NewBuilder(ast.Hints{}, nil)
	parsed := parser.Parse(tokens, builder, fileID, parser.Options{Reporter: reporter})
	if parsed.Err != nil {
		t.Fatalf("parse error: %v", parsed.Err)
	}

	opts.Reporter = reporter
	res := sema.Check(builder, parsed.AST, opts)
	return checked{fs: fs, bag: bag, builder: builder, tree: parsed.AST, res: res}
}

func TestGolden(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatal("no golden cases")
	}
	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".txtar")
		t.Run(name, func(t *testing.T) {
			archive, err := txtar.ParseFile(path)
			if err != nil {
				t.Fatal(err)
			}
			files := make(map[string]string, len(archive.Files))
			for _, f := range archive.Files {
				files[f.Name] = string(f.Data)
			}
			src, ok := files["input.pyl"]
			if !ok {
				t.Fatal("archive has no input.pyl")
			}
			c := checkSource(t, src, sema.Options{})
			got := diag.FormatGoldenDiagnostics(c.bag.Items(), c.fs, true)
			want := strings.TrimSpace(files["diagnostics"])
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// codes returns nil for an empty bag so cmp.Diff can compare against nil.
func codes(bag *diag.Bag) []diag.Code {
	if bag.Len() == 0 {
		return nil
	}
	bag.Sort()
	return bag.Codes()
}

func TestAddWithoutMainReportsOnlyMissingMain(t *testing.T) {
	c := checkSource(t, "fn add(a: int, b: int) -> int { return a + b; }", sema.Options{})
	if diff := cmp.Diff([]diag.Code{diag.SemaMissingMain}, codes(c.bag)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	d := c.bag.Items()[0]
	if d.Primary != source.ZeroSpan(c.tree.File) {
		t.Errorf("MissingMain span = %v", d.Primary)
	}
	if len(d.Fixes) != 1 || d.Fixes[0].Title != "consider declaring a main function" {
		t.Errorf("fixes = %+v", d.Fixes)
	}
}

func TestMissingMainReportedOnce(t *testing.T) {
	var src strings.Builder
	for _, name := range []string{"a", "b", "c", "d"} {
		src.WriteString("fn " + name + "() -> int { return 0; }\n")
	}
	c := checkSource(t, src.String(), sema.Options{})
	if diff := cmp.Diff([]diag.Code{diag.SemaMissingMain}, codes(c.bag)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
}

func TestDuplicateFunctionReportedOnce(t *testing.T) {
	src := "fn f() -> int { return 1; }\nfn main() -> int { return f(); }\nfn f() -> bool { return true; }\n"
	c := checkSource(t, src, sema.Options{})
	if diff := cmp.Diff([]diag.Code{diag.SemaFunctionAlreadyDeclared}, codes(c.bag)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	// вызов f() связывается с первым объявлением
	if len(c.res.Functions) != 0 {
		t.Errorf("signatures must not be exported for a unit with errors")
	}
}

func TestReturnGuarantee(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []diag.Code
	}{
		{"if-else", "if true { return 1; } else { return 2; }", nil},
		{"if-only", "if true { return 1; }", []diag.Code{diag.SemaMissingReturn}},
		{"fallthrough", "if true { return 1; } return 2;", nil},
		{"nested", "if true { if false { return 1; } else { return 2; } } else { return 3; }", nil},
		{"else-missing", "if true { return 1; } else { let _x: int = 1; }", []diag.Code{diag.SemaMissingReturn}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := checkSource(t, "fn main() -> int { "+tt.body+" }", sema.Options{})
			if diff := cmp.Diff(tt.want, codes(c.bag)); diff != "" {
				t.Fatalf("codes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUnreachableSpanCoversAllDeadStatements(t *testing.T) {
	src := "fn main() -> int { return 1; let _a: int = 2; let _b: int = 3; }"
	c := checkSource(t, src, sema.Options{})
	items := c.bag.Items()
	if len(items) != 1 || items[0].Code != diag.SemaUnreachableCode {
		t.Fatalf("diagnostics = %s", diag.FormatGoldenDiagnostics(items, c.fs, false))
	}
	sp := items[0].Primary
	if got := src[sp.Start:sp.End]; got != "let _a: int = 2; let _b: int = 3;" {
		t.Fatalf("unreachable span text = %q", got)
	}
}

func TestUnusedVariableFix(t *testing.T) {
	c := checkSource(t, "fn main() -> int { let count: int = 1; return 0; }", sema.Options{})
	items := c.bag.Items()
	if len(items) != 1 || items[0].Code != diag.SemaUnusedVariable {
		t.Fatalf("diagnostics = %s", diag.FormatGoldenDiagnostics(items, c.fs, false))
	}
	d := items[0]
	if name, _ := d.Field("name"); name != "count" {
		t.Errorf("name field = %q", name)
	}
	want := []diag.Fix{{
		Title: "if intended, prefix with an underscore: `_count`",
		Edits: []diag.FixEdit{{Span: d.Primary, NewText: "_count"}},
	}}
	if diff := cmp.Diff(want, d.Fixes); diff != "" {
		t.Fatalf("fix mismatch (-want +got):\n%s", diff)
	}
}

func TestLintsCanBeDisabled(t *testing.T) {
	src := "fn unused() -> int { return 1; }\nfn main() -> int { let x: int = 1; return 0; return 1; }"
	c := checkSource(t, src, sema.Options{})
	want := []diag.Code{diag.SemaUnusedFunction, diag.SemaUnusedVariable, diag.SemaUnreachableCode}
	if diff := cmp.Diff(want, codes(c.bag)); diff != "" {
		t.Fatalf("default lints mismatch (-want +got):\n%s", diff)
	}

	c = checkSource(t, src, sema.Options{Lints: &sema.Lints{}})
	if c.bag.Len() != 0 {
		t.Fatalf("expected no diagnostics, got %s", diag.FormatGoldenDiagnostics(c.bag.Items(), c.fs, false))
	}
	if c.res.Warnings != 0 {
		t.Errorf("Warnings = %d", c.res.Warnings)
	}
}

func TestExprTypes(t *testing.T) {
	c := checkSource(t, "fn main() -> int { let b: bool = 1.5 < 2.0; return (2 + 3) * 4; }", sema.Options{})
	if c.bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diag.FormatGoldenDiagnostics(c.bag.Items(), c.fs, false))
	}

	got := make(map[ast.ExprKind][]types.Kind)
	for id, typ := range c.res.ExprTypes {
		expr := c.builder.Exprs.Get(id)
		got[expr.Kind] = append(got[expr.Kind], typ.Kind)
	}
	for _, kind := range got[ast.ExprBinary] {
		if kind != types.KindBool && kind != types.KindInt {
			t.Errorf("binary typed as %v", kind)
		}
	}
	if n := len(got[ast.ExprBinary]); n != 3 {
		t.Errorf("typed %d binary expressions, want 3", n)
	}
	if diff := cmp.Diff([]types.Kind{types.KindInt}, got[ast.ExprGroup]); diff != "" {
		t.Errorf("group types (-want +got):\n%s", diff)
	}
}

func TestFunctionSignatures(t *testing.T) {
	src := "fn scale(v: float, by: int) -> float { if by == 0 { return 0.0; } return v; }\n" +
		"fn main() -> int { let _f: float = scale(1.0, 2); return 0; }"
	c := checkSource(t, src, sema.Options{})
	if c.bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diag.FormatGoldenDiagnostics(c.bag.Items(), c.fs, false))
	}

	type sig struct {
		Name   string
		Params []types.Kind
		Result types.Kind
	}
	var got []sig
	for _, fn := range c.res.Functions {
		s := sig{Name: fn.Name, Result: fn.Result.Kind}
		for _, p := range fn.Params {
			s.Params = append(s.Params, p.Kind)
		}
		got = append(got, s)
	}
	want := []sig{
		{Name: "scale", Params: []types.Kind{types.KindFloat, types.KindInt}, Result: types.KindFloat},
		{Name: "main", Result: types.KindInt},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("signatures mismatch (-want +got):\n%s", diff)
	}
	if err := c.res.Symbols.Validate(); err != nil {
		t.Fatalf("symbol table: %v", err)
	}
}

func TestCheckWithoutProgram(t *testing.T) {
	res := sema.Check(nil, ast.AST{}, sema.Options{})
	if res.ExprTypes == nil || res.Errors != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestTraceSpans(t *testing.T) {
	const src = "fn helper(n: int) -> int { return n; }\nfn main() -> int { let x: int = helper(1); return x; }\n"
	tests := []struct {
		level   trace.Level
		want    []string
		without []string
	}{
		{trace.LevelPhase, []string{"→ sema_check", "← sema_declare", "{functions=2}", "← sema_bodies", "errors=0, warnings=0"}, []string{"check_fn", "check_stmt"}},
		{trace.LevelDebug, []string{"← sema_bodies", "← check_fn", "{name=helper}", "{name=main}", "check_stmt", "{kind=Let}"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			tracer := trace.NewStreamTracer(&buf, tt.level, trace.FormatText, "test")
			c := checkSource(t, src, sema.Options{Tracer: tracer})
			if err := tracer.Flush(); err != nil {
				t.Fatal(err)
			}
			if c.bag.Len() != 0 {
				t.Fatalf("unexpected diagnostics: %v", c.bag.Codes())
			}
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("trace missing %q:\n%s", w, out)
				}
			}
			for _, w := range tt.without {
				if strings.Contains(out, w) {
					t.Errorf("trace at %s must not contain %q:\n%s", tt.level, w, out)
				}
			}
		})
	}
}
