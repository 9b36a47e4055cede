package sema

import (
	"fmt"
	"strconv"

	"pyl/internal/ast"
	"pyl/internal/diag"
	"pyl/internal/source"
	"pyl/internal/symbols"
	"pyl/internal/trace"
	"pyl/internal/types"
)

// Lints toggles the advisory checks. All warnings are on by default.
type Lints struct {
	UnusedVariables bool
	UnusedFunctions bool
	UnreachableCode bool
}

// DefaultLints enables every warning.
func DefaultLints() Lints {
	return Lints{UnusedVariables: true, UnusedFunctions: true, UnreachableCode: true}
}

// Options configure a semantic pass over a file.
type Options struct {
	Reporter diag.Reporter
	// Lints == nil means DefaultLints.
	Lints *Lints
	// Tracer gets pass spans and, at LevelDebug, per-function and
	// per-statement node spans. nil disables tracing.
	Tracer trace.Tracer
	// ParentSpan is the span the sema spans hang under, 0 for none.
	ParentSpan uint64
}

// FunctionSig is a validated function signature handed to a backend.
type FunctionSig struct {
	Name   string
	Params []types.Type
	Result types.Type
	Item   ast.ItemID
}

// Result stores semantic artefacts produced by the checker.
type Result struct {
	ExprTypes map[ast.ExprID]types.Type
	Symbols   *symbols.Table
	// Functions is filled only when the unit has no errors.
	Functions []FunctionSig
	Errors    int
	Warnings  int
}

// Check runs the declaration pass and then checks every function body.
// Findings go to opts.Reporter; nothing here aborts early.
func Check(builder *ast.Builder, tree ast.AST, opts Options) Result {
	res := Result{
		ExprTypes: make(map[ast.ExprID]types.Type),
	}
	if builder == nil || !tree.Program.IsValid() {
		return res
	}
	program := builder.Programs.Get(tree.Program)
	if program == nil {
		return res
	}

	lints := DefaultLints()
	if opts.Lints != nil {
		lints = *opts.Lints
	}
	checker := typeChecker{
		builder:  builder,
		file:     tree.File,
		reporter: opts.Reporter,
		lints:    lints,
		tracer:   opts.Tracer,
		table:    symbols.NewTable(symbols.Hints{}, builder.StringsInterner, program.Span),
		result:   &res,
	}
	res.Symbols = checker.table
	checker.run(program, opts.ParentSpan)
	return res
}

type typeChecker struct {
	builder  *ast.Builder
	file     source.FileID
	reporter diag.Reporter
	lints    Lints
	table    *symbols.Table
	result   *Result
	tracer   trace.Tracer

	mainSym symbols.SymbolID
	fnOrder []symbols.SymbolID // первые объявления в порядке исходника

	// текущая функция
	fn    *ast.FnItem
	fnSym symbols.SymbolID

	nodeParent uint64 // span, под которым открываются node-спаны
}

func (tc *typeChecker) run(program *ast.Program, parent uint64) {
	root := trace.Begin(tc.tracer, trace.ScopePass, "sema_check", parent)
	defer func() {
		root.WithExtra("errors", strconv.Itoa(tc.result.Errors))
		root.WithExtra("warnings", strconv.Itoa(tc.result.Warnings))
		root.End("")
	}()

	declare := trace.Begin(tc.tracer, trace.ScopePass, "sema_declare", root.ID())
	tc.declareFunctions(program)
	declare.WithExtra("functions", strconv.Itoa(len(tc.fnOrder))).End("")

	bodies := trace.Begin(tc.tracer, trace.ScopePass, "sema_bodies", root.ID())
	tc.nodeParent = bodies.ID()
	for _, itemID := range program.Items {
		tc.checkFunction(itemID)
	}
	tc.reportUnusedFunctions()
	bodies.End("")

	if tc.result.Errors == 0 {
		tc.result.Functions = tc.signatures()
	}
}

// nodeTracing reports whether node-level spans are emitted.
func (tc *typeChecker) nodeTracing() bool {
	return tc.tracer != nil && tc.tracer.Level() >= trace.LevelDebug
}

func (tc *typeChecker) name(id source.StringID) string {
	return tc.builder.Name(id)
}

func (tc *typeChecker) errorf(code diag.Code, sp source.Span, format string, args ...any) *diag.ReportBuilder {
	tc.result.Errors++
	return diag.ReportError(tc.reporter, code, sp, fmt.Sprintf(format, args...))
}

func (tc *typeChecker) warn(code diag.Code, sp source.Span, msg string) *diag.ReportBuilder {
	tc.result.Warnings++
	return diag.ReportWarning(tc.reporter, code, sp, msg)
}

func (tc *typeChecker) typeMismatch(want, got types.Type) {
	tc.errorf(diag.SemaTypesDoNotMatch, got.Span, "Types do not match").
		WithField("want", want.String()).
		WithField("got", got.String()).
		WithNote(want.Span, fmt.Sprintf("expected type %s", want)).
		Emit()
}

func (tc *typeChecker) signatures() []FunctionSig {
	out := make([]FunctionSig, 0, len(tc.fnOrder))
	for _, id := range tc.fnOrder {
		sym := tc.table.Symbols.Get(id)
		if sym == nil {
			continue
		}
		out = append(out, FunctionSig{
			Name:   tc.name(sym.Name),
			Params: append([]types.Type(nil), sym.Params...),
			Result: sym.Result,
			Item:   sym.Item,
		})
	}
	return out
}
