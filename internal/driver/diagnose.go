package driver

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"pyl/internal/ast"
	"pyl/internal/diag"
	"pyl/internal/observ"
	"pyl/internal/sema"
	"pyl/internal/source"
	"pyl/internal/trace"
)

// ErrHasErrors signals that diagnostics contain at least one error.
var ErrHasErrors = errors.New("diagnostics contain errors")

// DiagnoseOptions содержит опции для диагностики
type DiagnoseOptions struct {
	MaxDiagnostics   int
	Lints            *sema.Lints
	IgnoreWarnings   bool
	WarningsAsErrors bool
	EnableTimings    bool
	// Cache is consulted before lexing; nil disables caching.
	Cache    *DiskCache
	Observer PhaseObserver
}

func (o DiagnoseOptions) lints() sema.Lints {
	if o.Lints != nil {
		return *o.Lints
	}
	return sema.DefaultLints()
}

type DiagnoseResult struct {
	Path    string
	FileSet *source.FileSet
	// File is nil when the file could not be loaded.
	File    *source.File
	Bag     *diag.Bag
	Builder *ast.Builder
	AST     ast.AST
	// Sema is nil when analysis did not run: lex or syntax errors, or a
	// cache hit.
	Sema *sema.Result
	// Functions are the validated signatures, restored from the cache on a
	// hit (with a zero Item). Empty when analysis found errors.
	Functions []sema.FunctionSig
	// Errors and Warnings count diagnostics after severity rewrites and
	// before the MaxDiagnostics cap, so a truncated Bag still fails the build.
	Errors   int
	Warnings int
	Cached   bool
	Timing   *observ.Report
}

// HasErrors reports whether the file failed to build.
func (r *DiagnoseResult) HasErrors() bool {
	return r != nil && r.Errors > 0
}

// Diagnose loads path and runs every stage over it.
func Diagnose(ctx context.Context, path string, opts DiagnoseOptions) (*DiagnoseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return diagnoseFile(ctx, fs, fileID, opts), nil
}

// DiagnoseSource diagnoses in-memory content registered as a virtual file.
func DiagnoseSource(ctx context.Context, name string, content []byte, opts DiagnoseOptions) *DiagnoseResult {
	fs := source.NewFileSet()
	return diagnoseFile(ctx, fs, fs.AddVirtual(name, content), opts)
}

// phaseRunner проводит одну фазу через таймер, наблюдателя и трассу.
type phaseRunner struct {
	file     string
	timer    *observ.Timer
	observer PhaseObserver
	span     *trace.Span
}

func (p *phaseRunner) run(name string, fn func() (note string, failed bool)) {
	if p.observer != nil {
		p.observer(PhaseEvent{File: p.file, Name: name, Status: PhaseStart})
	}
	started := time.Now()
	idx := p.timer.Begin(name)
	note, failed := fn()
	p.timer.End(idx, note)
	if note != "" {
		p.span.WithExtra(name, note)
	}
	if p.observer != nil {
		p.observer(PhaseEvent{File: p.file, Name: name, Status: PhaseEnd, Elapsed: time.Since(started), Failed: failed})
	}
}

func diagnoseFile(ctx context.Context, fs *source.FileSet, fileID source.FileID, opts DiagnoseOptions) *DiagnoseResult {
	file := fs.Get(fileID)
	res := &DiagnoseResult{Path: file.Path, FileSet: fs, File: file}
	span, _ := trace.BeginContext(ctx, trace.ScopeFile, "file:"+file.Path)

	var timer *observ.Timer
	if opts.EnableTimings {
		timer = observ.NewTimer()
	}
	phases := phaseRunner{file: file.Path, timer: timer, observer: opts.Observer, span: span}
	started := time.Now()
	if opts.Observer != nil {
		opts.Observer(PhaseEvent{File: file.Path, Name: PhaseFile, Status: PhaseStart})
	}

	// сырые диагностики без лимита: кэш не должен зависеть от --max-diagnostics
	raw := diag.NewBag(0)
	lints := opts.lints()

	var key Digest
	if opts.Cache != nil {
		key = cacheKey(file.Hash, lints)
		phases.run(PhaseCache, func() (string, bool) {
			var payload DiskPayload
			hit, err := opts.Cache.Get(key, &payload)
			if err != nil {
				trace.Point(trace.FromContext(ctx), trace.KindError, trace.ScopeFile, "cache", err.Error())
				return "error", false
			}
			if !hit {
				return "miss", false
			}
			res.Functions = payload.restore(fileID, raw)
			res.Cached = true
			return "hit", raw.HasErrors()
		})
	}

	if !res.Cached {
		runStages(ctx, res, fileID, raw, lints, &phases)
		if res.Sema != nil {
			res.Functions = res.Sema.Functions
		}
		if opts.Cache != nil {
			if err := opts.Cache.Put(key, newPayload(file.Path, raw, res.Functions)); err != nil {
				trace.Point(trace.FromContext(ctx), trace.KindError, trace.ScopeFile, "cache", err.Error())
			}
		}
	}

	finishBag(res, raw, opts)
	if timer != nil {
		report := timer.Report()
		res.Timing = &report
	}
	span.WithExtra("diags", strconv.Itoa(res.Bag.Len()))
	span.End("")
	if opts.Observer != nil {
		opts.Observer(PhaseEvent{File: file.Path, Name: PhaseFile, Status: PhaseEnd, Elapsed: time.Since(started), Failed: res.HasErrors()})
	}
	return res
}

// runStages: lex → parse → sema. Lex errors abort before parsing, a syntax
// error aborts before analysis.
func runStages(ctx context.Context, res *DiagnoseResult, fileID source.FileID, bag *diag.Bag, lints sema.Lints, phases *phaseRunner) {
	var parsed *ParseResult
	phases.run(PhaseTokenize, func() (string, bool) {
		parsed = &ParseResult{FileSet: res.FileSet, File: res.File, Bag: bag}
		parsed.Tokens, parsed.LexErrors = lex(res.File, bag)
		return fmt.Sprintf("tokens=%d", len(parsed.Tokens)), parsed.LexErrors > 0
	})
	if parsed.LexErrors > 0 {
		return
	}

	phases.run(PhaseParse, func() (string, bool) {
		parsed = parseTokens(parsed, fileID)
		res.Builder, res.AST = parsed.Builder, parsed.AST
		if parsed.Err != nil {
			return "syntax error", true
		}
		items := 0
		if prog := parsed.Builder.Programs.Get(parsed.AST.Program); prog != nil {
			items = len(prog.Items)
		}
		return fmt.Sprintf("items=%d", items), false
	})
	if !parsed.Parsed() {
		return
	}

	phases.run(PhaseSema, func() (string, bool) {
		result := sema.Check(res.Builder, res.AST, sema.Options{
			Reporter:   diag.NewDedupReporter(diag.BagReporter{Bag: bag}),
			Lints:      &lints,
			Tracer:     trace.FromContext(ctx),
			ParentSpan: phases.span.ID(),
		})
		res.Sema = &result
		return fmt.Sprintf("errors=%d warnings=%d", result.Errors, result.Warnings), result.Errors > 0
	})
}

// finishBag применяет фильтры severity, считает ошибки, сортирует и
// обрезает до лимита.
func finishBag(res *DiagnoseResult, raw *diag.Bag, opts DiagnoseOptions) {
	if opts.IgnoreWarnings {
		raw.Filter(func(d diag.Diagnostic) bool {
			return d.Severity == diag.SevError
		})
	}
	if opts.WarningsAsErrors {
		raw.PromoteWarnings()
	}
	res.Errors = raw.Count(diag.SevError)
	res.Warnings = raw.Count(diag.SevWarning)
	raw.Sort()

	out := diag.NewBag(opts.MaxDiagnostics)
	for _, d := range raw.Items() {
		out.Add(d)
	}
	res.Bag = out
}
