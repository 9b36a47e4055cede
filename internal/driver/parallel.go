package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"pyl/internal/diag"
	"pyl/internal/source"
	"pyl/internal/trace"
)

// SourceExt is the extension of pyl source files.
const SourceExt = ".pyl"

// ListSourceFiles возвращает отсортированный список всех *.pyl файлов в
// директории. Скрытые каталоги пропускаются.
func ListSourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, SourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// loadedFiles is the serial preload step of directory mode. The FileSet is
// read-only once it returns.
type loadedFiles struct {
	fileSet *source.FileSet
	paths   []string
	ids     []source.FileID
	errs    []error
}

func loadAll(ctx context.Context, dir string) (*loadedFiles, error) {
	span, _ := trace.BeginContext(ctx, trace.ScopePass, PhaseLoad)
	defer span.End("")

	paths, err := ListSourceFiles(dir)
	if err != nil {
		return nil, err
	}
	out := &loadedFiles{
		fileSet: source.NewFileSetWithBase(dir),
		paths:   paths,
		ids:     make([]source.FileID, len(paths)),
		errs:    make([]error, len(paths)),
	}
	for i, path := range paths {
		out.ids[i], out.errs[i] = out.fileSet.Load(path)
		if out.errs[i] != nil {
			// пустая заглушка, чтобы позиция ошибки указывала на сам файл
			out.ids[i] = out.fileSet.Add(path, nil, 0)
		}
	}
	span.WithExtra("files", strconv.Itoa(len(paths)))
	return out, nil
}

func loadErrorBag(file source.FileID, err error, maxDiagnostics int) *diag.Bag {
	bag := diag.NewBag(maxDiagnostics)
	bag.Add(diag.NewError(diag.IOLoadFileError, source.ZeroSpan(file), "failed to load file: "+err.Error()))
	return bag
}

func workers(jobs, files int) int {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(min(jobs, files), 1)
}

// runParallel calls fn for every index with at most jobs goroutines.
// Context cancellation is checked before each file.
func runParallel(ctx context.Context, n, jobs int, fn func(ctx context.Context, i int)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers(jobs, n))
	for i := range n {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(gctx, i)
			return nil
		})
	}
	return g.Wait()
}

// DiagnoseDir diagnoses every *.pyl file under dir in parallel. Results
// follow the sorted path order; unreadable files get an IOLoadFileError
// result with a nil File. After cancellation some entries stay nil.
func DiagnoseDir(ctx context.Context, dir string, opts DiagnoseOptions, jobs int) (*source.FileSet, []*DiagnoseResult, error) {
	loaded, err := loadAll(ctx, dir)
	if err != nil {
		return nil, nil, err
	}
	if len(loaded.paths) == 0 {
		return loaded.fileSet, nil, nil
	}

	span, ctx := trace.BeginContext(ctx, trace.ScopePass, "diagnose")
	defer span.End("")

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]*DiagnoseResult, len(loaded.paths))
	err = runParallel(ctx, len(loaded.paths), jobs, func(ctx context.Context, i int) {
		if loadErr := loaded.errs[i]; loadErr != nil {
			trace.Point(trace.FromContext(ctx), trace.KindError, trace.ScopeFile, PhaseLoad, loadErr.Error())
			results[i] = &DiagnoseResult{
				Path:    loaded.paths[i],
				FileSet: loaded.fileSet,
				Bag:     loadErrorBag(loaded.ids[i], loadErr, opts.MaxDiagnostics),
				Errors:  1,
			}
			return
		}
		results[i] = diagnoseFile(ctx, loaded.fileSet, loaded.ids[i], opts)
	})
	return loaded.fileSet, results, err
}

// TokenizeDir токенизирует все *.pyl файлы в директории параллельно.
func TokenizeDir(ctx context.Context, dir string, maxDiagnostics, jobs int) (*source.FileSet, []*TokenizeResult, error) {
	loaded, err := loadAll(ctx, dir)
	if err != nil {
		return nil, nil, err
	}
	if len(loaded.paths) == 0 {
		return loaded.fileSet, nil, nil
	}

	results := make([]*TokenizeResult, len(loaded.paths))
	err = runParallel(ctx, len(loaded.paths), jobs, func(_ context.Context, i int) {
		if loadErr := loaded.errs[i]; loadErr != nil {
			results[i] = &TokenizeResult{FileSet: loaded.fileSet, Bag: loadErrorBag(loaded.ids[i], loadErr, maxDiagnostics)}
			return
		}
		results[i] = tokenizeFile(loaded.fileSet, loaded.ids[i], maxDiagnostics)
	})
	return loaded.fileSet, results, err
}

// CountErrors sums error diagnostics over directory results, counting the
// ones dropped by the MaxDiagnostics cap too.
func CountErrors(results []*DiagnoseResult) int {
	n := 0
	for _, r := range results {
		if r != nil {
			n += r.Errors
		}
	}
	return n
}

// CountWarnings is CountErrors for warnings.
func CountWarnings(results []*DiagnoseResult) int {
	n := 0
	for _, r := range results {
		if r != nil {
			n += r.Warnings
		}
	}
	return n
}
