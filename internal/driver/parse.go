package driver

import (
	"fortio.org/safecast"

	"pyl/internal/ast"
	"pyl/internal/diag"
	"pyl/internal/parser"
	"pyl/internal/source"
	"pyl/internal/token"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Builder *ast.Builder
	AST     ast.AST
	// Err is the syntax error that stopped the parser, if any.
	Err *parser.SyntaxError
	// LexErrors counts lexical errors; when non-zero the parser did not run.
	LexErrors int
	Bag       *diag.Bag
}

// Parsed reports whether a complete AST is available.
func (r *ParseResult) Parsed() bool {
	return r != nil && r.Builder != nil && r.LexErrors == 0 && r.Err == nil
}

func Parse(path string, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	bag := diag.NewBag(maxDiagnostics)
	return parseFile(fs, fileID, bag), nil
}

// ParseSource parses in-memory content registered as a virtual file.
func ParseSource(name string, content []byte, maxDiagnostics int) *ParseResult {
	fs := source.NewFileSet()
	bag := diag.NewBag(maxDiagnostics)
	return parseFile(fs, fs.AddVirtual(name, content), bag)
}

// parseFile: lex errors abort before the parser, the first syntax error
// aborts the parser itself.
func parseFile(fs *source.FileSet, fileID source.FileID, bag *diag.Bag) *ParseResult {
	file := fs.Get(fileID)
	res := &ParseResult{FileSet: fs, File: file, Bag: bag}

	res.Tokens, res.LexErrors = lex(file, bag)
	if res.LexErrors > 0 {
		return res
	}
	return parseTokens(res, fileID)
}

// parseTokens runs the parser over res.Tokens, reporting into res.Bag.
func parseTokens(res *ParseResult, fileID source.FileID) *ParseResult {
	res.Builder = ast.NewBuilder(builderHints(len(res.Tokens)), nil)
	parsed := parser.Parse(res.Tokens, res.Builder, fileID, parser.Options{
		Reporter: diag.BagReporter{Bag: res.Bag},
	})
	res.AST = parsed.AST
	res.Err = parsed.Err
	return res
}

// builderHints прикидывает размеры арен по числу токенов.
func builderHints(tokens int) ast.Hints {
	n, err := safecast.Conv[uint](tokens)
	if err != nil {
		return ast.Hints{}
	}
	return ast.Hints{Items: n/32 + 1, Stmts: n/4 + 1, Exprs: n/2 + 1}
}
