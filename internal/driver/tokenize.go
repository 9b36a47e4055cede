package driver

import (
	"pyl/internal/diag"
	"pyl/internal/lexer"
	"pyl/internal/source"
	"pyl/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize loads path and runs the lexer over it. Lexical errors land in
// the Bag; the token list still holds Invalid tokens at their positions.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return tokenizeFile(fs, fileID, maxDiagnostics), nil
}

// TokenizeSource tokenizes in-memory content registered as a virtual file.
func TokenizeSource(name string, content []byte, maxDiagnostics int) *TokenizeResult {
	fs := source.NewFileSet()
	return tokenizeFile(fs, fs.AddVirtual(name, content), maxDiagnostics)
}

func tokenizeFile(fs *source.FileSet, fileID source.FileID, maxDiagnostics int) *TokenizeResult {
	file := fs.Get(fileID)
	bag := diag.NewBag(maxDiagnostics)
	tokens, _ := lex(file, bag)
	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
	}
}

// lex собирает все токены одним проходом и возвращает число лексических ошибок.
func lex(file *source.File, bag *diag.Bag) ([]token.Token, int) {
	lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	tokens := lx.Collect()
	return tokens, lx.ErrorCount()
}
