package parser

import (
	"pyl/internal/ast"
	"pyl/internal/diag"
	"pyl/internal/source"
	"pyl/internal/token"
)

type Options struct {
	Reporter diag.Reporter
}

// Result is the parser output. When Err is non-nil the AST is incomplete
// and must not be handed to semantic analysis.
type Result struct {
	AST ast.AST
	Err *SyntaxError
}

// Parser: состояние парсера на один файл
type Parser struct {
	tokens   []token.Token // без EOF
	pos      int
	arenas   *ast.Builder // построитель аренных узлов
	program  ast.ProgramID
	file     source.FileID
	opts     Options
	lastSpan source.Span // span последнего съеденного токена
	failed   *SyntaxError
}

// Parse разбирает поток токенов одного файла. Первая синтаксическая ошибка
// останавливает разбор: она возвращается в Result.Err и уходит в Reporter.
// EOF в tokens допускается, но не обязателен.
func Parse(tokens []token.Token, arenas *ast.Builder, file source.FileID, opts Options) Result {
	if n := len(tokens); n > 0 && tokens[n-1].Kind == token.EOF {
		tokens = tokens[:n-1]
	}
	p := Parser{
		tokens:   tokens,
		arenas:   arenas,
		file:     file,
		opts:     opts,
		lastSpan: source.ZeroSpan(file),
	}
	p.program = arenas.NewProgram(p.startSpan())
	p.parseItems()
	return Result{
		AST: ast.AST{Program: p.program, File: file},
		Err: p.failed,
	}
}

func (p *Parser) startSpan() source.Span {
	if len(p.tokens) == 0 {
		return source.ZeroSpan(p.file)
	}
	return p.tokens[0].Span
}

// parseItems: основной цикл верхнего уровня, вызывает parseItem, пока есть токены.
func (p *Parser) parseItems() {
	for !p.atEOF() {
		itemID, ok := p.parseItem()
		if !ok {
			return
		}
		p.arenas.PushItem(p.program, itemID)
	}
	prog := p.arenas.Programs.Get(p.program)
	prog.Span = prog.Span.Cover(p.lastSpan)
}

// parseItem выбирает по первому токену нужный распознаватель top-level конструкции.
func (p *Parser) parseItem() (ast.ItemID, bool) {
	tok, ok := p.currentOrEOF()
	if !ok {
		return ast.NoItemID, false
	}
	switch tok.Kind {
	case token.KwFn:
		return p.parseFnItem()
	default:
		p.errExpectedAny(tok, token.KwFn)
		return ast.NoItemID, false
	}
}

func (p *Parser) at(k token.Kind) bool {
	tok, ok := p.current()
	return ok && tok.Kind == k
}

// parseIdent: ожидает Ident и интернирует его.
func (p *Parser) parseIdent() (ast.Ident, bool) {
	tok, ok := p.expect(token.Ident)
	if !ok {
		return ast.Ident{}, false
	}
	return ast.Ident{
		Name: p.arenas.StringsInterner.Intern(tok.Text),
		Span: tok.Span,
	}, true
}

// parseType: 'int' | 'bool' | 'float'
func (p *Parser) parseType() (ast.TypeRef, bool) {
	tok, ok := p.currentOrEOF()
	if !ok {
		return ast.TypeRef{}, false
	}
	var kind ast.TypeKind
	switch tok.Kind {
	case token.KwInt:
		kind = ast.TypeInt
	case token.KwBool:
		kind = ast.TypeBool
	case token.KwFloat:
		kind = ast.TypeFloat
	default:
		p.errExpectedAny(tok, token.KwInt, token.KwBool, token.KwFloat)
		return ast.TypeRef{}, false
	}
	p.advance()
	return ast.TypeRef{Kind: kind, Span: tok.Span}, true
}
