package sema

import (
	"pyl/internal/ast"
	"pyl/internal/diag"
	"pyl/internal/source"
	"pyl/internal/symbols"
	"pyl/internal/types"
)

const mainName = "main"

// declareFunctions registers every top-level function before any body is
// looked at, so calls may refer to functions declared later in the file.
func (tc *typeChecker) declareFunctions(program *ast.Program) {
	var mainFn *ast.FnItem
	for _, itemID := range program.Items {
		fn, ok := tc.builder.Items.Fn(itemID)
		if !ok {
			continue
		}
		sym := symbols.Symbol{
			Name:     fn.Name.Name,
			Kind:     symbols.SymbolFunction,
			Params:   tc.paramTypes(fn),
			Result:   types.FromAST(fn.Result),
			SigSpan:  fn.SigSpan,
			Item:     itemID,
			DeclSpan: fn.Span,
			NameSpan: fn.Name.Span,
		}
		id, fresh := tc.table.Declare(tc.table.Global, sym)
		if !fresh {
			name := tc.name(fn.Name.Name)
			b := tc.errorf(diag.SemaFunctionAlreadyDeclared, fn.Name.Span, "Function `%s` already declared", name).
				WithField("name", name)
			if first := tc.table.Symbols.Get(id); first != nil {
				b = b.WithNote(first.NameSpan, "Already declared here")
			}
			b.Emit()
			continue
		}
		tc.fnOrder = append(tc.fnOrder, id)
		if mainFn == nil && tc.name(fn.Name.Name) == mainName {
			tc.mainSym = id
			mainFn = fn
		}
	}

	if mainFn == nil {
		tc.errorf(diag.SemaMissingMain, source.ZeroSpan(tc.file), "Missing `main` function").
			WithFix("consider declaring a main function").
			Emit()
		return
	}
	// Not fatal for the pass: bodies are still checked.
	if mainFn.Result.Kind != ast.TypeInt {
		tc.errorf(diag.SemaMainMustReturnInt, mainFn.Result.Span, "`main` must return an integer").
			WithField("want", types.KindInt.String()).
			WithField("got", mainFn.Result.Kind.String()).
			Emit()
	}
}

func (tc *typeChecker) paramTypes(fn *ast.FnItem) []types.Type {
	out := make([]types.Type, 0, len(fn.Params))
	for _, pid := range fn.Params {
		param := tc.builder.Items.FnParam(pid)
		if param == nil {
			continue
		}
		out = append(out, types.FromAST(param.Type))
	}
	return out
}

// functionSymbol returns the symbol of item, or NoSymbolID for a
// redeclaration that lost to an earlier function.
func (tc *typeChecker) functionSymbol(itemID ast.ItemID, fn *ast.FnItem) symbols.SymbolID {
	id := tc.table.LookupFunc(tc.table.Global, fn.Name.Name)
	if sym := tc.table.Symbols.Get(id); sym != nil && sym.Item == itemID {
		return id
	}
	return symbols.NoSymbolID
}

// declareVar binds a let or a parameter in scope; the first binding wins.
func (tc *typeChecker) declareVar(scope symbols.ScopeID, kind symbols.SymbolKind, name ast.Ident, typ types.Type, declSpan source.Span) {
	id, fresh := tc.table.Declare(scope, symbols.Symbol{
		Name:     name.Name,
		Kind:     kind,
		Type:     typ,
		DeclSpan: declSpan,
		NameSpan: name.Span,
	})
	if fresh {
		return
	}
	text := tc.name(name.Name)
	b := tc.errorf(diag.SemaVariableAlreadyDeclared, name.Span, "Variable `%s` already declared", text).
		WithField("name", text)
	if first := tc.table.Symbols.Get(id); first != nil {
		b = b.WithNote(first.NameSpan, "First declared here")
	}
	b.Emit()
}
