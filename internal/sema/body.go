package sema

import (
	"strconv"

	"pyl/internal/ast"
	"pyl/internal/diag"
	"pyl/internal/symbols"
	"pyl/internal/trace"
	"pyl/internal/types"
)

// checkFunction checks one body: params live in their own scope, the body
// block is a child of it.
func (tc *typeChecker) checkFunction(itemID ast.ItemID) {
	fn, ok := tc.builder.Items.Fn(itemID)
	if !ok {
		return
	}
	tc.fn = fn
	tc.fnSym = tc.functionSymbol(itemID, fn)
	outer := tc.nodeParent
	if tc.nodeTracing() {
		span := trace.Begin(tc.tracer, trace.ScopeNode, "check_fn", outer)
		span.WithExtra("name", tc.name(fn.Name.Name))
		tc.nodeParent = span.ID()
		defer span.End("")
	}
	defer func() {
		tc.fn = nil
		tc.fnSym = symbols.NoSymbolID
		tc.nodeParent = outer
	}()

	params := tc.table.Enter(symbols.ScopeParams, tc.table.Global, fn.Span)
	for _, pid := range fn.Params {
		param := tc.builder.Items.FnParam(pid)
		if param == nil {
			continue
		}
		tc.declareVar(params, symbols.SymbolParam, param.Name, types.FromAST(param.Type), param.Span)
	}

	tc.checkBlock(params, fn.Body)
	tc.reportUnusedVariables(params)
	tc.checkReturns(fn)
}

func (tc *typeChecker) checkBlock(parent symbols.ScopeID, blockID ast.StmtID) {
	block := tc.builder.Stmts.Block(blockID)
	if block == nil {
		return
	}
	scope := tc.table.Enter(symbols.ScopeBlock, parent, tc.builder.Stmts.Get(blockID).Span)

	returned := false
	var dead []ast.StmtID
	for _, id := range block.Stmts {
		if returned {
			dead = append(dead, id)
		}
		tc.checkStmt(scope, id)
		if !returned && tc.guaranteesReturn(id) {
			returned = true
		}
	}
	if len(dead) > 0 && tc.lints.UnreachableCode {
		first := tc.builder.Stmts.Get(dead[0]).Span
		last := tc.builder.Stmts.Get(dead[len(dead)-1]).Span
		tc.warn(diag.SemaUnreachableCode, first.Cover(last), "Unreachable code").
			WithField("count", strconv.Itoa(len(dead))).
			Emit()
	}
	tc.reportUnusedVariables(scope)
}

func (tc *typeChecker) checkStmt(scope symbols.ScopeID, id ast.StmtID) {
	stmt := tc.builder.Stmts.Get(id)
	if stmt == nil {
		return
	}
	if tc.nodeTracing() {
		span := trace.Begin(tc.tracer, trace.ScopeNode, "check_stmt", tc.nodeParent)
		span.WithExtra("kind", stmt.Kind.String())
		defer span.End("")
	}
	switch stmt.Kind {
	case ast.StmtBlock:
		tc.checkBlock(scope, id)
	case ast.StmtLet:
		let := tc.builder.Stmts.Let(id)
		// инициализатор видит только внешние имена
		got := tc.checkExpr(scope, let.Value)
		want := types.FromAST(let.Type)
		if got.IsValid() && want.IsValid() && !want.Equal(got) {
			tc.typeMismatch(want, got)
		}
		tc.declareVar(scope, symbols.SymbolLet, let.Name, want, stmt.Span)
	case ast.StmtIf:
		ifStmt := tc.builder.Stmts.If(id)
		cond := tc.checkExpr(scope, ifStmt.Cond)
		if cond.IsValid() && cond.Kind != types.KindBool {
			tc.errorf(diag.SemaNonBooleanCondition, cond.Span, "Condition must be a boolean").
				WithField("got", cond.String()).
				Emit()
		}
		tc.checkStmt(scope, ifStmt.Then)
		if ifStmt.Else.IsValid() {
			tc.checkStmt(scope, ifStmt.Else)
		}
	case ast.StmtReturn:
		ret := tc.builder.Stmts.Return(id)
		if ret.Value.IsValid() {
			tc.checkExpr(scope, ret.Value)
		}
	case ast.StmtExpr:
		tc.checkExpr(scope, tc.builder.Stmts.Expr(id).Expr)
	}
}
