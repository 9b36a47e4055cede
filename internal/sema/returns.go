package sema

import (
	"fmt"

	"pyl/internal/ast"
	"pyl/internal/diag"
	"pyl/internal/source"
	"pyl/internal/types"
)

// returnSite is one reachable `return`; bare marks `return;`.
type returnSite struct {
	typ  types.Type
	span source.Span
	bare bool
}

// guaranteesReturn reports whether every path through stmt ends in return.
func (tc *typeChecker) guaranteesReturn(id ast.StmtID) bool {
	return tc.collectReturns(id, nil)
}

// collectReturns appends reachable return sites to out (when non-nil) and
// reports whether a return is guaranteed:
//   - return always guarantees;
//   - if without else never does, if/else only when both arms do;
//   - a block does as soon as one of its statements does, the rest of the
//     block is not reachable and is not collected.
func (tc *typeChecker) collectReturns(id ast.StmtID, out *[]returnSite) bool {
	stmt := tc.builder.Stmts.Get(id)
	if stmt == nil {
		return false
	}
	switch stmt.Kind {
	case ast.StmtReturn:
		if out != nil {
			*out = append(*out, tc.returnSite(id, stmt))
		}
		return true
	case ast.StmtIf:
		ifStmt := tc.builder.Stmts.If(id)
		then := tc.collectReturns(ifStmt.Then, out)
		if !ifStmt.Else.IsValid() {
			return false
		}
		els := tc.collectReturns(ifStmt.Else, out)
		return then && els
	case ast.StmtBlock:
		for _, child := range tc.builder.Stmts.Block(id).Stmts {
			if tc.collectReturns(child, out) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func (tc *typeChecker) returnSite(id ast.StmtID, stmt *ast.Stmt) returnSite {
	ret := tc.builder.Stmts.Return(id)
	if !ret.Value.IsValid() {
		return returnSite{span: stmt.Span, bare: true}
	}
	t, ok := tc.result.ExprTypes[ret.Value]
	if !ok {
		t = types.Invalid(stmt.Span)
	}
	return returnSite{typ: t, span: t.Span}
}

func (tc *typeChecker) checkReturns(fn *ast.FnItem) {
	var sites []returnSite
	want := types.FromAST(fn.Result)

	if !tc.collectReturns(fn.Body, &sites) {
		if len(sites) == 0 {
			tc.errorf(diag.SemaMissingReturn, fn.SigSpan, "Missing return statement").
				WithFix("consider adding a reachable return statement").
				Emit()
			return
		}
		tc.errorf(diag.SemaMissingReturn, fn.SigSpan, "Return not guaranteed in all branches").
			WithFix("make sure all possible paths return a value").
			Emit()
		return
	}
	if !want.IsValid() {
		return
	}

	reported := make(map[string]struct{}, len(sites))
	for _, site := range sites {
		got := "nothing"
		if !site.bare {
			if !site.typ.IsValid() || site.typ.Equal(want) {
				continue
			}
			got = site.typ.String()
		}
		if _, dup := reported[got]; dup {
			continue
		}
		reported[got] = struct{}{}
		tc.errorf(diag.SemaIncompatibleReturnType, site.span, "Incompatible return type").
			WithField("want", want.String()).
			WithField("got", got).
			WithNote(fn.Result.Span, fmt.Sprintf("expected %s return type", want)).
			Emit()
	}
}
