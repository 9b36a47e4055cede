package sema

import (
	"fmt"
	"strconv"

	"pyl/internal/ast"
	"pyl/internal/diag"
	"pyl/internal/source"
	"pyl/internal/symbols"
	"pyl/internal/types"
)

// checkExpr infers the type of an expression, reports what is wrong with it
// and records the result in ExprTypes. Errors yield the invalid type, which
// silences checks further up the tree.
func (tc *typeChecker) checkExpr(scope symbols.ScopeID, id ast.ExprID) types.Type {
	expr := tc.builder.Exprs.Get(id)
	if expr == nil {
		return types.Invalid(tc.fnSpan())
	}
	t := tc.inferExpr(scope, id, expr)
	tc.result.ExprTypes[id] = t
	return t
}

func (tc *typeChecker) inferExpr(scope symbols.ScopeID, id ast.ExprID, expr *ast.Expr) types.Type {
	switch expr.Kind {
	case ast.ExprLit:
		lit, _ := tc.builder.Exprs.Literal(id)
		return types.FromLiteral(lit.Kind, expr.Span)

	case ast.ExprIdent:
		data, _ := tc.builder.Exprs.Ident(id)
		symID := tc.table.LookupVar(scope, data.Name)
		sym := tc.table.Symbols.Get(symID)
		if sym == nil {
			name := tc.name(data.Name)
			tc.errorf(diag.SemaVariableNotDeclared, expr.Span, "Variable `%s` has not been declared yet", name).
				WithField("name", name).
				Emit()
			return types.Invalid(expr.Span)
		}
		tc.table.MarkUsed(symID)
		if !sym.Type.IsValid() {
			return types.Invalid(expr.Span)
		}
		return types.Primitive(sym.Type.Kind, expr.Span)

	case ast.ExprGroup:
		data, _ := tc.builder.Exprs.Group(id)
		inner := tc.checkExpr(scope, data.Inner)
		inner.Span = expr.Span
		return inner

	case ast.ExprCall:
		return tc.inferCall(scope, id, expr)

	case ast.ExprUnary:
		data, _ := tc.builder.Exprs.Unary(id)
		operand := tc.checkExpr(scope, data.Operand)
		if !operand.IsValid() {
			return types.Invalid(expr.Span)
		}
		spec, ok := types.UnarySpecFor(data.Op)
		if !ok || !spec.Operand.Accepts(operand) {
			tc.errorf(diag.SemaUnsupportedUnary, expr.Span, "Unsupported unary operation").
				WithField("op", data.Op.String()).
				WithField("got", operand.String()).
				WithNote(operand.Span, fmt.Sprintf("can't apply %s to %s", data.Op, operand)).
				Emit()
			return types.Invalid(expr.Span)
		}
		if spec.Result == types.UnaryResultBool {
			return types.Primitive(types.KindBool, expr.Span)
		}
		return types.Primitive(operand.Kind, expr.Span)

	case ast.ExprBinary:
		data, _ := tc.builder.Exprs.Binary(id)
		left := tc.checkExpr(scope, data.Left)
		right := tc.checkExpr(scope, data.Right)
		if !left.IsValid() || !right.IsValid() {
			return types.Invalid(expr.Span)
		}
		if !left.Equal(right) {
			tc.typeMismatch(left, right)
			return types.Invalid(expr.Span)
		}
		spec, ok := types.BinarySpecFor(data.Op)
		if !ok || !spec.Operands.Accepts(left) {
			tc.errorf(diag.SemaUnsupportedBinary, expr.Span, "Unsupported binary operation").
				WithField("op", data.Op.String()).
				WithField("got", left.String()).
				WithNote(expr.Span, fmt.Sprintf("can't apply %s to %s", data.Op, left)).
				Emit()
			return types.Invalid(expr.Span)
		}
		if spec.Result == types.BinaryResultBool {
			return types.Primitive(types.KindBool, expr.Span)
		}
		return types.Primitive(left.Kind, expr.Span)
	}
	return types.Invalid(expr.Span)
}

func (tc *typeChecker) inferCall(scope symbols.ScopeID, id ast.ExprID, expr *ast.Expr) types.Type {
	call, _ := tc.builder.Exprs.Call(id)
	args := make([]types.Type, len(call.Args))
	for i, arg := range call.Args {
		args[i] = tc.checkExpr(scope, arg)
	}

	symID := tc.table.LookupFunc(scope, call.Callee.Name)
	sym := tc.table.Symbols.Get(symID)
	if sym == nil {
		name := tc.name(call.Callee.Name)
		tc.errorf(diag.SemaFunctionNotDeclared, call.Callee.Span, "Function `%s` has not been declared yet", name).
			WithField("name", name).
			Emit()
		return types.Invalid(expr.Span)
	}
	// рекурсия не считается использованием
	if symID != tc.fnSym {
		tc.table.MarkUsed(symID)
	}

	if len(args) != len(sym.Params) {
		tc.errorf(diag.SemaArgumentCountMismatch, expr.Span, "Argument count mismatch").
			WithField("want", strconv.Itoa(len(sym.Params))).
			WithField("got", strconv.Itoa(len(args))).
			WithNote(sym.SigSpan, fmt.Sprintf("expected %d arguments", len(sym.Params))).
			Emit()
	} else {
		for i, got := range args {
			want := sym.Params[i]
			if got.IsValid() && want.IsValid() && !want.Equal(got) {
				tc.typeMismatch(want, got)
			}
		}
	}
	if !sym.Result.IsValid() {
		return types.Invalid(expr.Span)
	}
	return types.Primitive(sym.Result.Kind, expr.Span)
}

func (tc *typeChecker) fnSpan() (sp source.Span) {
	if tc.fn != nil {
		sp = tc.fn.Span
	}
	return sp
}
