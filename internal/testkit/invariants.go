// Package testkit holds checks shared by tests of several packages.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"pyl/internal/ast"
	"pyl/internal/source"
)

// CheckSpanInvariants walks a successfully parsed tree and verifies:
// 1) every span points at sf and lies within its content;
// 2) every child span is contained in its parent's span;
// 3) siblings (items, block statements, call arguments) appear in source order.
func CheckSpanInvariants(b *ast.Builder, tree ast.AST, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	prog := b.Programs.Get(tree.Program)
	if prog == nil {
		return fmt.Errorf("program node not found")
	}
	size, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	c := spanChecker{b: b, file: sf.ID, size: size}
	if err := c.span("program", prog.Span, source.Span{File: sf.ID, End: size}); err != nil {
		return err
	}

	var prev source.Span
	for i, itemID := range prog.Items {
		item := b.Items.Get(itemID)
		if item == nil {
			return fmt.Errorf("nil item for id=%d", itemID)
		}
		if err := c.span("item", item.Span, prog.Span); err != nil {
			return err
		}
		if i > 0 && item.Span.Start < prev.End {
			return fmt.Errorf("item span %v overlaps previous %v", item.Span, prev)
		}
		prev = item.Span
		if err := c.fn(itemID, item.Span); err != nil {
			return err
		}
	}
	return nil
}

type spanChecker struct {
	b    *ast.Builder
	file source.FileID
	size uint32
}

func (c spanChecker) span(what string, sp, parent source.Span) error {
	switch {
	case sp.File != c.file:
		return fmt.Errorf("%s span file mismatch: got=%d want=%d", what, sp.File, c.file)
	case sp.End < sp.Start || sp.End > c.size:
		return fmt.Errorf("%s span %v out of bounds (len %d)", what, sp, c.size)
	case sp.Start < parent.Start || sp.End > parent.End:
		return fmt.Errorf("%s span %v is outside parent %v", what, sp, parent)
	}
	return nil
}

func (c spanChecker) fn(id ast.ItemID, parent source.Span) error {
	fn, ok := c.b.Items.Fn(id)
	if !ok {
		return fmt.Errorf("item %d is not a function", id)
	}
	if err := c.span("signature", fn.SigSpan, parent); err != nil {
		return err
	}
	if err := c.span("fn name", fn.Name.Span, fn.SigSpan); err != nil {
		return err
	}
	for _, pid := range fn.Params {
		param := c.b.Items.FnParam(pid)
		if param == nil {
			return fmt.Errorf("nil param for id=%d", pid)
		}
		if err := c.span("param", param.Span, fn.SigSpan); err != nil {
			return err
		}
	}
	return c.stmt(fn.Body, parent)
}

func (c spanChecker) stmt(id ast.StmtID, parent source.Span) error {
	st := c.b.Stmts.Get(id)
	if st == nil {
		return fmt.Errorf("nil stmt for id=%d", id)
	}
	if err := c.span(st.Kind.String(), st.Span, parent); err != nil {
		return err
	}
	switch st.Kind {
	case ast.StmtBlock:
		var prev source.Span
		for i, child := range c.b.Stmts.Block(id).Stmts {
			if err := c.stmt(child, st.Span); err != nil {
				return err
			}
			cur := c.b.Stmts.Get(child).Span
			if i > 0 && cur.Start < prev.End {
				return fmt.Errorf("stmt span %v overlaps previous %v", cur, prev)
			}
			prev = cur
		}
	case ast.StmtLet:
		return c.expr(c.b.Stmts.Let(id).Value, st.Span)
	case ast.StmtIf:
		data := c.b.Stmts.If(id)
		if err := c.expr(data.Cond, st.Span); err != nil {
			return err
		}
		if err := c.stmt(data.Then, st.Span); err != nil {
			return err
		}
		if data.Else.IsValid() {
			return c.stmt(data.Else, st.Span)
		}
	case ast.StmtReturn:
		if v := c.b.Stmts.Return(id).Value; v.IsValid() {
			return c.expr(v, st.Span)
		}
	case ast.StmtExpr:
		return c.expr(c.b.Stmts.Expr(id).Expr, st.Span)
	}
	return nil
}

func (c spanChecker) expr(id ast.ExprID, parent source.Span) error {
	e := c.b.Exprs.Get(id)
	if e == nil {
		return fmt.Errorf("nil expr for id=%d", id)
	}
	if err := c.span("expr", e.Span, parent); err != nil {
		return err
	}
	switch e.Kind {
	case ast.ExprGroup:
		data, _ := c.b.Exprs.Group(id)
		return c.expr(data.Inner, e.Span)
	case ast.ExprCall:
		data, _ := c.b.Exprs.Call(id)
		var prev source.Span
		for i, arg := range data.Args {
			if err := c.expr(arg, e.Span); err != nil {
				return err
			}
			cur := c.b.Exprs.Get(arg).Span
			if i > 0 && cur.Start < prev.End {
				return fmt.Errorf("argument span %v overlaps previous %v", cur, prev)
			}
			prev = cur
		}
	case ast.ExprUnary:
		data, _ := c.b.Exprs.Unary(id)
		return c.expr(data.Operand, e.Span)
	case ast.ExprBinary:
		data, _ := c.b.Exprs.Binary(id)
		if err := c.expr(data.Left, e.Span); err != nil {
			return err
		}
		return c.expr(data.Right, e.Span)
	}
	return nil
}
