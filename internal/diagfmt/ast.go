package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"pyl/internal/ast"
	"pyl/internal/source"
)

// ASTNodeOutput is one node of the dump; the pretty tree and the JSON
// document are rendered from the same value.
type ASTNodeOutput struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	Span     source.Span     `json:"span"`
	Children []ASTNodeOutput `json:"children,omitempty"`
}

// BuildAST converts the tree into ASTNodeOutput form.
func BuildAST(builder *ast.Builder, tree ast.AST) (ASTNodeOutput, error) {
	prog := builder.Programs.Get(tree.Program)
	if prog == nil {
		return ASTNodeOutput{}, fmt.Errorf("program %d not found", tree.Program)
	}
	d := astDumper{b: builder}
	root := ASTNodeOutput{Type: "Program", Span: prog.Span}
	for _, itemID := range prog.Items {
		root.Children = append(root.Children, d.item(itemID))
	}
	return root, nil
}

func FormatASTPretty(w io.Writer, builder *ast.Builder, tree ast.AST, fs *source.FileSet) error {
	root, err := BuildAST(builder, tree)
	if err != nil {
		return err
	}
	var sb strings.Builder
	sb.WriteString(nodeLabel(root, fs))
	sb.WriteByte('\n')
	writeChildren(&sb, root.Children, "", fs)
	_, err = io.WriteString(w, sb.String())
	return err
}

func FormatASTJSON(w io.Writer, builder *ast.Builder, tree ast.AST) error {
	root, err := BuildAST(builder, tree)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(root)
}

func writeChildren(sb *strings.Builder, children []ASTNodeOutput, prefix string, fs *source.FileSet) {
	for i, child := range children {
		branch, next := "├─ ", "│  "
		if i == len(children)-1 {
			branch, next = "└─ ", "   "
		}
		sb.WriteString(prefix + branch + nodeLabel(child, fs) + "\n")
		writeChildren(sb, child.Children, prefix+next, fs)
	}
}

func nodeLabel(n ASTNodeOutput, fs *source.FileSet) string {
	label := n.Type
	if n.Text != "" {
		label += " " + n.Text
	}
	return fmt.Sprintf("%s (span: %s)", label, formatSpan(n.Span, fs))
}

func formatSpan(span source.Span, fs *source.FileSet) string {
	if fs != nil && fs.Get(span.File) != nil {
		start, end := fs.Resolve(span)
		return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
	}
	return fmt.Sprintf("span(%d-%d)", span.Start, span.End)
}

type astDumper struct {
	b *ast.Builder
}

func (d astDumper) item(id ast.ItemID) ASTNodeOutput {
	fn, ok := d.b.Items.Fn(id)
	if !ok {
		return ASTNodeOutput{Type: "Item", Text: "<nil>"}
	}
	params := make([]string, 0, len(fn.Params))
	for _, pid := range fn.Params {
		if p := d.b.Items.FnParam(pid); p != nil {
			params = append(params, d.b.Name(p.Name.Name)+": "+p.Type.Kind.String())
		}
	}
	text := fmt.Sprintf("%s(%s) -> %s", d.b.Name(fn.Name.Name), strings.Join(params, ", "), fn.Result.Kind)
	return ASTNodeOutput{
		Type:     "FuncDecl",
		Text:     text,
		Span:     fn.Span,
		Children: []ASTNodeOutput{d.stmt(fn.Body)},
	}
}

func (d astDumper) stmt(id ast.StmtID) ASTNodeOutput {
	stmt := d.b.Stmts.Get(id)
	if stmt == nil {
		return ASTNodeOutput{Type: "Stmt", Text: "<nil>"}
	}
	out := ASTNodeOutput{Span: stmt.Span}
	switch stmt.Kind {
	case ast.StmtBlock:
		out.Type = "Block"
		for _, child := range d.b.Stmts.Block(id).Stmts {
			out.Children = append(out.Children, d.stmt(child))
		}
	case ast.StmtLet:
		let := d.b.Stmts.Let(id)
		out.Type = "VariableDecl"
		out.Text = d.b.Name(let.Name.Name) + ": " + let.Type.Kind.String()
		out.Children = []ASTNodeOutput{d.expr(let.Value)}
	case ast.StmtIf:
		ifStmt := d.b.Stmts.If(id)
		out.Type = "FlowStatement"
		out.Children = []ASTNodeOutput{d.expr(ifStmt.Cond), d.stmt(ifStmt.Then)}
		if ifStmt.Else.IsValid() {
			els := d.stmt(ifStmt.Else)
			els.Type = "Else"
			out.Children = append(out.Children, els)
		}
	case ast.StmtReturn:
		out.Type = "Return"
		if value := d.b.Stmts.Return(id).Value; value.IsValid() {
			out.Children = []ASTNodeOutput{d.expr(value)}
		}
	case ast.StmtExpr:
		out.Type = "ExprStatement"
		out.Children = []ASTNodeOutput{d.expr(d.b.Stmts.Expr(id).Expr)}
	default:
		out.Type = stmt.Kind.String()
	}
	return out
}

func (d astDumper) expr(id ast.ExprID) ASTNodeOutput {
	expr := d.b.Exprs.Get(id)
	if expr == nil {
		return ASTNodeOutput{Type: "Expr", Text: "<nil>"}
	}
	out := ASTNodeOutput{Span: expr.Span}
	switch expr.Kind {
	case ast.ExprIdent:
		data, _ := d.b.Exprs.Ident(id)
		out.Type, out.Text = "Ident", d.b.Name(data.Name)
	case ast.ExprLit:
		lit, _ := d.b.Exprs.Literal(id)
		switch lit.Kind {
		case ast.ExprLitInt:
			out.Type, out.Text = "Int", strconv.FormatInt(lit.Int, 10)
		case ast.ExprLitFloat:
			out.Type, out.Text = "Float", strconv.FormatFloat(lit.Float, 'g', -1, 64)
		case ast.ExprLitBool:
			out.Type, out.Text = "Bool", strconv.FormatBool(lit.Bool)
		default:
			out.Type = "Literal"
		}
	case ast.ExprGroup:
		data, _ := d.b.Exprs.Group(id)
		out.Type = "Parenthesized"
		out.Children = []ASTNodeOutput{d.expr(data.Inner)}
	case ast.ExprCall:
		data, _ := d.b.Exprs.Call(id)
		out.Type, out.Text = "FunctionCall", d.b.Name(data.Callee.Name)
		for _, arg := range data.Args {
			out.Children = append(out.Children, d.expr(arg))
		}
	case ast.ExprUnary:
		data, _ := d.b.Exprs.Unary(id)
		out.Type = "Negation"
		if data.Op == ast.ExprUnaryNot {
			out.Type = "Not"
		}
		out.Children = []ASTNodeOutput{d.expr(data.Operand)}
	case ast.ExprBinary:
		data, _ := d.b.Exprs.Binary(id)
		out.Type, out.Text = "BinaryExpression", "op="+data.Op.String()
		out.Children = []ASTNodeOutput{d.expr(data.Left), d.expr(data.Right)}
	default:
		out.Type = "Expr"
	}
	return out
}
