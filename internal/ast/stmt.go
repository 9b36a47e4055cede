package ast

import (
	"pyl/internal/source"
)

type StmtKind uint8

const (
	StmtBlock StmtKind = iota
	StmtLet
	StmtIf
	StmtReturn
	StmtExpr
)

func (k StmtKind) String() string {
	switch k {
	case StmtBlock:
		return "Block"
	case StmtLet:
		return "Let"
	case StmtIf:
		return "If"
	case StmtReturn:
		return "Return"
	case StmtExpr:
		return "Expr"
	default:
		return "?"
	}
}

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

type BlockStmt struct {
	Stmts []StmtID
}

// LetStmt is `let name: type = value;`.
type LetStmt struct {
	Name  Ident
	Type  TypeRef
	Value ExprID
}

// IfStmt is `if cond then (else else)?`; Then and Else are blocks.
type IfStmt struct {
	Cond ExprID
	Then StmtID
	Else StmtID // NoStmtID when absent
}

type ReturnStmt struct {
	Value ExprID // NoExprID for a bare `return;`
}

type ExprStmt struct {
	Expr ExprID
}

type Stmts struct {
	Arena   *Arena[Stmt]
	Blocks  *Arena[BlockStmt]
	Lets    *Arena[LetStmt]
	Ifs     *Arena[IfStmt]
	Returns *Arena[ReturnStmt]
	Exprs   *Arena[ExprStmt]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &Stmts{
		Arena:   NewArena[Stmt](capHint),
		Blocks:  NewArena[BlockStmt](capHint),
		Lets:    NewArena[LetStmt](capHint),
		Ifs:     NewArena[IfStmt](capHint),
		Returns: NewArena[ReturnStmt](capHint),
		Exprs:   NewArena[ExprStmt](capHint),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload PayloadID) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) NewBlock(span source.Span, stmts []StmtID) StmtID {
	payload := s.Blocks.Allocate(BlockStmt{Stmts: append([]StmtID(nil), stmts...)})
	return s.new(StmtBlock, span, PayloadID(payload))
}

func (s *Stmts) Block(id StmtID) *BlockStmt {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtBlock {
		return nil
	}
	return s.Blocks.Get(uint32(stmt.Payload))
}

func (s *Stmts) NewLet(span source.Span, name Ident, typ TypeRef, value ExprID) StmtID {
	payload := s.Lets.Allocate(LetStmt{Name: name, Type: typ, Value: value})
	return s.new(StmtLet, span, PayloadID(payload))
}

func (s *Stmts) Let(id StmtID) *LetStmt {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtLet {
		return nil
	}
	return s.Lets.Get(uint32(stmt.Payload))
}

func (s *Stmts) NewIf(span source.Span, cond ExprID, then, els StmtID) StmtID {
	payload := s.Ifs.Allocate(IfStmt{Cond: cond, Then: then, Else: els})
	return s.new(StmtIf, span, PayloadID(payload))
}

func (s *Stmts) If(id StmtID) *IfStmt {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtIf {
		return nil
	}
	return s.Ifs.Get(uint32(stmt.Payload))
}

func (s *Stmts) NewReturn(span source.Span, value ExprID) StmtID {
	payload := s.Returns.Allocate(ReturnStmt{Value: value})
	return s.new(StmtReturn, span, PayloadID(payload))
}

func (s *Stmts) Return(id StmtID) *ReturnStmt {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtReturn {
		return nil
	}
	return s.Returns.Get(uint32(stmt.Payload))
}

func (s *Stmts) NewExpr(span source.Span, expr ExprID) StmtID {
	payload := s.Exprs.Allocate(ExprStmt{Expr: expr})
	return s.new(StmtExpr, span, PayloadID(payload))
}

func (s *Stmts) Expr(id StmtID) *ExprStmt {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtExpr {
		return nil
	}
	return s.Exprs.Get(uint32(stmt.Payload))
}
