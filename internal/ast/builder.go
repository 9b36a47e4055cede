package ast

import (
	"pyl/internal/source"
)

type Hints struct{ Programs, Items, Stmts, Exprs uint }

// Builder owns every node of one compilation unit. Nodes are never shared
// between builders and are not mutated after the parser returns.
type Builder struct {
	Programs        *Programs
	Items           *Items
	Stmts           *Stmts
	Exprs           *Exprs
	StringsInterner *source.Interner
}

func NewBuilder(hints Hints, interner *source.Interner) *Builder {
	if hints.Programs == 0 {
		hints.Programs = 1 << 2
	}
	if hints.Items == 0 {
		hints.Items = 1 << 5
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 7
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	if interner == nil {
		interner = source.NewInterner()
	}
	return &Builder{
		Programs:        NewPrograms(hints.Programs),
		Items:           NewItems(hints.Items),
		Stmts:           NewStmts(hints.Stmts),
		Exprs:           NewExprs(hints.Exprs),
		StringsInterner: interner,
	}
}

func (b *Builder) NewProgram(sp source.Span) ProgramID {
	return b.Programs.New(sp)
}

func (b *Builder) PushItem(program ProgramID, item ItemID) {
	p := b.Programs.Get(program)
	p.Items = append(p.Items, item)
}

// Name returns the text of an interned identifier.
func (b *Builder) Name(id source.StringID) string {
	s, _ := b.StringsInterner.Lookup(id)
	return s
}
