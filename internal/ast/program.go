package ast

import (
	"pyl/internal/source"
)

// Program is the root of one compilation unit.
type Program struct {
	Span  source.Span
	Items []ItemID
}

type Programs struct {
	Arena *Arena[Program]
}

func NewPrograms(capHint uint) *Programs {
	return &Programs{
		Arena: NewArena[Program](capHint),
	}
}

func (p *Programs) New(sp source.Span) ProgramID {
	return ProgramID(p.Arena.Allocate(Program{
		Span:  sp,
		Items: make([]ItemID, 0),
	}))
}

func (p *Programs) Get(id ProgramID) *Program {
	return p.Arena.Get(uint32(id))
}

// AST is the parser output: a program and the file it came from.
type AST struct {
	Program ProgramID
	File    source.FileID
}
