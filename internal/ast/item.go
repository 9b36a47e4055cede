package ast

import (
	"pyl/internal/source"
)

type ItemKind uint8

const (
	ItemFn ItemKind = iota
)

type Item struct {
	Kind    ItemKind
	Span    source.Span
	Payload PayloadID
}

type Items struct {
	Arena    *Arena[Item]
	Fns      *Arena[FnItem]
	FnParams *Arena[FnParam]
}

// NewItems creates item arenas; capHint 0 falls back to 1<<5.
func NewItems(capHint uint) *Items {
	if capHint == 0 {
		capHint = 1 << 5
	}
	return &Items{
		Arena:    NewArena[Item](capHint),
		Fns:      NewArena[FnItem](capHint),
		FnParams: NewArena[FnParam](capHint * 2),
	}
}

func (i *Items) New(kind ItemKind, span source.Span, payloadID PayloadID) ItemID {
	return ItemID(i.Arena.Allocate(Item{
		Kind:    kind,
		Span:    span,
		Payload: payloadID,
	}))
}

func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(uint32(id))
}

// FnItem is `fn name(params) -> result block`.
type FnItem struct {
	Name   Ident
	Params []FnParamID
	Result TypeRef
	Body   StmtID // always a StmtBlock
	// SigSpan covers `fn` through the result type.
	SigSpan source.Span
	Span    source.Span
}

// FnParam is `name: type`.
type FnParam struct {
	Name Ident
	Type TypeRef
	Span source.Span
}

func (i *Items) NewFn(name Ident, params []FnParamID, result TypeRef, body StmtID, sigSpan, span source.Span) ItemID {
	payload := i.Fns.Allocate(FnItem{
		Name:    name,
		Params:  append([]FnParamID(nil), params...),
		Result:  result,
		Body:    body,
		SigSpan: sigSpan,
		Span:    span,
	})
	return i.New(ItemFn, span, PayloadID(payload))
}

func (i *Items) Fn(id ItemID) (*FnItem, bool) {
	item := i.Arena.Get(uint32(id))
	if item == nil || item.Kind != ItemFn {
		return nil, false
	}
	return i.Fns.Get(uint32(item.Payload)), true
}

func (i *Items) NewFnParam(name Ident, typ TypeRef, span source.Span) FnParamID {
	return FnParamID(i.FnParams.Allocate(FnParam{Name: name, Type: typ, Span: span}))
}

func (i *Items) FnParam(id FnParamID) *FnParam {
	return i.FnParams.Get(uint32(id))
}
