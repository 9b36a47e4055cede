package diag

import (
	"pyl/internal/source"
)

// Note points at a secondary location.
type Note struct {
	Span source.Span
	Msg  string
}

// FixEdit replaces the text under Span with NewText.
type FixEdit struct {
	Span    source.Span
	NewText string
}

// Fix is a suggested correction. Help-only suggestions carry no edits.
type Fix struct {
	Title string
	Edits []FixEdit
}

// Field is one piece of structured context ("expected" -> "int").
type Field struct {
	Key   string
	Value string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fields   []Field
	Fixes    []Fix
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func NewWarning(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevWarning, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithField(key, value string) Diagnostic {
	d.Fields = append(d.Fields, Field{Key: key, Value: value})
	return d
}

func (d Diagnostic) WithFix(title string, edits ...FixEdit) Diagnostic {
	d.Fixes = append(d.Fixes, Fix{Title: title, Edits: edits})
	return d
}

// Field returns the value stored under key.
func (d Diagnostic) Field(key string) (string, bool) {
	for _, f := range d.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Spans returns the primary span followed by every note span.
func (d Diagnostic) Spans() []source.Span {
	out := make([]source.Span, 0, 1+len(d.Notes))
	out = append(out, d.Primary)
	for _, n := range d.Notes {
		out = append(out, n.Span)
	}
	return out
}
