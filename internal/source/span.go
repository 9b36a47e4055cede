package source

import (
	"fmt"
)

// Span is a half-open byte range [Start, End) in one file.
type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover returns the smallest span containing both s and other.
// Spans from different files are not merged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Between returns the gap {s.End, other.Start}. Overlapping or reversed
// spans yield an empty span at s.End.
func (s Span) Between(other Span) Span {
	if other.Start < s.End {
		return Span{File: s.File, Start: s.End, End: s.End}
	}
	return Span{File: s.File, Start: s.End, End: other.Start}
}

// Contains reports whether off lies inside the span.
func (s Span) Contains(off uint32) bool {
	return off >= s.Start && off < s.End
}

// ZeroSpan is a synthesized location at the first byte of the file.
func ZeroSpan(file FileID) Span {
	return Span{File: file}
}
