package source

import (
	"testing"
)

func TestSpanCover(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want Span
	}{
		{"disjoint", Span{File: 1, Start: 2, End: 4}, Span{File: 1, Start: 10, End: 12}, Span{File: 1, Start: 2, End: 12}},
		{"reversed order", Span{File: 1, Start: 10, End: 12}, Span{File: 1, Start: 2, End: 4}, Span{File: 1, Start: 2, End: 12}},
		{"nested", Span{File: 1, Start: 0, End: 20}, Span{File: 1, Start: 5, End: 6}, Span{File: 1, Start: 0, End: 20}},
		{"other file ignored", Span{File: 1, Start: 0, End: 2}, Span{File: 2, Start: 5, End: 9}, Span{File: 1, Start: 0, End: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.want {
				t.Errorf("Cover() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpanBetween(t *testing.T) {
	a := Span{Start: 0, End: 3}
	b := Span{Start: 7, End: 9}
	if got := a.Between(b); got != (Span{Start: 3, End: 7}) {
		t.Errorf("Between() = %v", got)
	}
	// перекрытие не должно давать start > end
	if got := b.Between(a); got.Start > got.End {
		t.Errorf("Between() inverted: %v", got)
	}
}

func TestZeroSpan(t *testing.T) {
	sp := ZeroSpan(3)
	if !sp.Empty() || sp.File != 3 || sp.Start != 0 {
		t.Fatalf("unexpected zero span %v", sp)
	}
}
