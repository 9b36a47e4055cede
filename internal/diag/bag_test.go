package diag

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"pyl/internal/source"
)

func TestBagLimit(t *testing.T) {
	bag := NewBag(2)
	for i := range 3 {
		bag.Add(NewError(SemaTypesDoNotMatch, source.Span{Start: uint32(i)}, "x"))
	}
	if bag.Len() != 2 || bag.Dropped() != 1 {
		t.Fatalf("len=%d dropped=%d", bag.Len(), bag.Dropped())
	}

	unlimited := NewBag(0)
	for range 100 {
		unlimited.Add(NewWarning(SemaUnusedVariable, source.Span{}, "x"))
	}
	if unlimited.Len() != 100 {
		t.Fatalf("unlimited bag len=%d", unlimited.Len())
	}
}

func TestBagSort(t *testing.T) {
	bag := NewBag(0)
	bag.Add(NewWarning(SemaUnusedVariable, source.Span{Start: 5, End: 6}, "w"))
	bag.Add(NewError(SemaTypesDoNotMatch, source.Span{Start: 5, End: 6}, "e"))
	bag.Add(NewError(SemaMissingMain, source.Span{}, "m"))

	bag.Sort()

	want := []Code{SemaMissingMain, SemaTypesDoNotMatch, SemaUnusedVariable}
	if diff := cmp.Diff(want, bag.Codes()); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
}

func TestBagSeverities(t *testing.T) {
	bag := NewBag(0)
	bag.Add(NewWarning(SemaUnreachableCode, source.Span{}, "w"))
	if bag.HasErrors() || bag.Count(SevWarning) != 1 {
		t.Fatal("warning only bag misclassified")
	}
	bag.PromoteWarnings()
	if !bag.HasErrors() || bag.Count(SevError) != 1 {
		t.Fatal("PromoteWarnings did not promote")
	}
}

func TestBagMergeKeepsEverything(t *testing.T) {
	a := NewBag(1)
	a.Add(NewError(SemaMissingMain, source.Span{}, "m"))
	a.Add(NewError(SemaMissingMain, source.Span{}, "dropped"))
	b := NewBag(0)
	b.Add(NewWarning(SemaUnusedVariable, source.Span{Start: 2}, "w"))

	all := NewBag(0)
	all.Merge(a)
	all.Merge(b)
	all.Merge(nil)
	if diff := cmp.Diff([]Code{SemaMissingMain, SemaUnusedVariable}, all.Codes()); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	if all.Dropped() != 1 {
		t.Errorf("dropped = %d", all.Dropped())
	}

	capped := NewBag(1)
	capped.Merge(b)
	capped.Merge(b)
	if capped.Len() != 2 {
		t.Errorf("Merge must grow the limit, len = %d", capped.Len())
	}
}

func TestReportBuilder(t *testing.T) {
	bag := NewBag(0)
	ReportError(BagReporter{Bag: bag}, SemaArgumentCountMismatch, source.Span{Start: 1, End: 4}, "Argument count mismatch").
		WithNote(source.Span{Start: 10, End: 12}, "expected 2 arguments").
		WithField("got", "1").
		WithField("want", "2").
		Emit()

	if bag.Len() != 1 {
		t.Fatalf("len=%d", bag.Len())
	}
	d := bag.Items()[0]
	if got, _ := d.Field("want"); got != "2" {
		t.Errorf("want field = %q", got)
	}
	if len(d.Spans()) != 2 {
		t.Errorf("spans = %v", d.Spans())
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	d := NewError(SemaVariableNotDeclared, source.Span{Start: 3, End: 4}, "Variable `x` has not been declared yet")
	r.Report(d)
	r.Report(d)
	if bag.Len() != 1 {
		t.Fatalf("len=%d", bag.Len())
	}
}

func TestCodeIDs(t *testing.T) {
	tests := map[Code]string{
		LexUnexpectedChar:  "LEX1001",
		SynExpectedToken:   "SYN2001",
		SemaMissingReturn:  "SEM3005",
		SemaUnusedFunction: "SEM3901",
		IOLoadFileError:    "IO4001",
		UnknownCode:        "E0000",
	}
	for code, want := range tests {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %s, want %s", code, got, want)
		}
	}
}
