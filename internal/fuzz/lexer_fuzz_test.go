package fuzztests

import (
	"testing"

	"pyl/internal/diag"
	"pyl/internal/lexer"
	"pyl/internal/source"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		fileID := fs.AddVirtual("fuzz.pyl", input)
		file := fs.Get(fileID)

		bag := diag.NewBag(0)
		lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		tokens := lx.Collect()

		// спаны токенов идут по возрастанию, не пересекаются и лежат в файле
		prevEnd := uint32(0)
		for i, tok := range tokens {
			sp := tok.Span
			if sp.Start < prevEnd || sp.End < sp.Start || int(sp.End) > len(file.Content) {
				t.Fatalf("token %d has bad span %v (prev end %d, len %d)", i, sp, prevEnd, len(file.Content))
			}
			prevEnd = sp.End
		}
		if lx.ErrorCount() > bag.Len() {
			t.Fatalf("ErrorCount %d exceeds reported %d", lx.ErrorCount(), bag.Len())
		}
	})
}
