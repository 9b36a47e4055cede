package fuzztests

import (
	"testing"
	"time"

	"pyl/internal/ast"
	"pyl/internal/diag"
	"pyl/internal/lexer"
	"pyl/internal/parser"
	"pyl/internal/sema"
	"pyl/internal/source"
	"pyl/internal/testkit"
)

// parseTimeout is the maximum time allowed for one input through the
// whole front end.
const parseTimeout = 5 * time.Second

// runPipeline lexes, parses and checks input the way the driver does.
func runPipeline(t *testing.T, input []byte) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("fuzz.pyl", input)
	file := fs.Get(fileID)

	bag := diag.NewBag(0)
	reporter := diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	tokens := lx.Collect()
	if lx.ErrorCount() > 0 {
		return
	}

	builder := ast.NewBuilder(ast.Hints{}, nil)
	res := parser.Parse(tokens, builder, fileID, parser.Options{Reporter: reporter})
	if res.Err != nil {
		if bag.Len() != 1 {
			t.Fatalf("syntax error must be the only diagnostic, got %d", bag.Len())
		}
		return
	}
	if err := testkit.CheckSpanInvariants(builder, res.AST, file); err != nil {
		t.Fatalf("span invariants: %v", err)
	}

	result := sema.Check(builder, res.AST, sema.Options{Reporter: reporter})
	if err := result.Symbols.Validate(); err != nil {
		t.Fatalf("symbol table invalid: %v", err)
	}
	if result.Errors != bag.Count(diag.SevError) {
		t.Fatalf("Errors=%d, bag has %d", result.Errors, bag.Count(diag.SevError))
	}
	if result.Errors > 0 && result.Functions != nil {
		t.Fatal("signatures exported despite errors")
	}
}

func FuzzFrontEnd(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		runPipeline(t, clampInput(input))
	})
}

// FuzzParserNoHang runs the front end under a timeout to catch loops in
// the parser or the return-path analysis.
func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)
	f.Add([]byte("fn f() -> int { if true { if true { if true { return 1; } } } }"))
	f.Add([]byte("fn f() -> int { return 1; return 2; return 3; }"))
	f.Add([]byte("fn f() -> int { return 1 + 2 * 3 - 4 / 5 % 6 < 7 == true && false || true; }"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		done := make(chan struct{})
		go func() {
			defer close(done)
			runPipeline(t, input)
		}()

		select {
		case <-done:
		case <-time.After(parseTimeout):
			t.Fatalf("front end hang detected after %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
