package fuzztests

import (
	"path/filepath"
	"testing"

	"golang.org/x/tools/txtar"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB: ограничение для тестового корпуса
	maxFuzzInput = 1 << 16
)

var languageSeeds = []string{
	"",
	"fn main() -> int { return 0; }\n",
	"fn add(a: int, b: int) -> int { return a + b; }\nfn main() -> int { return add(1, 2); }\n",
	"fn main() -> int { if 1 < 2 && !false { return 1; } else { return -2; } }",
	"fn f(x: float) -> bool { return x >= 1.5 || (x * 2.0) == 0.; }",
	"fn main() -> int { let _x: int = 1 % 3; return _x; }",
	"/* a /* nested */ comment */ fn main() -> int { return 0; } // tail",
	"fn main() -> int { return 0 }",
	"fn main( -> int {",
	"let x: int = 1;",
	"fn main() -> int { return 1.2.3; }",
	"fn main() -> int { $ }",
	"fn f(a: int b: int) -> int { return a; }",
	"fn main() -> int { return f(1, 2,); }",
	"fn main() -> int { return ((((1)))); }",
	"fn main() -> int { /* open",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

// addTestdataSeeds adds every input.pyl section of the sema golden archives.
func addTestdataSeeds(f *testing.F) {
	paths, err := filepath.Glob(filepath.Join("..", "sema", "testdata", "*.txtar"))
	if err != nil {
		return
	}
	for _, path := range paths {
		ar, err := txtar.ParseFile(path)
		if err != nil {
			continue
		}
		for _, file := range ar.Files {
			if filepath.Ext(file.Name) == ".pyl" {
				f.Add(clampSeed(file.Data))
			}
		}
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
