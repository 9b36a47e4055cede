package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"pyl/internal/driver"
)

// runCLI executes the root command with args and resets every flag
// afterwards, since cobra keeps flag values between runs.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	runTraceCleanup()
	resetFlags(rootCmd)
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

const unusedProgram = "fn main() -> int {\n let count: int = 1;\n return 0;\n}\n"

func TestFixDryRunLeavesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.pyl")
	writeFile(t, path, unusedProgram)

	out, err := runCLI(t, "fix", "--list", path)
	if err != nil {
		t.Fatalf("fix --list: %v", err)
	}
	if !strings.Contains(out, "SEM3900-") || !strings.Contains(out, "prefix") {
		t.Errorf("fix --list output:\n%s", out)
	}

	out, err = runCLI(t, "fix", "--dry-run", path)
	if err != nil {
		t.Fatalf("fix --dry-run: %v", err)
	}
	if !strings.Contains(out, "would change") || !strings.Contains(out, "(1 edit(s))") {
		t.Errorf("fix --dry-run output:\n%s", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != unusedProgram {
		t.Errorf("dry run rewrote the file:\n%s", data)
	}

	if _, err := runCLI(t, "fix", path); err != nil {
		t.Fatalf("fix: %v", err)
	}
	data, err = os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "let _count: int") {
		t.Errorf("fix did not rename the variable:\n%s", data)
	}
}

func TestDiagFailsWhenErrorIsTruncated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "b.pyl")
	writeFile(t, path, "fn main() -> int {\n let a: int = 1;\n return true;\n}")

	out, err := runCLI(t, "diag", "--ui", "off", "--color", "off", "--max-diagnostics", "1", path)
	if !errors.Is(err, driver.ErrHasErrors) {
		t.Fatalf("err = %v, want ErrHasErrors\n%s", err, out)
	}
	if !strings.Contains(out, "1 error(s), 1 warning(s)") || !strings.Contains(out, "1 more diagnostics dropped") {
		t.Errorf("diag output:\n%s", out)
	}
}

func TestDiagSignaturesWithWarmCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "c.pyl")
	writeFile(t, path, "fn scale(x: float, n: int) -> float { return x; }\nfn main() -> int { return 0; }\n")

	for i := range 2 {
		out, err := runCLI(t, "diag", "--ui", "off", "--disk-cache", "--no-warnings", "--signatures", path)
		if err != nil {
			t.Fatalf("run %d: %v\n%s", i, err, out)
		}
		if !strings.Contains(out, "fn scale(float, int) -> float") || !strings.Contains(out, "fn main() -> int") {
			t.Errorf("run %d: signatures missing:\n%s", i, out)
		}
		if i == 1 && !strings.Contains(out, "1 from cache") {
			t.Errorf("second run did not hit the cache:\n%s", out)
		}
	}

	cacheDir := filepath.Join(os.Getenv("XDG_CACHE_HOME"), cacheApp)
	out, err := runCLI(t, "clean")
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if !strings.Contains(out, "removed "+cacheDir) {
		t.Errorf("clean output: %q", out)
	}
	if _, err := os.Stat(cacheDir); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("cache dir still present: %v", err)
	}
}
