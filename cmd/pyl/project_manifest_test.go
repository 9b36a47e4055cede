package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pyl/internal/driver"
	"pyl/internal/sema"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestManifestDiscoveryWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, manifestName), "[package]\nname = \"demo\"\n")
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, ok, err := loadProjectManifest(nested)
	if err != nil || !ok {
		t.Fatalf("loadProjectManifest = %v, %v", ok, err)
	}
	if m.Config.Package.Name != "demo" {
		t.Errorf("name = %q", m.Config.Package.Name)
	}
	wantRoot, _ := filepath.Abs(root)
	if m.Root != wantRoot {
		t.Errorf("root = %q, want %q", m.Root, wantRoot)
	}
}

func TestManifestValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"missing package", "[diag]\nmax = 3\n", "missing [package]"},
		{"missing name", "[package]\n", "missing [package].name"},
		{"blank name", "[package]\nname = \"  \"\n", "missing [package].name"},
		{"negative max", "[package]\nname = \"x\"\n[diag]\nmax = -1\n", "must not be negative"},
		{"unknown key", "[package]\nname = \"x\"\n[lint]\nshadowing = true\n", "unknown key lint.shadowing"},
		{"bad toml", "[package\n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), manifestName)
			writeFile(t, path, tt.content)
			_, _, err := loadProjectConfig(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestManifestApplyOnlyDefinedKeys(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, manifestName), `[package]
name = "demo"

[diag]
max = 7

[lint]
unused_functions = false
`)
	m, ok, err := loadProjectManifest(dir)
	if err != nil || !ok {
		t.Fatalf("loadProjectManifest = %v, %v", ok, err)
	}

	opts := driver.DiagnoseOptions{MaxDiagnostics: 100, WarningsAsErrors: true}
	m.apply(&opts)

	if opts.MaxDiagnostics != 7 {
		t.Errorf("MaxDiagnostics = %d", opts.MaxDiagnostics)
	}
	if !opts.WarningsAsErrors {
		t.Error("WarningsAsErrors overwritten by an absent key")
	}
	want := sema.Lints{UnusedVariables: true, UnusedFunctions: false, UnreachableCode: true}
	if diff := cmp.Diff(want, *opts.Lints); diff != "" {
		t.Errorf("lints mismatch (-want +got):\n%s", diff)
	}
}

func TestNilManifestApply(t *testing.T) {
	var m *projectManifest
	opts := driver.DiagnoseOptions{MaxDiagnostics: 5}
	m.apply(&opts)
	if opts.MaxDiagnostics != 5 || opts.Lints != nil {
		t.Fatalf("nil manifest changed options: %+v", opts)
	}
}

func TestNoManifest(t *testing.T) {
	m, ok, err := loadProjectManifest(t.TempDir())
	// каталог может лежать внутри проекта с pyl.toml выше по дереву
	if err != nil {
		t.Fatal(err)
	}
	if !ok && m != nil {
		t.Fatal("manifest returned without ok")
	}
}

func TestInitProject(t *testing.T) {
	target := filepath.Join(t.TempDir(), "hello")
	created, err := initProject(target)
	if err != nil {
		t.Fatal(err)
	}
	if !created {
		t.Error("main.pyl not reported as created")
	}

	cfg, _, err := loadProjectConfig(filepath.Join(target, manifestName))
	if err != nil {
		t.Fatalf("generated manifest does not load: %v", err)
	}
	if cfg.Package.Name != "hello" || cfg.Diag.Max != 100 {
		t.Errorf("cfg = %+v", cfg)
	}

	res, err := driver.Diagnose(t.Context(), filepath.Join(target, "main.pyl"), driver.DiagnoseOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Bag.Len() != 0 {
		t.Errorf("generated main.pyl has diagnostics: %v", res.Bag.Codes())
	}

	if _, err := initProject(target); err == nil || !strings.Contains(err.Error(), "already initialized") {
		t.Fatalf("second init err = %v", err)
	}
}

func TestInitKeepsExistingMain(t *testing.T) {
	target := t.TempDir()
	writeFile(t, filepath.Join(target, "main.pyl"), "fn main() -> int { return 1; }\n")
	created, err := initProject(target)
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Error("existing main.pyl reported as created")
	}
	data, _ := os.ReadFile(filepath.Join(target, "main.pyl"))
	if string(data) != "fn main() -> int { return 1; }\n" {
		t.Errorf("main.pyl overwritten: %q", data)
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, " on ": uiModeOn, "off": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("always"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestFormatSignature(t *testing.T) {
	res := driver.DiagnoseSource(t.Context(), "s.pyl", []byte("fn add(a: int, b: float) -> bool { return true; }\nfn main() -> int { if add(1, 2.0) { return 1; } return 0; }\n"), driver.DiagnoseOptions{})
	if res.Sema == nil || len(res.Sema.Functions) != 2 {
		t.Fatalf("unexpected sema result: %+v", res.Sema)
	}
	if got := formatSignature(res.Sema.Functions[0]); got != "fn add(int, float) -> bool" {
		t.Errorf("formatSignature = %q", got)
	}
}
