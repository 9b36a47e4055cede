package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("test.pyl", []byte("hello world"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}
	id2 := fs.Add("test.pyl", []byte("hello universe"), 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}

	latest, ok := fs.GetLatest("test.pyl")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d, %v; want %d", latest, ok, id2)
	}
	if string(fs.Get(id1).Content) != "hello world" {
		t.Errorf("old version lost")
	}
	if fs.Get(99) != nil {
		t.Errorf("expected nil for unknown id")
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.pyl", []byte("fn main\n  x\n\nend"))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{7, LineCol{1, 8}}, // сам '\n'
		{8, LineCol{2, 1}},
		{10, LineCol{2, 3}},
		{12, LineCol{3, 1}},
		{13, LineCol{4, 1}},
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if start != tt.want {
			t.Errorf("offset %d: got %+v, want %+v", tt.off, start, tt.want)
		}
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("a.pyl", []byte("one\ntwo\nthree")))
	for i, want := range []string{"one", "two", "three", ""} {
		if got := f.GetLine(uint32(i + 1)); got != want {
			t.Errorf("line %d = %q, want %q", i+1, got, want)
		}
	}
	if f.GetLine(0) != "" {
		t.Errorf("line 0 should be empty")
	}
}

func TestLoadNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.pyl")
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("a\r\nb\r\n")...)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "a\nb\n" {
		t.Errorf("content = %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("flags = %b", f.Flags)
	}
}

func TestNormalizeNFC(t *testing.T) {
	// "e" + combining acute accent -> "é"
	content, flags := Normalize([]byte("cafe\u0301"))
	if string(content) != "caf\u00e9" {
		t.Errorf("content = %q", content)
	}
	if flags&FileNormalizedNFC == 0 {
		t.Errorf("expected NFC flag")
	}
}

func TestLoadMissingFile(t *testing.T) {
	fs := NewFileSet()
	if _, err := fs.Load(filepath.Join(t.TempDir(), "nope.pyl")); err == nil {
		t.Fatal("expected error")
	}
}
