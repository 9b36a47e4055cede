package source

import (
	"sync"
	"testing"
)

func TestInternerRoundTrip(t *testing.T) {
	in := NewInterner()
	a := in.Intern("main")
	b := in.Intern("add")
	if a == b || a == NoStringID {
		t.Fatalf("unexpected ids %d %d", a, b)
	}
	if in.Intern("main") != a {
		t.Errorf("re-interning must return the same id")
	}
	if s, ok := in.Lookup(b); !ok || s != "add" {
		t.Errorf("Lookup = %q, %v", s, ok)
	}
	if _, ok := in.Lookup(StringID(42)); ok {
		t.Errorf("unknown id should not resolve")
	}
	if in.Len() != 3 {
		t.Errorf("Len = %d", in.Len())
	}
}

func TestInternerConcurrent(t *testing.T) {
	in := NewInterner()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, s := range []string{"x", "y", "z"} {
				in.Intern(s)
			}
		}()
	}
	wg.Wait()
	if in.Len() != 4 {
		t.Errorf("Len = %d, want 4", in.Len())
	}
}
