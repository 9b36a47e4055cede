package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"pyl/internal/diag"
	"pyl/internal/sema"
	"pyl/internal/source"
	"pyl/internal/types"
	"pyl/internal/version"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 2

// Digest is a SHA-256 cache key.
type Digest [32]byte

// DiskCache хранит диагностики файлов на диске по хешу содержимого.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload stores the raw diagnostics of one file: uncapped, before
// severity rewrites.
// Spans keep only byte offsets; the file is re-attached on load.
type DiskPayload struct {
	Schema      uint16
	Path        string
	Diagnostics []CachedDiagnostic
	Functions   []CachedSignature
}

// CachedSignature is a sema.FunctionSig without its AST item.
type CachedSignature struct {
	Name   string
	Params []CachedType
	Result CachedType
}

type CachedType struct {
	Kind       uint8
	Start, End uint32
}

type CachedDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Start    uint32
	End      uint32
	Notes    []CachedNote
	Fields   []CachedField
	Fixes    []CachedFix
}

type CachedNote struct {
	Start, End uint32
	Msg        string
}

type CachedField struct {
	Key, Value string
}

type CachedFix struct {
	Title string
	Edits []CachedEdit
}

type CachedEdit struct {
	Start, End uint32
	NewText    string
}

// OpenDiskCache opens the cache under $XDG_CACHE_HOME/<app> (or ~/.cache/<app>).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewDiskCache(filepath.Join(base, app))
}

// NewDiskCache opens a cache rooted at dir, creating it if needed.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "diags", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) error {
	if c == nil || payload == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	// Атомарная замена
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// Get reads a payload. A missing entry or a payload of another schema is
// a miss, not an error.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	// #nosec G304 -- path is derived from the digest
	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("decode cache entry: %w", err)
	}
	return out.Schema == diskCacheSchemaVersion, nil
}

// DropAll invalidates the whole cache.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}

// cacheKey: H(schema || build fingerprint || content hash || lint switches).
// Diagnostic limits and severity rewrites are applied after the cache and
// stay out of the key.
func cacheKey(content [32]byte, lints sema.Lints) Digest {
	h := sha256.New()
	_, _ = h.Write([]byte{byte(diskCacheSchemaVersion >> 8), byte(diskCacheSchemaVersion)})
	_, _ = h.Write([]byte(buildFingerprint()))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(content[:])
	_, _ = h.Write([]byte{flagByte(lints.UnusedVariables), flagByte(lints.UnusedFunctions), flagByte(lints.UnreachableCode)})
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// buildFingerprint меняется с каждой сборкой, которая может менять анализ.
func buildFingerprint() string {
	info := version.Get()
	return info.Version + "+" + info.GitCommit + "+" + info.GoVersion
}

func flagByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func newPayload(path string, bag *diag.Bag, functions []sema.FunctionSig) *DiskPayload {
	items := bag.Items()
	payload := &DiskPayload{
		Schema:      diskCacheSchemaVersion,
		Path:        path,
		Diagnostics: make([]CachedDiagnostic, len(items)),
	}
	for _, fn := range functions {
		cs := CachedSignature{Name: fn.Name, Result: cachedType(fn.Result)}
		for _, p := range fn.Params {
			cs.Params = append(cs.Params, cachedType(p))
		}
		payload.Functions = append(payload.Functions, cs)
	}
	for i, d := range items {
		cd := CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, CachedNote{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
		}
		for _, f := range d.Fields {
			cd.Fields = append(cd.Fields, CachedField{Key: f.Key, Value: f.Value})
		}
		for _, fix := range d.Fixes {
			cf := CachedFix{Title: fix.Title}
			for _, e := range fix.Edits {
				cf.Edits = append(cf.Edits, CachedEdit{Start: e.Span.Start, End: e.Span.End, NewText: e.NewText})
			}
			cd.Fixes = append(cd.Fixes, cf)
		}
		payload.Diagnostics[i] = cd
	}
	return payload
}

func cachedType(t types.Type) CachedType {
	return CachedType{Kind: uint8(t.Kind), Start: t.Span.Start, End: t.Span.End}
}

// restore re-attaches cached diagnostics to file, adds them to bag and
// returns the cached signatures.
func (p *DiskPayload) restore(file source.FileID, bag *diag.Bag) []sema.FunctionSig {
	span := func(start, end uint32) source.Span {
		return source.Span{File: file, Start: start, End: end}
	}
	typ := func(ct CachedType) types.Type {
		return types.Primitive(types.Kind(ct.Kind), span(ct.Start, ct.End))
	}
	for _, cd := range p.Diagnostics {
		d := diag.New(diag.Severity(cd.Severity), diag.Code(cd.Code), span(cd.Start, cd.End), cd.Message)
		for _, n := range cd.Notes {
			d = d.WithNote(span(n.Start, n.End), n.Msg)
		}
		for _, f := range cd.Fields {
			d = d.WithField(f.Key, f.Value)
		}
		for _, cf := range cd.Fixes {
			var edits []diag.FixEdit
			for _, e := range cf.Edits {
				edits = append(edits, diag.FixEdit{Span: span(e.Start, e.End), NewText: e.NewText})
			}
			d = d.WithFix(cf.Title, edits...)
		}
		bag.Add(d)
	}

	var functions []sema.FunctionSig
	for _, cs := range p.Functions {
		fn := sema.FunctionSig{Name: cs.Name, Result: typ(cs.Result)}
		for _, ct := range cs.Params {
			fn.Params = append(fn.Params, typ(ct))
		}
		functions = append(functions, fn)
	}
	return functions
}
