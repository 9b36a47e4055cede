// Package diag defines the diagnostic model shared by the lexer, parser and
// semantic analyzer.
//
// A Diagnostic carries a Severity, a numeric Code with a stable string ID
// (LEX1001, SYN2001, SEM3001, ...), a short message, a primary span, optional
// notes pointing at secondary spans, ordered structured fields (expected and
// found types, names, counts) and optional fix suggestions.
//
// Producers emit through a Reporter and never format text themselves.
// BagReporter collects into a Bag, which supports sorting, deduplication and
// merging. Rendering lives in internal/diagfmt.
//
// Keep the data model deterministic: diagnostics are cached on disk by the
// driver (msgpack), so every field must be plain data.
package diag
