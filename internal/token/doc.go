// Package token defines lexical token kinds for the pyl front end.
// Invariants:
//   - Token.Text is the exact source slice covered by Token.Span.
//   - Kind.String() is the canonical spelling for every keyword, operator
//     and punctuation kind, so kinds can be re-serialized to source text.
//   - Built-in type names (int, bool, float) are keywords, not identifiers.
//   - true/false are lexed as BoolLit; their spelling lives in Text.
package token
