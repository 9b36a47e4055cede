package token

var keywords = map[string]Kind{
	"fn":     KwFn,
	"if":     KwIf,
	"else":   KwElse,
	"let":    KwLet,
	"return": KwReturn,
	"int":    KwInt,
	"bool":   KwBool,
	"float":  KwFloat,
	"true":   BoolLit,
	"false":  BoolLit,
}

// LookupKeyword классифицирует слово; всё, что не ключевое слово, это Ident.
func LookupKeyword(word string) (Kind, bool) {
	k, ok := keywords[word]
	return k, ok
}
