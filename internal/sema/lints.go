package sema

import (
	"fmt"
	"strings"

	"pyl/internal/diag"
	"pyl/internal/symbols"
)

// reportUnusedVariables runs when scope closes; names starting with `_`
// are exempt.
func (tc *typeChecker) reportUnusedVariables(scope symbols.ScopeID) {
	if !tc.lints.UnusedVariables {
		return
	}
	for _, id := range tc.table.Unused(scope) {
		sym := tc.table.Symbols.Get(id)
		name := tc.table.Name(id)
		if strings.HasPrefix(name, "_") {
			continue
		}
		tc.warn(diag.SemaUnusedVariable, sym.NameSpan, "Unused variable").
			WithField("name", name).
			WithFix(fmt.Sprintf("if intended, prefix with an underscore: `_%s`", name),
				diag.FixEdit{Span: sym.NameSpan, NewText: "_" + name}).
			Emit()
	}
}

// reportUnusedFunctions only makes sense with an entry point.
func (tc *typeChecker) reportUnusedFunctions() {
	if !tc.lints.UnusedFunctions || !tc.mainSym.IsValid() {
		return
	}
	for _, id := range tc.fnOrder {
		if id == tc.mainSym {
			continue
		}
		sym := tc.table.Symbols.Get(id)
		name := tc.table.Name(id)
		if sym.Used || strings.HasPrefix(name, "_") {
			continue
		}
		tc.warn(diag.SemaUnusedFunction, sym.NameSpan, "Unused function").
			WithField("name", name).
			Emit()
	}
}
