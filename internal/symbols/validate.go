package symbols

import (
	"errors"
	"fmt"

	"fortio.org/safecast"
)

// Validate walks internal arenas checking structural invariants. Returns nil if
// everything is consistent; otherwise aggregates all detected issues.
func (t *Table) Validate() error {
	var errs []error

	for idx := 1; idx < len(t.Scopes.data); idx++ {
		scopeID, err := toScopeID(idx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		scope := &t.Scopes.data[idx]
		if scope.Kind == ScopeInvalid {
			errs = append(errs, fmt.Errorf("scope %d has invalid kind", scopeID))
		}
		if scope.Parent.IsValid() {
			if int(scope.Parent) >= idx {
				errs = append(errs, fmt.Errorf("scope %d has invalid parent %d", scopeID, scope.Parent))
				continue
			}
			if !containsScope(t.Scopes.data[scope.Parent].Children, scopeID) {
				errs = append(errs, fmt.Errorf("scope %d parent %d missing backlink", scopeID, scope.Parent))
			}
		} else if scope.Kind != ScopeGlobal {
			errs = append(errs, fmt.Errorf("scope %d (%s) has no parent", scopeID, scope.Kind))
		}

		for name, symID := range scope.Vars {
			errs = append(errs, t.checkBinding(scopeID, name, symID, false)...)
		}
		for name, symID := range scope.Funcs {
			errs = append(errs, t.checkBinding(scopeID, name, symID, true)...)
		}
	}

	return errors.Join(errs...)
}

func (t *Table) checkBinding(scope ScopeID, name any, id SymbolID, fn bool) []error {
	sym := t.Symbols.Get(id)
	if sym == nil {
		return []error{fmt.Errorf("scope %d binds %v to missing symbol %d", scope, name, id)}
	}
	var errs []error
	if sym.Scope != scope {
		errs = append(errs, fmt.Errorf("symbol %d belongs to scope %d, indexed in %d", id, sym.Scope, scope))
	}
	if (sym.Kind == SymbolFunction) != fn {
		errs = append(errs, fmt.Errorf("symbol %d (%s) indexed in wrong namespace", id, sym.Kind))
	}
	return errs
}

func containsScope(list []ScopeID, id ScopeID) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

func toScopeID(idx int) (ScopeID, error) {
	value, err := safecast.Conv[uint32](idx)
	if err != nil {
		return NoScopeID, fmt.Errorf("scope index overflow: %w", err)
	}
	return ScopeID(value), nil
}
