package definitions

import (
	"fmt"

	"github.com/opencode-ai/portalstyle/internal/stylesheet"
	"github.com/opencode-ai/portalstyle/internal/tokens"
)

// Compile builds a sealed token store and a stylesheet from a definition.
// Every scope is checked to emit without unresolved references, so a
// compiled definition can be rendered for any of its scopes.
func Compile(def *Definition) (*tokens.Store, *stylesheet.Sheet, error) {
	if def == nil {
		return nil, nil, fmt.Errorf("definition is required")
	}
	if err := def.Validate(); err != nil {
		return nil, nil, fmt.Errorf("definition %s: %w", def.Name, err)
	}

	store := tokens.NewStore()
	for _, scope := range def.Scopes {
		if err := store.AddScope(scope.Name); err != nil {
			return nil, nil, fmt.Errorf("definition %s: %w", def.Name, err)
		}
		for _, tok := range scope.Tokens {
			if err := store.Define(scope.Name, tok.Name, tok.Value); err != nil {
				return nil, nil, fmt.Errorf("definition %s: %w", def.Name, err)
			}
		}
	}
	if err := store.Validate(); err != nil {
		return nil, nil, fmt.Errorf("definition %s: %w", def.Name, err)
	}

	sheet := def.Sheet()
	for _, scope := range store.Scopes() {
		if _, err := stylesheet.Collect(store, scope, sheet); err != nil {
			return nil, nil, fmt.Errorf("definition %s scope %s: %w", def.Name, scope, err)
		}
	}

	store.Seal()
	return store, sheet, nil
}
