// Package tokens holds design tokens and resolves symbolic references to
// concrete style values through override scopes.
//
// A Store is built once, sealed, and then read. Sealed stores are never
// mutated and may be shared between goroutines without locking.
package tokens

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// BaseScope is the scope every lookup falls back to.
const BaseScope = "default"

// Token is a raw token definition.
type Token struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Scope string `json:"scope"`
}

// Resolved is a token with every reference in its value expanded.
type Resolved struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Raw   string `json:"raw"`
	// Scope is the scope that supplied the raw value.
	Scope string `json:"scope"`
}

type scope struct {
	name   string
	order  []string
	values map[string]string
}

func newScope(name string) *scope {
	return &scope{name: name, values: make(map[string]string)}
}

// Store maps token names to values across scopes.
type Store struct {
	scopes map[string]*scope
	order  []string
	sealed bool
}

// NewStore returns an empty store containing only the base scope.
func NewStore() *Store {
	s := &Store{scopes: make(map[string]*scope)}
	s.scopes[BaseScope] = newScope(BaseScope)
	s.order = append(s.order, BaseScope)
	return s
}

// AddScope declares a scope. Declaring an existing scope is a no-op.
func (s *Store) AddScope(name string) error {
	if s.sealed {
		return ErrStoreSealed
	}
	if !ValidName(name) {
		return fmt.Errorf("invalid scope name %q", name)
	}
	s.ensureScope(name)
	return nil
}

// Define registers a token in a scope, declaring the scope if needed.
// A second definition of the same name in the same scope fails with
// *DuplicateTokenError and leaves the first definition in place. Blank
// values and values containing '{', '}' or ';' fail with
// *InvalidTokenValueError.
func (s *Store) Define(scopeName, name, value string) error {
	if s.sealed {
		return ErrStoreSealed
	}
	if !ValidName(scopeName) {
		return fmt.Errorf("invalid scope name %q", scopeName)
	}
	if !ValidName(name) {
		return &InvalidTokenNameError{Name: name}
	}
	if reason := checkValue(value); reason != "" {
		return &InvalidTokenValueError{Scope: scopeName, Name: name, Value: value, Reason: reason}
	}

	sc := s.ensureScope(scopeName)
	if existing, ok := sc.values[name]; ok {
		return &DuplicateTokenError{Scope: scopeName, Name: name, Existing: existing}
	}

	sc.values[name] = value
	sc.order = append(sc.order, name)
	return nil
}

// Seal freezes the store. Subsequent Define and AddScope calls fail.
func (s *Store) Seal() {
	s.sealed = true
}

// Sealed reports whether the store is frozen.
func (s *Store) Sealed() bool {
	return s.sealed
}

// HasScope reports whether name was declared.
func (s *Store) HasScope(name string) bool {
	_, ok := s.scopes[name]
	return ok
}

// Scopes returns scope names in declaration order, base first.
func (s *Store) Scopes() []string {
	return slices.Clone(s.order)
}

// Lookup returns the raw token visible in a scope without expanding
// references.
func (s *Store) Lookup(scopeName, name string) (Token, bool) {
	sc, ok := s.scopes[scopeName]
	if !ok {
		return Token{}, false
	}
	return s.lookup(sc, name)
}

// Resolve returns the value of name as seen from a scope: the scope's own
// definition when present, otherwise the base scope's. References inside
// the value are expanded from the same scope.
func (s *Store) Resolve(scopeName, name string) (string, error) {
	sc, err := s.scope(scopeName)
	if err != nil {
		return "", err
	}
	return s.resolve(sc, name, "", nil)
}

// ExpandReferences substitutes every token reference in text with its
// value as seen from a scope.
func (s *Store) ExpandReferences(scopeName, text string) (string, error) {
	sc, err := s.scope(scopeName)
	if err != nil {
		return "", err
	}
	return s.expand(sc, text, "", nil)
}

// Names returns the token names visible in a scope: base names in
// definition order followed by names only the scope defines.
func (s *Store) Names(scopeName string) []string {
	sc, ok := s.scopes[scopeName]
	if !ok {
		return nil
	}

	base := s.scopes[BaseScope]
	names := slices.Clone(base.order)
	if sc == base {
		return names
	}
	for _, name := range sc.order {
		if _, ok := base.values[name]; !ok {
			names = append(names, name)
		}
	}
	return names
}

// Tokens returns the raw tokens visible in a scope, in Names order.
func (s *Store) Tokens(scopeName string) []Token {
	names := s.Names(scopeName)
	out := make([]Token, 0, len(names))
	for _, name := range names {
		if tok, ok := s.Lookup(scopeName, name); ok {
			out = append(out, tok)
		}
	}
	return out
}

// Overrides returns the tokens defined directly in a scope, in definition
// order. For the base scope this is every base token.
func (s *Store) Overrides(scopeName string) []Token {
	sc, ok := s.scopes[scopeName]
	if !ok {
		return nil
	}
	out := make([]Token, 0, len(sc.order))
	for _, name := range sc.order {
		out = append(out, Token{Name: name, Value: sc.values[name], Scope: sc.name})
	}
	return out
}

// ResolveAll resolves every token visible in a scope.
func (s *Store) ResolveAll(scopeName string) ([]Resolved, error) {
	sc, err := s.scope(scopeName)
	if err != nil {
		return nil, err
	}

	names := s.Names(scopeName)
	out := make([]Resolved, 0, len(names))
	for _, name := range names {
		tok, _ := s.lookup(sc, name)
		value, err := s.resolve(sc, name, "", nil)
		if err != nil {
			return nil, err
		}
		out = append(out, Resolved{Name: name, Value: value, Raw: tok.Value, Scope: tok.Scope})
	}
	return out, nil
}

// Validate checks that every override has a base definition and that every
// token resolves in every scope. All problems are returned together.
func (s *Store) Validate() error {
	var errs []error
	base := s.scopes[BaseScope]

	for _, scopeName := range s.order {
		sc := s.scopes[scopeName]
		if sc != base {
			for _, name := range sc.order {
				if _, ok := base.values[name]; !ok {
					errs = append(errs, &OrphanOverrideError{Scope: sc.name, Name: name})
				}
			}
		}
		for _, name := range s.Names(scopeName) {
			if _, err := s.resolve(sc, name, "", nil); err != nil {
				errs = append(errs, err)
			}
		}
	}

	return errors.Join(errs...)
}

func (s *Store) ensureScope(name string) *scope {
	sc, ok := s.scopes[name]
	if !ok {
		sc = newScope(name)
		s.scopes[name] = sc
		s.order = append(s.order, name)
	}
	return sc
}

func (s *Store) scope(name string) (*scope, error) {
	sc, ok := s.scopes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScope, name)
	}
	return sc, nil
}

func (s *Store) lookup(sc *scope, name string) (Token, bool) {
	if value, ok := sc.values[name]; ok {
		return Token{Name: name, Value: value, Scope: sc.name}, true
	}
	base := s.scopes[BaseScope]
	if value, ok := base.values[name]; ok {
		return Token{Name: name, Value: value, Scope: base.name}, true
	}
	return Token{}, false
}

func (s *Store) resolve(sc *scope, name, referrer string, chain []string) (string, error) {
	if slices.Contains(chain, name) {
		cycle := append(slices.Clone(chain), name)
		return "", &CycleError{Scope: sc.name, Chain: cycle}
	}

	tok, ok := s.lookup(sc, name)
	if !ok {
		return "", &UndefinedTokenError{Scope: sc.name, Name: name, Referrer: referrer}
	}
	if !HasReferences(tok.Value) {
		return tok.Value, nil
	}
	return s.expand(sc, tok.Value, name, append(chain, name))
}

// expand substitutes references in one pass. Substituted text is never
// rescanned, so a result that reads as a reference is an error rather than
// a second round of lookups.
func (s *Store) expand(sc *scope, text, referrer string, chain []string) (string, error) {
	var out strings.Builder
	for _, seg := range ParseValue(text) {
		if !seg.IsReference() {
			out.WriteString(seg.Text)
			continue
		}
		value, err := s.resolve(sc, seg.Ref, referrer, chain)
		if err != nil {
			return "", err
		}
		out.WriteString(value)
	}

	result := out.String()
	if HasReferences(result) {
		return "", &ResidualReferenceError{Scope: sc.name, Text: text, Value: result}
	}
	return result, nil
}

// checkValue returns why value cannot be stored, or "" when it can.
func checkValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "is blank"
	}
	if strings.ContainsAny(value, "{};") {
		return "contains '{', '}' or ';'"
	}
	return ""
}
