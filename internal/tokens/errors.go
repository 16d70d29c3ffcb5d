package tokens

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateToken is returned when a token is defined twice in one scope.
	ErrDuplicateToken = errors.New("duplicate token")
	// ErrUndefinedToken is returned when a token is absent from both the
	// requested scope and the base scope.
	ErrUndefinedToken = errors.New("undefined token")
	// ErrUnknownScope is returned when a scope was never declared.
	ErrUnknownScope = errors.New("unknown scope")
	// ErrTokenCycle is returned when token values reference each other in a loop.
	ErrTokenCycle = errors.New("token reference cycle")
	// ErrStoreSealed is returned when a sealed store is modified.
	ErrStoreSealed = errors.New("token store is sealed")
	// ErrInvalidTokenName is returned for names that cannot be referenced.
	ErrInvalidTokenName = errors.New("invalid token name")
	// ErrOrphanOverride is returned when a scope overrides a token the base
	// scope never defines.
	ErrOrphanOverride = errors.New("override has no base definition")
	// ErrInvalidTokenValue is returned for values that cannot be written
	// into a declaration or custom property.
	ErrInvalidTokenValue = errors.New("invalid token value")
	// ErrResidualReference is returned when expanding a value produces new
	// reference syntax.
	ErrResidualReference = errors.New("expansion left a token reference")
)

// DuplicateTokenError describes a rejected second definition.
type DuplicateTokenError struct {
	Scope    string
	Name     string
	Existing string
}

func (e *DuplicateTokenError) Error() string {
	return fmt.Sprintf("token %q already defined in scope %q (value %q)", e.Name, e.Scope, e.Existing)
}

// Is reports whether target is ErrDuplicateToken.
func (e *DuplicateTokenError) Is(target error) bool {
	return target == ErrDuplicateToken
}

// UndefinedTokenError describes a failed lookup.
type UndefinedTokenError struct {
	Scope string
	Name  string
	// Referrer is the token whose value referenced Name, if any.
	Referrer string
}

func (e *UndefinedTokenError) Error() string {
	if e.Referrer != "" {
		return fmt.Sprintf("token %q referenced by %q is not defined in scope %q or %q", e.Name, e.Referrer, e.Scope, BaseScope)
	}
	return fmt.Sprintf("token %q is not defined in scope %q or %q", e.Name, e.Scope, BaseScope)
}

// Is reports whether target is ErrUndefinedToken.
func (e *UndefinedTokenError) Is(target error) bool {
	return target == ErrUndefinedToken
}

// CycleError describes a reference loop between token values.
type CycleError struct {
	Scope string
	Chain []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("token reference cycle in scope %q: %s", e.Scope, strings.Join(e.Chain, " -> "))
}

// Is reports whether target is ErrTokenCycle.
func (e *CycleError) Is(target error) bool {
	return target == ErrTokenCycle
}

// InvalidTokenNameError describes a name rejected at definition time.
type InvalidTokenNameError struct {
	Name string
}

func (e *InvalidTokenNameError) Error() string {
	return fmt.Sprintf("invalid token name %q: use letters, digits, '-' or '_' and no leading '--'", e.Name)
}

// Is reports whether target is ErrInvalidTokenName.
func (e *InvalidTokenNameError) Is(target error) bool {
	return target == ErrInvalidTokenName
}

// OrphanOverrideError describes a scope token without a base definition.
type OrphanOverrideError struct {
	Scope string
	Name  string
}

func (e *OrphanOverrideError) Error() string {
	return fmt.Sprintf("scope %q overrides %q which scope %q does not define", e.Scope, e.Name, BaseScope)
}

// Is reports whether target is ErrOrphanOverride.
func (e *OrphanOverrideError) Is(target error) bool {
	return target == ErrOrphanOverride
}

// InvalidTokenValueError describes a value rejected at definition time.
type InvalidTokenValueError struct {
	Scope  string
	Name   string
	Value  string
	Reason string
}

func (e *InvalidTokenValueError) Error() string {
	return fmt.Sprintf("token %q in scope %q: value %q %s", e.Name, e.Scope, e.Value, e.Reason)
}

// Is reports whether target is ErrInvalidTokenValue.
func (e *InvalidTokenValueError) Is(target error) bool {
	return target == ErrInvalidTokenValue
}

// ResidualReferenceError describes text whose expansion still reads as a
// token reference, e.g. "<<x>>" with x = "primary-color".
type ResidualReferenceError struct {
	Scope string
	Text  string
	Value string
}

func (e *ResidualReferenceError) Error() string {
	return fmt.Sprintf("%q in scope %q expands to %q, which still contains a token reference", e.Text, e.Scope, e.Value)
}

// Is reports whether target is ErrResidualReference.
func (e *ResidualReferenceError) Is(target error) bool {
	return target == ErrResidualReference
}
