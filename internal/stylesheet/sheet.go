// Package stylesheet models style rules that reference design tokens and
// turns them into resolved declarations or stylesheet text.
package stylesheet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/opencode-ai/portalstyle/internal/tokens"
)

var (
	// ErrEmptySheet is returned when a sheet has no rules to emit.
	ErrEmptySheet = errors.New("stylesheet has no rules")
	// ErrInvalidValue is returned when a resolved value cannot be written
	// as stylesheet text.
	ErrInvalidValue = errors.New("invalid resolved value")
)

// Declaration is a single property assignment. Value may reference tokens.
type Declaration struct {
	Property string `json:"property"`
	Value    string `json:"value"`
}

// Rule pairs a selector with its declarations. Media, when set, is the
// condition of the enclosing @media block, e.g. "(max-width: 768px)".
type Rule struct {
	Selector     string        `json:"selector"`
	Media        string        `json:"media,omitempty"`
	Declarations []Declaration `json:"declarations"`
}

// Sheet is an ordered list of rules. Order is preserved in the output so
// the consuming renderer's cascade sees rules as authored.
type Sheet struct {
	Rules []Rule `json:"rules"`
}

// Add appends a rule.
func (s *Sheet) Add(rule Rule) {
	s.Rules = append(s.Rules, rule)
}

// RuleValidationError describes a malformed rule.
type RuleValidationError struct {
	Field   string
	Index   int
	Message string
}

func (e *RuleValidationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("rule %s[%d]: %s", e.Field, e.Index, e.Message)
	}
	return fmt.Sprintf("rule %s: %s", e.Field, e.Message)
}

// Validate checks that every rule can be written as syntactically valid
// stylesheet text. It does not check token references.
func Validate(sheet *Sheet) error {
	if sheet == nil || len(sheet.Rules) == 0 {
		return ErrEmptySheet
	}

	for i, rule := range sheet.Rules {
		if strings.TrimSpace(rule.Selector) == "" {
			return &RuleValidationError{Field: "selector", Index: i, Message: "selector is required"}
		}
		if strings.ContainsAny(rule.Selector, "{};") {
			return &RuleValidationError{Field: "selector", Index: i, Message: fmt.Sprintf("selector %q contains '{', '}' or ';'", rule.Selector)}
		}
		if strings.ContainsAny(rule.Media, "{};") {
			return &RuleValidationError{Field: "media", Index: i, Message: fmt.Sprintf("media condition %q contains '{', '}' or ';'", rule.Media)}
		}
		if len(rule.Declarations) == 0 {
			return &RuleValidationError{Field: "declarations", Index: i, Message: fmt.Sprintf("%s has no declarations", rule.Selector)}
		}
		for _, decl := range rule.Declarations {
			if err := validateDeclaration(decl); err != nil {
				return &RuleValidationError{Field: "declarations", Index: i, Message: fmt.Sprintf("%s: %v", rule.Selector, err)}
			}
		}
	}
	return nil
}

// checkResolved rejects resolved text that would break out of its
// declaration or still carries reference syntax.
func checkResolved(value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: value is blank", ErrInvalidValue)
	}
	if strings.ContainsAny(value, "{};") {
		return fmt.Errorf("%w: %q contains '{', '}' or ';'", ErrInvalidValue, value)
	}
	if tokens.HasReferences(value) {
		return fmt.Errorf("%w: %q", tokens.ErrResidualReference, value)
	}
	return nil
}

func validateDeclaration(decl Declaration) error {
	prop := strings.TrimSpace(decl.Property)
	if prop == "" {
		return errors.New("property is required")
	}
	if strings.ContainsAny(prop, ":;{} \t\n") {
		return fmt.Errorf("property %q is not a valid identifier", decl.Property)
	}
	if strings.TrimSpace(decl.Value) == "" {
		return fmt.Errorf("property %q has no value", prop)
	}
	if strings.ContainsAny(decl.Value, "{};") {
		return fmt.Errorf("value of %q contains '{', '}' or ';'", prop)
	}
	return nil
}
