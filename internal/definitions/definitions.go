// Package definitions loads token and rule definitions from YAML or TOML
// files and compiles them into a token store and a stylesheet.
package definitions

import (
	"errors"
	"fmt"
	"strings"

	"github.com/opencode-ai/portalstyle/internal/stylesheet"
	"github.com/opencode-ai/portalstyle/internal/tokens"
)

var (
	// ErrDefinitionNameRequired is returned when a definition has no name.
	ErrDefinitionNameRequired = errors.New("definition name is required")
	// ErrDefinitionNotFound is returned when a named definition is not found.
	ErrDefinitionNotFound = errors.New("definition not found")
)

// ValidationError describes a structural problem in a definition.
type ValidationError struct {
	Field   string
	Index   int
	Message string
}

func (e *ValidationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("definition %s[%d]: %s", e.Field, e.Index, e.Message)
	}
	return fmt.Sprintf("definition %s: %s", e.Field, e.Message)
}

// Definition is one stylesheet source: token scopes plus rules.
type Definition struct {
	Name        string     `yaml:"name" toml:"name" json:"name"`
	Description string     `yaml:"description" toml:"description" json:"description,omitempty"`
	Scopes      []ScopeDef `yaml:"scopes" toml:"scopes" json:"scopes"`
	Rules       []RuleDef  `yaml:"rules" toml:"rules" json:"rules"`
	Source      string     `yaml:"-" toml:"-" json:"source"` // file path or "builtin"
}

// ScopeDef lists the tokens one scope defines. The first scope must be the
// base scope.
type ScopeDef struct {
	Name        string     `yaml:"name" toml:"name" json:"name"`
	Description string     `yaml:"description,omitempty" toml:"description,omitempty" json:"description,omitempty"`
	Tokens      []TokenDef `yaml:"tokens" toml:"tokens" json:"tokens"`
}

// TokenDef is a single token definition.
type TokenDef struct {
	Name  string `yaml:"name" toml:"name" json:"name"`
	Value string `yaml:"value" toml:"value" json:"value"`
}

// RuleDef is a selector with declarations, optionally inside a media block.
type RuleDef struct {
	Selector     string           `yaml:"selector" toml:"selector" json:"selector"`
	Media        string           `yaml:"media,omitempty" toml:"media,omitempty" json:"media,omitempty"`
	Declarations []DeclarationDef `yaml:"declarations" toml:"declarations" json:"declarations"`
}

// DeclarationDef is a property assignment whose value may reference tokens.
type DeclarationDef struct {
	Property string `yaml:"property" toml:"property" json:"property"`
	Value    string `yaml:"value" toml:"value" json:"value"`
}

// TokenCount returns the number of tokens across all scopes.
func (d *Definition) TokenCount() int {
	total := 0
	for _, scope := range d.Scopes {
		total += len(scope.Tokens)
	}
	return total
}

// ScopeNames returns scope names in file order.
func (d *Definition) ScopeNames() []string {
	names := make([]string, 0, len(d.Scopes))
	for _, scope := range d.Scopes {
		names = append(names, scope.Name)
	}
	return names
}

// Sheet converts the rule definitions into a stylesheet.
func (d *Definition) Sheet() *stylesheet.Sheet {
	sheet := &stylesheet.Sheet{Rules: make([]stylesheet.Rule, 0, len(d.Rules))}
	for _, rule := range d.Rules {
		decls := make([]stylesheet.Declaration, 0, len(rule.Declarations))
		for _, decl := range rule.Declarations {
			decls = append(decls, stylesheet.Declaration{Property: decl.Property, Value: decl.Value})
		}
		sheet.Add(stylesheet.Rule{
			Selector:     rule.Selector,
			Media:        rule.Media,
			Declarations: decls,
		})
	}
	return sheet
}

// Validate checks the definition's structure. Token uniqueness and
// reference resolution are checked by Compile.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return ErrDefinitionNameRequired
	}
	if len(d.Scopes) == 0 {
		return &ValidationError{Field: "scopes", Index: -1, Message: fmt.Sprintf("scope %q is required", tokens.BaseScope)}
	}
	if d.Scopes[0].Name != tokens.BaseScope {
		return &ValidationError{Field: "scopes", Index: 0, Message: fmt.Sprintf("first scope must be %q, got %q", tokens.BaseScope, d.Scopes[0].Name)}
	}

	seen := make(map[string]bool, len(d.Scopes))
	for i, scope := range d.Scopes {
		name := strings.TrimSpace(scope.Name)
		if name == "" {
			return &ValidationError{Field: "scopes", Index: i, Message: "name is required"}
		}
		if seen[name] {
			return &ValidationError{Field: "scopes", Index: i, Message: fmt.Sprintf("scope %q declared twice", name)}
		}
		seen[name] = true
	}

	if err := stylesheet.Validate(d.Sheet()); err != nil {
		return err
	}
	return nil
}

// Find returns the definition with the given name.
func Find(defs []*Definition, name string) (*Definition, error) {
	for _, def := range defs {
		if def.Name == name {
			return def, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrDefinitionNotFound, name)
}
