// Package styles turns resolved design tokens into lipgloss styles for
// terminal previews.
package styles

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Resolver resolves a token as seen from a scope.
type Resolver interface {
	Resolve(scope, name string) (string, error)
}

// Styles contains lipgloss styles derived from one scope's tokens.
type Styles struct {
	Scope   string
	Colors  map[string]string
	Title   lipgloss.Style
	Text    lipgloss.Style
	Muted   lipgloss.Style
	Accent  lipgloss.Style
	Border  lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// IsHexColor reports whether value is a #rgb or #rrggbb color, the forms
// lipgloss can render.
func IsHexColor(value string) bool {
	return hexColor.MatchString(strings.TrimSpace(value))
}

// PlainStyles returns uncolored styles, used when color output is off.
func PlainStyles(scope string) Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Scope:   scope,
		Colors:  map[string]string{},
		Title:   plain.Bold(true),
		Text:    plain,
		Muted:   plain,
		Accent:  plain,
		Border:  plain,
		Success: plain,
		Warning: plain,
		Error:   plain,
	}
}

// BuildStyles resolves each role's token in scope and converts it into a
// lipgloss style. Roles with an empty token name, or whose value is not a
// hex color, stay uncolored.
func BuildStyles(res Resolver, scope string, roles Roles) (Styles, error) {
	colors := make(map[string]string)
	for _, entry := range roles.entries() {
		if entry.token == "" {
			continue
		}
		value, err := res.Resolve(scope, entry.token)
		if err != nil {
			return Styles{}, fmt.Errorf("role %s: %w", entry.role, err)
		}
		if IsHexColor(value) {
			colors[entry.role] = strings.TrimSpace(value)
		}
	}

	fg := func(role string) lipgloss.Style {
		style := lipgloss.NewStyle()
		if color, ok := colors[role]; ok {
			style = style.Foreground(lipgloss.Color(color))
		}
		return style
	}

	return Styles{
		Scope:   scope,
		Colors:  colors,
		Title:   fg("title").Bold(true),
		Text:    fg("text"),
		Muted:   fg("muted"),
		Accent:  fg("accent"),
		Border:  fg("border"),
		Success: fg("success"),
		Warning: fg("warning"),
		Error:   fg("error"),
	}, nil
}

// Swatch renders a small color sample for hex color values and an empty
// string for anything else.
func Swatch(value string) string {
	if !IsHexColor(value) {
		return ""
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(strings.TrimSpace(value))).Render("    ")
}
