// Package cli provides status formatting helpers.
package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

const (
	colorGreen  = lipgloss.Color("2")
	colorRed    = lipgloss.Color("1")
	colorYellow = lipgloss.Color("3")
)

func formatValidationStatus(valid bool) string {
	if valid {
		return colorize(formatStatusLabel("OK"), colorGreen)
	}
	return colorize(formatStatusLabel("FAIL"), colorRed)
}

func formatOverrideCount(overrides int, base bool) string {
	if base {
		return "-"
	}
	if overrides == 0 {
		return colorize("0", colorYellow)
	}
	return fmt.Sprintf("%d", overrides)
}

// formatStatusLabel pads before coloring so escape codes do not skew columns.
func formatStatusLabel(label string) string {
	return fmt.Sprintf("%-4s", label)
}

func colorize(text string, color lipgloss.Color) string {
	if !colorEnabled() {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
