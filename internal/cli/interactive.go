// Package cli provides helpers for terminal detection.
package cli

import (
	"os"

	"golang.org/x/term"
)

// colorEnabled reports whether styled output should be written.
func colorEnabled() bool {
	if noColor {
		return false
	}
	if _, ok := os.LookupEnv("PORTALSTYLE_NO_COLOR"); ok {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return hasTTY()
}

func hasTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
