package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/portalstyle/internal/definitions"
	"github.com/opencode-ai/portalstyle/internal/stylesheet"
)

var validateAll bool

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateAll, "all", false, "validate every definition on the search path")
}

// ValidationReport is the outcome of validating one definition.
type ValidationReport struct {
	Definition string   `json:"definition"`
	Source     string   `json:"source"`
	Valid      bool     `json:"valid"`
	Scopes     []string `json:"scopes,omitempty"`
	Triples    int      `json:"triples"`
	Error      string   `json:"error,omitempty"`
}

// ErrValidationFailed is returned when any validated definition is invalid.
var ErrValidationFailed = errors.New("validation failed")

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that a definition compiles in every scope",
	Long: `Compile a definition and resolve every rule in every scope.

Reports duplicate tokens, undefined references, alias cycles, overrides
without a base token and malformed rules.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var defs []*definitions.Definition
		if validateAll {
			all, err := loadDefinitions()
			if err != nil {
				return err
			}
			defs = all
		} else {
			def, err := loadSelectedDefinition()
			if err != nil {
				return err
			}
			defs = []*definitions.Definition{def}
		}

		reports := make([]ValidationReport, 0, len(defs))
		failed := 0
		for _, def := range defs {
			report := validateDefinition(def)
			if !report.Valid {
				failed++
			}
			reports = append(reports, report)
		}

		out := cmd.OutOrStdout()
		if IsJSONOutput() || IsJSONLOutput() {
			if err := WriteOutput(out, reports); err != nil {
				return err
			}
		} else {
			for _, r := range reports {
				if r.Valid {
					fmt.Fprintf(out, "%s  %s (%d scopes, %d declarations)\n", formatValidationStatus(true), r.Definition, len(r.Scopes), r.Triples)
					continue
				}
				fmt.Fprintf(out, "%s  %s (%s)\n", formatValidationStatus(false), r.Definition, r.Source)
				fmt.Fprintf(out, "      %s\n", r.Error)
			}
		}

		if failed > 0 {
			return fmt.Errorf("%w: %d of %d definitions", ErrValidationFailed, failed, len(reports))
		}
		return nil
	},
}

func validateDefinition(def *definitions.Definition) ValidationReport {
	report := ValidationReport{Definition: def.Name, Source: def.Source}

	c, err := compileDefinition(def)
	if err != nil {
		report.Error = err.Error()
		return report
	}

	for _, scope := range c.store.Scopes() {
		triples, err := stylesheet.Collect(c.store, scope, c.sheet)
		if err != nil {
			report.Error = fmt.Sprintf("scope %s: %v", scope, err)
			return report
		}
		report.Triples += len(triples)
	}
	report.Scopes = c.store.Scopes()
	report.Valid = true
	return report
}
