package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/portalstyle/internal/styles"
	"github.com/opencode-ai/portalstyle/internal/tokens"
)

var tokensPreview bool

func init() {
	rootCmd.AddCommand(tokensCmd)

	tokensCmd.Flags().BoolVar(&tokensPreview, "preview", false, "show color swatches (TTY only)")
}

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "List tokens visible in a scope",
	Long:  "List every token visible in a scope with its raw value, resolved value and the scope that supplied it.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := compileSelected()
		if err != nil {
			return err
		}
		scope, err := c.selectedScope()
		if err != nil {
			return err
		}

		resolved, err := c.store.ResolveAll(scope)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(out, resolved)
		}

		preview := tokensPreview && currentConfig().Preview.Color && colorEnabled()
		st := styles.PlainStyles(scope)
		if preview {
			st, err = styles.BuildStyles(c.store, scope, styles.DefaultRoles)
			if err != nil {
				// Custom definitions may not carry the portal role tokens.
				st = styles.PlainStyles(scope)
			}
		}

		fmt.Fprintln(out, st.Title.Render(fmt.Sprintf("%s / %s", c.def.Name, scope)))
		return writeTable(out, []string{"TOKEN", "VALUE", "RAW", "FROM", ""}, tokenRows(resolved, scope, preview))
	},
}

func tokenRows(resolved []tokens.Resolved, scope string, preview bool) [][]string {
	rows := make([][]string, 0, len(resolved))
	for _, r := range resolved {
		raw := ""
		if r.Raw != r.Value {
			raw = r.Raw
		}
		from := r.Scope
		if r.Scope == scope && scope != tokens.BaseScope {
			from = r.Scope + " *"
		}
		swatch := ""
		if preview {
			swatch = styles.Swatch(r.Value)
		}
		rows = append(rows, []string{r.Name, r.Value, raw, from, swatch})
	}
	return rows
}
