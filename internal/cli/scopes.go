package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/portalstyle/internal/tokens"
)

func init() {
	rootCmd.AddCommand(scopesCmd)
}

// ScopeSummary describes one scope of a definition.
type ScopeSummary struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Base        bool   `json:"base"`
	Overrides   int    `json:"overrides"`
	Visible     int    `json:"visible"`
}

var scopesCmd = &cobra.Command{
	Use:   "scopes",
	Short: "List the scopes (themes) of a definition",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := compileSelected()
		if err != nil {
			return err
		}

		descriptions := make(map[string]string, len(c.def.Scopes))
		for _, scope := range c.def.Scopes {
			descriptions[scope.Name] = scope.Description
		}

		summaries := make([]ScopeSummary, 0, len(c.store.Scopes()))
		for _, name := range c.store.Scopes() {
			summaries = append(summaries, ScopeSummary{
				Name:        name,
				Description: descriptions[name],
				Base:        name == tokens.BaseScope,
				Overrides:   len(c.store.Overrides(name)),
				Visible:     len(c.store.Names(name)),
			})
		}

		out := cmd.OutOrStdout()
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(out, summaries)
		}

		rows := make([][]string, 0, len(summaries))
		for _, s := range summaries {
			rows = append(rows, []string{
				s.Name,
				formatYesNo(s.Base),
				formatOverrideCount(s.Overrides, s.Base),
				strconv.Itoa(s.Visible),
				s.Description,
			})
		}
		return writeTable(out, []string{"SCOPE", "BASE", "DEFINES", "VISIBLE", "DESCRIPTION"}, rows)
	},
}
