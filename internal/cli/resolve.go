package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <token>...",
	Short: "Resolve token values for a scope",
	Long: `Print the concrete value of one or more tokens as seen from a scope.

A single token prints its bare value, suitable for scripts. Undefined
tokens are an error; no default is ever substituted.`,
	Example: `  portalstyle resolve primary-color
  portalstyle resolve --scope dark-mode primary-color bg-color`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := compileSelected()
		if err != nil {
			return err
		}
		scope, err := c.selectedScope()
		if err != nil {
			return err
		}

		type resolvedToken struct {
			Name  string `json:"name"`
			Value string `json:"value"`
			Scope string `json:"scope"`
			From  string `json:"from"`
		}

		results := make([]resolvedToken, 0, len(args))
		for _, name := range args {
			value, err := c.store.Resolve(scope, name)
			if err != nil {
				return err
			}
			tok, _ := c.store.Lookup(scope, name)
			results = append(results, resolvedToken{Name: name, Value: value, Scope: scope, From: tok.Scope})
		}

		out := cmd.OutOrStdout()
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(out, results)
		}
		if len(results) == 1 {
			_, err := fmt.Fprintln(out, results[0].Value)
			return err
		}

		rows := make([][]string, 0, len(results))
		for _, r := range results {
			rows = append(rows, []string{r.Name, r.Value, r.From})
		}
		return writeTable(out, []string{"TOKEN", "VALUE", "FROM"}, rows)
	},
}
