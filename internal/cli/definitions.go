package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/portalstyle/internal/definitions"
)

func init() {
	rootCmd.AddCommand(definitionsCmd)
}

// DefinitionSummary describes a definition found on the search path.
type DefinitionSummary struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Source      string   `json:"source"`
	Scopes      []string `json:"scopes"`
	Tokens      int      `json:"tokens"`
	Rules       int      `json:"rules"`
}

var definitionsCmd = &cobra.Command{
	Use:     "definitions",
	Aliases: []string{"defs"},
	Short:   "List definitions on the search path",
	Long: `List definitions found in the search path, in precedence order.
A name found earlier hides later definitions with the same name.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		defs, err := loadDefinitions()
		if err != nil {
			return err
		}

		summaries := make([]DefinitionSummary, 0, len(defs))
		for _, def := range defs {
			summaries = append(summaries, summarizeDefinition(def))
		}

		out := cmd.OutOrStdout()
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(out, summaries)
		}

		rows := make([][]string, 0, len(summaries))
		for _, s := range summaries {
			rows = append(rows, []string{
				s.Name,
				strings.Join(s.Scopes, ","),
				strconv.Itoa(s.Tokens),
				strconv.Itoa(s.Rules),
				formatYesNo(s.Source == "builtin"),
				s.Source,
			})
		}
		return writeTable(out, []string{"NAME", "SCOPES", "TOKENS", "RULES", "BUILTIN", "SOURCE"}, rows)
	},
}

func summarizeDefinition(def *definitions.Definition) DefinitionSummary {
	return DefinitionSummary{
		Name:        def.Name,
		Description: def.Description,
		Source:      def.Source,
		Scopes:      def.ScopeNames(),
		Tokens:      def.TokenCount(),
		Rules:       len(def.Rules),
	}
}
