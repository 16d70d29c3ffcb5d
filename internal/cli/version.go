package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X".
var Version = "dev"

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if IsJSONOutput() {
			return WriteOutput(out, map[string]string{
				"version": Version,
				"go":      runtime.Version(),
			})
		}
		_, err := fmt.Fprintf(out, "portalstyle %s (%s)\n", Version, runtime.Version())
		return err
	},
}
