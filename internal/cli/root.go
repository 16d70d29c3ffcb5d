// Package cli implements the portalstyle command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/portalstyle/internal/config"
	"github.com/opencode-ai/portalstyle/internal/logging"
)

var (
	cfgFile        string
	jsonOutput     bool
	jsonlOutput    bool
	logLevel       string
	logFormat      string
	noProgress     bool
	noColor        bool
	definitionName string
	definitionFile string
	scopeName      string
	projectDir     string

	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "portalstyle",
	Short: "Build Linux Patching Portal stylesheets from design tokens",
	Long: `portalstyle resolves design tokens through theme scopes and emits
the Linux Patching Portal stylesheet.

Definitions are YAML or TOML files holding token scopes and style rules.
They are looked up in ./.portalstyle/themes, ~/.config/portalstyle/themes
and /usr/share/portalstyle/themes, with the builtin "portal" definition
as the fallback.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initApp,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/portalstyle/config.yaml)")
	flags.BoolVar(&jsonOutput, "json", false, "output JSON")
	flags.BoolVar(&jsonlOutput, "jsonl", false, "output JSON lines")
	flags.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&logFormat, "log-format", "", "log format (console, json)")
	flags.BoolVar(&noProgress, "no-progress", false, "disable progress output")
	flags.BoolVar(&noColor, "no-color", false, "disable colored output")
	flags.StringVarP(&definitionName, "definition", "d", "", "definition name from the search path")
	flags.StringVarP(&definitionFile, "file", "f", "", "definition file path (overrides --definition)")
	flags.StringVarP(&scopeName, "scope", "s", "", "token scope (theme) to resolve")
	flags.StringVar(&projectDir, "project", "", "project directory searched for .portalstyle/themes")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// GetConfig returns the loaded configuration, or nil before initialization.
func GetConfig() *config.Config {
	return appConfig
}

func initApp(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = logFormat
	}
	if flags.Changed("definition") {
		cfg.Build.Definition = definitionName
	}
	if flags.Changed("scope") {
		cfg.Build.Scope = scopeName
	}
	if flags.Changed("project") {
		cfg.Definitions.ProjectDir = projectDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logging.Init(logging.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Output:  cmd.ErrOrStderr(),
		NoColor: !colorEnabled(),
	}); err != nil {
		return err
	}

	appConfig = cfg
	cliLog := logging.Component("cli")
	cliLog.Debug().
		Str("config", cfg.Source).
		Str("definition", cfg.Build.Definition).
		Str("scope", cfg.Build.Scope).
		Msg("configuration loaded")
	return nil
}

// ExitWithError prints err the way the CLI reports failures and exits 1.
func ExitWithError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
