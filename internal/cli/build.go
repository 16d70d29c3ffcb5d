package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/portalstyle/internal/config"
	"github.com/opencode-ai/portalstyle/internal/definitions"
	"github.com/opencode-ai/portalstyle/internal/logging"
	"github.com/opencode-ai/portalstyle/internal/stylesheet"
	"github.com/opencode-ai/portalstyle/internal/watch"
)

var (
	buildOutput string
	buildMinify bool
	buildThemed bool
	buildNoRoot bool
	buildHeader string
	buildWatch  bool
)

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "write the stylesheet to a file instead of stdout")
	buildCmd.Flags().BoolVar(&buildMinify, "minify", false, "drop optional whitespace")
	buildCmd.Flags().BoolVar(&buildThemed, "themed", false, "emit every scope using custom properties and theme selectors")
	buildCmd.Flags().BoolVar(&buildNoRoot, "no-root", false, "omit the :root custom property block")
	buildCmd.Flags().StringVar(&buildHeader, "header", "", "leading comment (empty string disables)")
	buildCmd.Flags().BoolVar(&buildWatch, "watch", false, "rebuild when the definition file changes")
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the stylesheet",
	Long: `Resolve every token reference for a scope and write the stylesheet.

With --themed, all scopes are emitted at once: base values on :root,
overrides under a theme selector, and rules referencing custom properties.`,
	Example: `  # Default portal stylesheet to stdout
  portalstyle build

  # Dark mode, minified, to a file
  portalstyle build --scope dark-mode --minify -o static/portal.css

  # All themes in one file, rebuilt on every save
  portalstyle build --file themes/portal.yaml --themed -o static/portal.css --watch`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := currentConfig()
		applyBuildFlags(cmd, cfg)

		def, err := loadSelectedDefinition()
		if err != nil {
			return err
		}
		if buildWatch {
			if err := checkWatchable(cfg, def); err != nil {
				return err
			}
		}
		if err := runBuild(cmd, cfg, def); err != nil {
			return err
		}
		if !buildWatch {
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		source := def.Source
		w := watch.New(logging.Component("watch"), cfg.Watch.Debounce)
		return w.Run(ctx, []string{source}, func(ctx context.Context) error {
			reloaded, err := definitions.LoadDefinition(source)
			if err != nil {
				return err
			}
			return runBuild(cmd, cfg, reloaded)
		})
	},
}

func applyBuildFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Build.Output = buildOutput
	}
	if flags.Changed("minify") {
		cfg.Build.Minify = buildMinify
	}
	if flags.Changed("themed") {
		cfg.Build.Themed = buildThemed
	}
	if flags.Changed("no-root") {
		cfg.Build.OmitRoot = buildNoRoot
	}
	if flags.Changed("header") {
		cfg.Build.Header = buildHeader
	}
}

func checkWatchable(cfg *config.Config, def *definitions.Definition) error {
	if def.Source == "builtin" {
		return &PreflightError{
			Message:  "cannot watch the builtin definition",
			Hint:     "Copy it to a file and pass --file",
			NextStep: "portalstyle build --file <path> --watch -o <output>",
		}
	}
	if cfg.Build.Output == "" {
		return &PreflightError{
			Message: "--watch requires --output",
			Hint:    "Rebuilds overwrite the output file",
		}
	}
	return nil
}

// BuildResult summarizes a build for --json output.
type BuildResult struct {
	Definition string   `json:"definition"`
	Source     string   `json:"source"`
	Scope      string   `json:"scope,omitempty"`
	Scopes     []string `json:"scopes,omitempty"`
	Themed     bool     `json:"themed"`
	Output     string   `json:"output,omitempty"`
	Bytes      int      `json:"bytes"`
	Rules      int      `json:"rules"`
	Tokens     int      `json:"tokens"`
}

func runBuild(cmd *cobra.Command, cfg *config.Config, def *definitions.Definition) error {
	logger := logging.Component("build")
	progress := startProgress(cmd.ErrOrStderr(), "Building "+def.Name)

	c, err := compileDefinition(def)
	if err != nil {
		progress.Fail(err)
		return err
	}

	result := BuildResult{
		Definition: def.Name,
		Source:     def.Source,
		Themed:     cfg.Build.Themed,
		Output:     cfg.Build.Output,
		Rules:      len(c.sheet.Rules),
		Tokens:     def.TokenCount(),
	}

	opts := stylesheet.Options{
		Minify:        cfg.Build.Minify,
		OmitRoot:      cfg.Build.OmitRoot,
		Header:        cfg.Build.Header,
		ThemeSelector: cfg.Build.ThemeSelector,
	}

	var buf bytes.Buffer
	if cfg.Build.Themed {
		result.Scopes = c.store.Scopes()
		err = stylesheet.RenderThemed(&buf, c.store, c.sheet, opts)
	} else {
		var scope string
		scope, err = c.selectedScope()
		if err == nil {
			result.Scope = scope
			err = stylesheet.Render(&buf, c.store, scope, c.sheet, opts)
		}
	}
	if err != nil {
		progress.Fail(err)
		return err
	}
	if !cfg.Build.Minify {
		ensureTrailingNewline(&buf)
	}
	result.Bytes = buf.Len()

	if cfg.Build.Output == "" {
		progress.Done()
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(cmd.OutOrStdout(), result)
		}
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}

	if err := writeFileAtomic(cfg.Build.Output, buf.Bytes()); err != nil {
		progress.Fail(err)
		return err
	}
	progress.Done()

	logger.Info().
		Str("definition", def.Name).
		Str("scope", result.Scope).
		Bool("themed", result.Themed).
		Str("output", cfg.Build.Output).
		Int("bytes", result.Bytes).
		Msg("stylesheet written")

	if IsJSONOutput() || IsJSONLOutput() {
		return WriteOutput(cmd.OutOrStdout(), result)
	}
	return nil
}

func ensureTrailingNewline(buf *bytes.Buffer) {
	if buf.Len() > 0 && buf.Bytes()[buf.Len()-1] != '\n' {
		buf.WriteByte('\n')
	}
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
