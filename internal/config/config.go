// Package config loads portalstyle settings from a YAML file and
// PORTALSTYLE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/opencode-ai/portalstyle/internal/stylesheet"
	"github.com/opencode-ai/portalstyle/internal/tokens"
)

// EnvPrefix prefixes every environment override, e.g. PORTALSTYLE_BUILD_SCOPE.
const EnvPrefix = "PORTALSTYLE"

// Config is the full application configuration.
type Config struct {
	Logging     LoggingConfig     `mapstructure:"logging"`
	Build       BuildConfig       `mapstructure:"build"`
	Definitions DefinitionsConfig `mapstructure:"definitions"`
	Watch       WatchConfig       `mapstructure:"watch"`
	Preview     PreviewConfig     `mapstructure:"preview"`

	// Source is the config file that was read, empty when none was found.
	Source string `mapstructure:"-"`
}

// LoggingConfig controls the zerolog logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console or json
}

// BuildConfig holds defaults for `portalstyle build`.
type BuildConfig struct {
	Definition string `mapstructure:"definition"`
	Scope      string `mapstructure:"scope"`
	Output     string `mapstructure:"output"`
	Minify     bool   `mapstructure:"minify"`
	Themed     bool   `mapstructure:"themed"`
	OmitRoot   bool   `mapstructure:"omit_root"`
	Header     string `mapstructure:"header"`
	// ThemeSelector is used for themed output; {scope} is replaced.
	ThemeSelector string `mapstructure:"theme_selector"`
}

// DefinitionsConfig controls where definition files are searched.
type DefinitionsConfig struct {
	ProjectDir string   `mapstructure:"project_dir"`
	ExtraPaths []string `mapstructure:"extra_paths"`
}

// WatchConfig controls `portalstyle build --watch`.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// PreviewConfig controls terminal token previews.
type PreviewConfig struct {
	Color bool `mapstructure:"color"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Build: BuildConfig{
			Definition:    "portal",
			Scope:         tokens.BaseScope,
			Header:        "Generated by portalstyle. Do not edit.",
			ThemeSelector: stylesheet.DefaultThemeSelector,
		},
		Definitions: DefinitionsConfig{
			ProjectDir: ".",
		},
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
		},
		Preview: PreviewConfig{
			Color: true,
		},
	}
}

// DefaultConfigDir returns $XDG_CONFIG_HOME/portalstyle or
// ~/.config/portalstyle.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "portalstyle")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".config", "portalstyle")
}

// Load reads configuration. An explicit path must exist; without one the
// default config directory is searched and a missing file is not an error.
// Environment variables override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir := DefaultConfigDir(); dir != "" {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Source = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("logging.level %q is not a valid level", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	if strings.TrimSpace(c.Build.Definition) == "" {
		return fmt.Errorf("build.definition must not be empty")
	}
	if !tokens.ValidName(c.Build.Scope) {
		return fmt.Errorf("build.scope %q is not a valid scope name", c.Build.Scope)
	}
	if c.Build.Themed && !strings.Contains(c.Build.ThemeSelector, "{scope}") {
		return fmt.Errorf("build.theme_selector must contain {scope}")
	}
	if c.Watch.Debounce <= 0 {
		return fmt.Errorf("watch.debounce must be greater than 0")
	}
	return nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)

	v.SetDefault("build.definition", cfg.Build.Definition)
	v.SetDefault("build.scope", cfg.Build.Scope)
	v.SetDefault("build.output", cfg.Build.Output)
	v.SetDefault("build.minify", cfg.Build.Minify)
	v.SetDefault("build.themed", cfg.Build.Themed)
	v.SetDefault("build.omit_root", cfg.Build.OmitRoot)
	v.SetDefault("build.header", cfg.Build.Header)
	v.SetDefault("build.theme_selector", cfg.Build.ThemeSelector)

	v.SetDefault("definitions.project_dir", cfg.Definitions.ProjectDir)
	v.SetDefault("definitions.extra_paths", cfg.Definitions.ExtraPaths)

	v.SetDefault("watch.debounce", cfg.Watch.Debounce)

	v.SetDefault("preview.color", cfg.Preview.Color)
}
