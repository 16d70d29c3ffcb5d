package cli

import (
	"errors"
	"strings"

	"github.com/opencode-ai/portalstyle/internal/config"
	"github.com/opencode-ai/portalstyle/internal/definitions"
	"github.com/opencode-ai/portalstyle/internal/stylesheet"
	"github.com/opencode-ai/portalstyle/internal/tokens"
)

// compiled is a loaded definition ready to emit.
type compiled struct {
	def   *definitions.Definition
	store *tokens.Store
	sheet *stylesheet.Sheet
}

func currentConfig() *config.Config {
	if cfg := GetConfig(); cfg != nil {
		return cfg
	}
	return config.DefaultConfig()
}

func loadDefinitions() ([]*definitions.Definition, error) {
	cfg := currentConfig()
	return definitions.LoadFromSearchPaths(cfg.Definitions.ProjectDir, cfg.Definitions.ExtraPaths...)
}

func loadSelectedDefinition() (*definitions.Definition, error) {
	if strings.TrimSpace(definitionFile) != "" {
		return definitions.LoadDefinition(definitionFile)
	}

	defs, err := loadDefinitions()
	if err != nil {
		return nil, err
	}

	name := currentConfig().Build.Definition
	def, err := definitions.Find(defs, name)
	if err != nil {
		if errors.Is(err, definitions.ErrDefinitionNotFound) {
			return nil, &PreflightError{
				Message:  "definition '" + name + "' not found",
				Hint:     "Use --file to point at a definition file, or add one to .portalstyle/themes",
				NextStep: "portalstyle definitions",
				Err:      err,
			}
		}
		return nil, err
	}
	return def, nil
}

func compileSelected() (*compiled, error) {
	def, err := loadSelectedDefinition()
	if err != nil {
		return nil, err
	}
	return compileDefinition(def)
}

func compileDefinition(def *definitions.Definition) (*compiled, error) {
	store, sheet, err := definitions.Compile(def)
	if err != nil {
		return nil, err
	}
	return &compiled{def: def, store: store, sheet: sheet}, nil
}

// selectedScope returns the configured scope after checking the compiled
// store declares it.
func (c *compiled) selectedScope() (string, error) {
	scope := currentConfig().Build.Scope
	if !c.store.HasScope(scope) {
		return "", &PreflightError{
			Message:  "scope '" + scope + "' is not declared by definition '" + c.def.Name + "'",
			Hint:     "Available scopes: " + strings.Join(c.store.Scopes(), ", "),
			NextStep: "portalstyle scopes",
			Err:      tokens.ErrUnknownScope,
		}
	}
	return scope, nil
}
