package definitions

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opencode-ai/portalstyle/internal/stylesheet"
	"github.com/opencode-ai/portalstyle/internal/tokens"
)

const miniYAML = `name: mini
description: Minimal header theme
scopes:
  - name: default
    tokens:
      - {name: primary-color, value: "#2c3e50"}
      - {name: secondary-color, value: "#3498db"}
  - name: dark-mode
    tokens:
      - {name: primary-color, value: "#1a252f"}
rules:
  - selector: .header
    declarations:
      - {property: background-color, value: "<primary-color>"}
`

const miniTOML = `name = "mini-toml"

[[scopes]]
name = "default"
tokens = [
  { name = "primary-color", value = "#2c3e50" },
  { name = "breakpoint", value = "768px" },
]

[[rules]]
selector = ".header"
declarations = [{ property = "background-color", value = "<primary-color>" }]

[[rules]]
selector = ".header"
media = "(max-width: <breakpoint>)"
declarations = [{ property = "padding", value = "0" }]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefinitionYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "mini.yaml", miniYAML)

	def, err := LoadDefinition(path)
	require.NoError(t, err)
	require.Equal(t, "mini", def.Name)
	require.Equal(t, path, def.Source)
	require.Equal(t, []string{tokens.BaseScope, "dark-mode"}, def.ScopeNames())
	require.Equal(t, 3, def.TokenCount())
	require.Len(t, def.Rules, 1)
}

func TestLoadDefinitionTOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "mini.toml", miniTOML)

	def, err := LoadDefinition(path)
	require.NoError(t, err)
	require.Equal(t, "mini-toml", def.Name)

	store, sheet, err := Compile(def)
	require.NoError(t, err)

	triples, err := stylesheet.Collect(store, tokens.BaseScope, sheet)
	require.NoError(t, err)
	require.Equal(t, []stylesheet.Triple{
		{Selector: ".header", Property: "background-color", Value: "#2c3e50"},
		{Media: "(max-width: 768px)", Selector: ".header", Property: "padding", Value: "0"},
	}, triples)
}

func TestLoadDefinitionErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadDefinition("")
	require.Error(t, err)

	_, err = LoadDefinition(writeFile(t, dir, "theme.json", "{}"))
	require.ErrorContains(t, err, "unsupported file extension")

	_, err = LoadDefinition(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadDefinition(writeFile(t, dir, "noname.yaml", "scopes: []\n"))
	require.ErrorIs(t, err, ErrDefinitionNameRequired)
}

func TestValidateDefinition(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		field string
	}{
		{
			name:  "no scopes",
			yaml:  "name: x\nrules: [{selector: a, declarations: [{property: color, value: red}]}]\n",
			field: "scopes",
		},
		{
			name:  "base scope not first",
			yaml:  "name: x\nscopes: [{name: dark-mode}, {name: default}]\nrules: [{selector: a, declarations: [{property: color, value: red}]}]\n",
			field: "scopes",
		},
		{
			name:  "scope declared twice",
			yaml:  "name: x\nscopes: [{name: default}, {name: dark}, {name: dark}]\nrules: [{selector: a, declarations: [{property: color, value: red}]}]\n",
			field: "scopes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml), FormatYAML)
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr), "got %v", err)
			require.Equal(t, tt.field, vErr.Field)
		})
	}

	_, err := Parse([]byte("name: x\nscopes: [{name: default}]\nrules: [{selector: a}]\n"), FormatYAML)
	var ruleErr *stylesheet.RuleValidationError
	require.True(t, errors.As(err, &ruleErr), "got %v", err)

	_, err = Parse([]byte("name: x\n"), Format("json"))
	require.ErrorContains(t, err, "unsupported definition format")
}

func TestCompileRejectsDuplicateToken(t *testing.T) {
	def, err := Parse([]byte(miniYAML), FormatYAML)
	require.NoError(t, err)
	def.Scopes[0].Tokens = append(def.Scopes[0].Tokens, TokenDef{Name: "primary-color", Value: "#ff0000"})

	_, _, err = Compile(def)
	require.ErrorIs(t, err, tokens.ErrDuplicateToken)
}

func TestCompileRejectsUndefinedReference(t *testing.T) {
	def, err := Parse([]byte(miniYAML), FormatYAML)
	require.NoError(t, err)
	def.Rules = append(def.Rules, RuleDef{
		Selector:     ".footer",
		Declarations: []DeclarationDef{{Property: "color", Value: "<footer-color>"}},
	})

	_, _, err = Compile(def)
	require.ErrorIs(t, err, tokens.ErrUndefinedToken)
	require.ErrorContains(t, err, "footer-color")
}

func TestCompileRejectsOrphanOverride(t *testing.T) {
	def, err := Parse([]byte(miniYAML), FormatYAML)
	require.NoError(t, err)
	def.Scopes[1].Tokens = append(def.Scopes[1].Tokens, TokenDef{Name: "glow", Value: "none"})

	_, _, err = Compile(def)
	require.ErrorIs(t, err, tokens.ErrOrphanOverride)
}

func TestCompileRejectsUnsafeTokenValues(t *testing.T) {
	for _, value := range []string{"red; } body { display: none", ""} {
		def, err := Parse([]byte(miniYAML), FormatYAML)
		require.NoError(t, err)
		def.Scopes[1].Tokens[0].Value = value

		_, _, err = Compile(def)
		require.ErrorIs(t, err, tokens.ErrInvalidTokenValue, "value %q", value)
		require.ErrorContains(t, err, "dark-mode")
	}
}

func TestCompileRejectsJoinedReference(t *testing.T) {
	def, err := Parse([]byte(miniYAML), FormatYAML)
	require.NoError(t, err)
	def.Scopes[0].Tokens = append(def.Scopes[0].Tokens, TokenDef{Name: "x", Value: "primary-color"})
	def.Rules = append(def.Rules, RuleDef{
		Selector:     ".footer",
		Declarations: []DeclarationDef{{Property: "color", Value: "<<x>>"}},
	})

	_, _, err = Compile(def)
	require.ErrorIs(t, err, tokens.ErrResidualReference)
}

func TestCompileSealsStore(t *testing.T) {
	def, err := Parse([]byte(miniYAML), FormatYAML)
	require.NoError(t, err)

	store, _, err := Compile(def)
	require.NoError(t, err)
	require.True(t, store.Sealed())
	require.True(t, store.HasScope("dark-mode"))

	_, _, err = Compile(nil)
	require.Error(t, err)
}

func TestBuiltinPortalCompilesForEveryScope(t *testing.T) {
	defs, err := LoadBuiltinDefinitions()
	require.NoError(t, err)

	def, err := Find(defs, DefaultDefinition)
	require.NoError(t, err)
	require.Equal(t, "builtin", def.Source)

	store, sheet, err := Compile(def)
	require.NoError(t, err)
	require.Equal(t, []string{tokens.BaseScope, "dark-mode", "high-contrast"}, store.Scopes())

	for _, scope := range store.Scopes() {
		var out bytes.Buffer
		require.NoError(t, stylesheet.Render(&out, store, scope, sheet, stylesheet.Options{}))
		css := out.String()
		require.False(t, tokens.HasReferences(css), "scope %s left references", scope)
		require.Contains(t, css, "@media (max-width: 768px) {")
		require.Contains(t, css, ".nav a:hover {")
	}

	header, err := store.Resolve(tokens.BaseScope, "primary-color")
	require.NoError(t, err)
	require.Equal(t, "#2c3e50", header)

	triples, err := stylesheet.Collect(store, tokens.BaseScope, sheet)
	require.NoError(t, err)
	require.Contains(t, triples, stylesheet.Triple{Selector: ".header", Property: "background-color", Value: "#2c3e50"})
}

func TestFindNotFound(t *testing.T) {
	_, err := Find(nil, "missing")
	require.ErrorIs(t, err, ErrDefinitionNotFound)
}

func TestSearchPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")

	paths := SearchPaths("/work/portal")
	require.Equal(t, []string{
		filepath.Join("/work/portal", ".portalstyle", "themes"),
		filepath.Join("/custom/config", "portalstyle", "themes"),
		filepath.Join("/", "usr", "share", "portalstyle", "themes"),
	}, paths)

	require.Len(t, SearchPaths(""), 2)
}

func TestLoadFromSearchPathsPrecedence(t *testing.T) {
	project := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	themes := filepath.Join(project, ".portalstyle", "themes")
	require.NoError(t, os.MkdirAll(themes, 0755))

	override := strings.Replace(miniYAML, "name: mini", "name: portal", 1)
	writeFile(t, themes, "portal.yaml", override)
	writeFile(t, themes, "notes.txt", "ignored")

	extra := t.TempDir()
	writeFile(t, extra, "mini.toml", miniTOML)

	defs, err := LoadFromSearchPaths(project, extra)
	require.NoError(t, err)

	portal, err := Find(defs, "portal")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(themes, "portal.yaml"), portal.Source)

	_, err = Find(defs, "mini-toml")
	require.NoError(t, err)

	names := make([]string, 0, len(defs))
	for _, def := range defs {
		names = append(names, def.Name)
	}
	require.Equal(t, []string{"portal", "mini-toml"}, names)
}

func TestLoadDefinitionsFromMissingDir(t *testing.T) {
	defs, err := LoadDefinitionsFromDir(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	require.Empty(t, defs)

	defs, err = LoadDefinitionsFromDir("")
	require.NoError(t, err)
	require.Empty(t, defs)
}
