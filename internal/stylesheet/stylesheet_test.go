package stylesheet

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opencode-ai/portalstyle/internal/tokens"
)

func newStore(t *testing.T) *tokens.Store {
	t.Helper()

	store := tokens.NewStore()
	require.NoError(t, store.Define(tokens.BaseScope, "primary-color", "#2c3e50"))
	require.NoError(t, store.Define(tokens.BaseScope, "secondary-color", "#3498db"))
	return store
}

func headerSheet() *Sheet {
	return &Sheet{Rules: []Rule{{
		Selector:     ".header",
		Declarations: []Declaration{{Property: "background-color", Value: "<primary-color>"}},
	}}}
}

func TestEmitEndToEnd(t *testing.T) {
	store := newStore(t)

	triples, err := Collect(store, tokens.BaseScope, headerSheet())
	require.NoError(t, err)
	require.Equal(t, []Triple{{Selector: ".header", Property: "background-color", Value: "#2c3e50"}}, triples)

	var out bytes.Buffer
	require.NoError(t, Render(&out, store, tokens.BaseScope, headerSheet(), Options{OmitRoot: true}))
	require.Equal(t, ".header {\n  background-color: #2c3e50;\n}\n", out.String())
}

func TestEmitIsRestartable(t *testing.T) {
	store := newStore(t)
	seq := Emit(store, tokens.BaseScope, headerSheet())

	var first, second []Triple
	for triple, err := range seq {
		require.NoError(t, err)
		first = append(first, triple)
	}
	for triple, err := range seq {
		require.NoError(t, err)
		second = append(second, triple)
	}
	require.Equal(t, first, second)
}

func TestEmitStopsOnFirstError(t *testing.T) {
	store := newStore(t)
	sheet := &Sheet{Rules: []Rule{
		{Selector: ".a", Declarations: []Declaration{{Property: "color", Value: "<primary-color>"}}},
		{Selector: ".b", Declarations: []Declaration{
			{Property: "color", Value: "<accent-color>"},
			{Property: "border-color", Value: "<primary-color>"},
		}},
		{Selector: ".c", Declarations: []Declaration{{Property: "color", Value: "red"}}},
	}}

	var (
		values []string
		errs   []error
	)
	for triple, err := range Emit(store, tokens.BaseScope, sheet) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		values = append(values, triple.Value)
	}

	require.Equal(t, []string{"#2c3e50"}, values)
	require.Len(t, errs, 1)
	require.ErrorIs(t, errs[0], tokens.ErrUndefinedToken)
	require.Contains(t, errs[0].Error(), ".b")

	_, err := Collect(store, tokens.BaseScope, sheet)
	require.ErrorIs(t, err, tokens.ErrUndefinedToken)
}

func TestEmitEarlyBreak(t *testing.T) {
	store := newStore(t)
	sheet := &Sheet{Rules: []Rule{{
		Selector: ".a",
		Declarations: []Declaration{
			{Property: "color", Value: "<primary-color>"},
			{Property: "background", Value: "<secondary-color>"},
		},
	}}}

	count := 0
	for range Emit(store, tokens.BaseScope, sheet) {
		count++
		break
	}
	require.Equal(t, 1, count)
}

func TestEmitLeavesNoReferences(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Define(tokens.BaseScope, "breakpoint", "768px"))
	require.NoError(t, store.Define(tokens.BaseScope, "border", "1px solid var(--secondary-color)"))
	require.NoError(t, store.Define("dark-mode", "primary-color", "#1a252f"))

	sheet := &Sheet{Rules: []Rule{
		{Selector: ".card", Declarations: []Declaration{
			{Property: "border", Value: "<border>"},
			{Property: "box-shadow", Value: "0 2px 4px var(--primary-color, black)"},
		}},
		{Selector: ".nav", Media: "(max-width: <breakpoint>)", Declarations: []Declaration{
			{Property: "background", Value: "<primary-color>"},
		}},
	}}

	for _, scope := range []string{tokens.BaseScope, "dark-mode"} {
		triples, err := Collect(store, scope, sheet)
		require.NoError(t, err)
		for _, triple := range triples {
			require.False(t, tokens.HasReferences(triple.Value), "scope %s: %+v", scope, triple)
			require.False(t, tokens.HasReferences(triple.Media), "scope %s: %+v", scope, triple)
		}
		require.Equal(t, "(max-width: 768px)", triples[2].Media)
	}

	triples, err := Collect(store, "dark-mode", sheet)
	require.NoError(t, err)
	require.Equal(t, "0 2px 4px #1a252f", triples[1].Value)

	// Literal brackets around a substituted name must not form a new reference.
	require.NoError(t, store.Define(tokens.BaseScope, "x", "primary-color"))
	joined := &Sheet{Rules: []Rule{{Selector: ".a", Declarations: []Declaration{{Property: "color", Value: "<<x>>"}}}}}
	_, err = Collect(store, tokens.BaseScope, joined)
	require.ErrorIs(t, err, tokens.ErrResidualReference)
}

// staticSource serves fixed values regardless of scope, standing in for a
// resolver that performs no checks of its own.
type staticSource map[string]string

func (s staticSource) ExpandReferences(scope, text string) (string, error) {
	return tokens.ReplaceReferences(text, func(name string) string { return s[name] }), nil
}

func (s staticSource) Scopes() []string {
	return []string{tokens.BaseScope}
}

func (s staticSource) ResolveAll(scope string) ([]tokens.Resolved, error) {
	out := make([]tokens.Resolved, 0, len(s))
	for _, name := range []string{"danger", "blank"} {
		if value, ok := s[name]; ok {
			out = append(out, tokens.Resolved{Name: name, Value: value, Raw: value, Scope: tokens.BaseScope})
		}
	}
	return out, nil
}

func TestEmitRejectsUnsafeResolvedValues(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "breaks out of the rule", value: "red; } body { display: none"},
		{name: "blank", value: ""},
		{name: "whitespace", value: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := staticSource{"danger": tt.value}
			sheet := &Sheet{Rules: []Rule{{Selector: ".alert", Declarations: []Declaration{{Property: "color", Value: "<danger>"}}}}}

			_, err := Collect(src, tokens.BaseScope, sheet)
			require.ErrorIs(t, err, ErrInvalidValue)
			require.ErrorContains(t, err, ".alert { color }")

			var out bytes.Buffer
			err = Render(&out, src, tokens.BaseScope, sheet, Options{OmitRoot: true})
			require.ErrorIs(t, err, ErrInvalidValue)
			require.Zero(t, out.Len())
		})
	}
}

func TestRenderRejectsUnsafeCustomProperty(t *testing.T) {
	src := staticSource{"danger": "#e74c3c", "blank": "}"}
	sheet := &Sheet{Rules: []Rule{{Selector: ".alert", Declarations: []Declaration{{Property: "color", Value: "<danger>"}}}}}

	var out bytes.Buffer
	err := Render(&out, src, tokens.BaseScope, sheet, Options{})
	require.ErrorIs(t, err, ErrInvalidValue)
	require.ErrorContains(t, err, "--blank")
	require.Zero(t, out.Len())

	err = RenderThemed(&out, src, sheet, Options{})
	require.ErrorIs(t, err, ErrInvalidValue)
	require.Zero(t, out.Len())
}

func TestRenderWithRoot(t *testing.T) {
	store := newStore(t)

	var out bytes.Buffer
	require.NoError(t, Render(&out, store, tokens.BaseScope, headerSheet(), Options{}))

	want := ":root {\n" +
		"  --primary-color: #2c3e50;\n" +
		"  --secondary-color: #3498db;\n" +
		"}\n" +
		"\n" +
		".header {\n" +
		"  background-color: #2c3e50;\n" +
		"}\n"
	require.Equal(t, want, out.String())
}

func mediaSheet() *Sheet {
	return &Sheet{Rules: []Rule{
		{Selector: ".container", Declarations: []Declaration{{Property: "padding", Value: "<spacing-unit>"}}},
		{Selector: ".container", Media: "(max-width: <breakpoint>)", Declarations: []Declaration{{Property: "padding", Value: "0.5rem"}}},
		{Selector: ".nav", Media: "(max-width: <breakpoint>)", Declarations: []Declaration{{Property: "display", Value: "none"}}},
		{Selector: ".footer", Declarations: []Declaration{{Property: "color", Value: "<primary-color>"}}},
	}}
}

func TestRenderGroupsMediaBlocks(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Define(tokens.BaseScope, "spacing-unit", "1rem"))
	require.NoError(t, store.Define(tokens.BaseScope, "breakpoint", "768px"))

	var out bytes.Buffer
	require.NoError(t, Render(&out, store, tokens.BaseScope, mediaSheet(), Options{OmitRoot: true}))

	want := `.container {
  padding: 1rem;
}

@media (max-width: 768px) {
  .container {
    padding: 0.5rem;
  }
  .nav {
    display: none;
  }
}

.footer {
  color: #2c3e50;
}
`
	require.Equal(t, want, out.String())
}

func TestRenderMinify(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Define(tokens.BaseScope, "spacing-unit", "1rem"))
	require.NoError(t, store.Define(tokens.BaseScope, "breakpoint", "768px"))

	var out bytes.Buffer
	require.NoError(t, Render(&out, store, tokens.BaseScope, mediaSheet(), Options{OmitRoot: true, Minify: true, Header: "portal"}))

	want := "/* portal */" +
		".container{padding:1rem;}" +
		"@media (max-width: 768px){.container{padding:0.5rem;}.nav{display:none;}}" +
		".footer{color:#2c3e50;}"
	require.Equal(t, want, out.String())
}

func TestRenderWritesNothingOnError(t *testing.T) {
	store := newStore(t)
	sheet := headerSheet()
	sheet.Add(Rule{Selector: ".footer", Declarations: []Declaration{{Property: "color", Value: "<footer-color>"}}})

	var out bytes.Buffer
	err := Render(&out, store, tokens.BaseScope, sheet, Options{})
	require.ErrorIs(t, err, tokens.ErrUndefinedToken)
	require.Zero(t, out.Len())
}

func TestRenderThemed(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Define(tokens.BaseScope, "link", "<secondary-color>"))
	require.NoError(t, store.Define("dark-mode", "secondary-color", "#5dade2"))
	require.NoError(t, store.AddScope("print"))

	sheet := &Sheet{Rules: []Rule{{Selector: "a", Declarations: []Declaration{{Property: "color", Value: "<link>"}}}}}

	var out bytes.Buffer
	require.NoError(t, RenderThemed(&out, store, sheet, Options{}))

	want := `:root {
  --primary-color: #2c3e50;
  --secondary-color: #3498db;
  --link: #3498db;
}

[data-theme="dark-mode"] {
  --secondary-color: #5dade2;
  --link: #5dade2;
}

a {
  color: var(--link);
}
`
	require.Equal(t, want, out.String())

	out.Reset()
	require.NoError(t, RenderThemed(&out, store, sheet, Options{ThemeSelector: "body.theme-{scope}"}))
	require.True(t, strings.Contains(out.String(), "body.theme-dark-mode {"))
}

func TestRenderThemedChecksEveryScope(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Define("dark-mode", "secondary-color", "<missing>"))

	var out bytes.Buffer
	err := RenderThemed(&out, store, headerSheet(), Options{})
	require.ErrorIs(t, err, tokens.ErrUndefinedToken)
	require.Contains(t, err.Error(), "dark-mode")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		sheet *Sheet
		field string
	}{
		{name: "missing selector", sheet: &Sheet{Rules: []Rule{{Declarations: []Declaration{{Property: "color", Value: "red"}}}}}, field: "selector"},
		{name: "brace in selector", sheet: &Sheet{Rules: []Rule{{Selector: ".a{", Declarations: []Declaration{{Property: "color", Value: "red"}}}}}, field: "selector"},
		{name: "no declarations", sheet: &Sheet{Rules: []Rule{{Selector: ".a"}}}, field: "declarations"},
		{name: "bad property", sheet: &Sheet{Rules: []Rule{{Selector: ".a", Declarations: []Declaration{{Property: "col or", Value: "red"}}}}}, field: "declarations"},
		{name: "empty value", sheet: &Sheet{Rules: []Rule{{Selector: ".a", Declarations: []Declaration{{Property: "color", Value: " "}}}}}, field: "declarations"},
		{name: "semicolon in value", sheet: &Sheet{Rules: []Rule{{Selector: ".a", Declarations: []Declaration{{Property: "color", Value: "red; x: y"}}}}}, field: "declarations"},
		{name: "brace in media", sheet: &Sheet{Rules: []Rule{{Selector: ".a", Media: "screen {", Declarations: []Declaration{{Property: "color", Value: "red"}}}}}, field: "media"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.sheet)
			var ruleErr *RuleValidationError
			require.True(t, errors.As(err, &ruleErr), "got %v", err)
			require.Equal(t, tt.field, ruleErr.Field)
			require.Equal(t, 0, ruleErr.Index)
		})
	}

	require.ErrorIs(t, Validate(&Sheet{}), ErrEmptySheet)
	require.ErrorIs(t, Validate(nil), ErrEmptySheet)
	require.NoError(t, Validate(headerSheet()))
}
