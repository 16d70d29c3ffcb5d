package stylesheet

import (
	"bytes"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/opencode-ai/portalstyle/internal/tokens"
)

// DefaultThemeSelector scopes theme overrides in themed output. {scope} is
// replaced by the scope name.
const DefaultThemeSelector = `[data-theme="{scope}"]`

// Source is everything rendering needs from a token store.
type Source interface {
	Resolver
	Scopes() []string
	ResolveAll(scope string) ([]tokens.Resolved, error)
}

// Options control stylesheet text output.
type Options struct {
	// Minify drops optional whitespace.
	Minify bool
	// OmitRoot skips the :root custom property block.
	OmitRoot bool
	// Header is written as a leading comment when non-empty.
	Header string
	// ThemeSelector is used by RenderThemed; defaults to DefaultThemeSelector.
	ThemeSelector string
}

func (o Options) themeSelector(scope string) string {
	selector := o.ThemeSelector
	if strings.TrimSpace(selector) == "" {
		selector = DefaultThemeSelector
	}
	return strings.ReplaceAll(selector, "{scope}", scope)
}

// Render writes the stylesheet for one scope with every token reference
// substituted by its concrete value. Nothing is written to w unless the
// whole sheet resolves.
func Render(w io.Writer, src Source, scope string, sheet *Sheet, opts Options) error {
	if err := Validate(sheet); err != nil {
		return err
	}

	cw := newCSSWriter(opts)
	if !opts.OmitRoot {
		resolved, err := src.ResolveAll(scope)
		if err == nil {
			err = checkCustomProperties(resolved)
		}
		if err != nil {
			return err
		}
		cw.block(":root", resolved)
	}

	if err := cw.triples(Emit(src, scope, sheet)); err != nil {
		return err
	}

	_, err := w.Write(cw.bytes())
	return err
}

// RenderThemed writes a stylesheet carrying every scope at once. Base
// values go on :root, each other scope gets a theme selector block with the
// values that differ from base, and rules reference custom properties so
// the renderer's own cascade switches themes. Media conditions cannot use
// custom properties and are resolved from the base scope.
func RenderThemed(w io.Writer, src Source, sheet *Sheet, opts Options) error {
	if err := Validate(sheet); err != nil {
		return err
	}

	scopes := src.Scopes()
	for _, scope := range scopes {
		if _, err := Collect(src, scope, sheet); err != nil {
			return fmt.Errorf("scope %s: %w", scope, err)
		}
	}

	base, err := src.ResolveAll(tokens.BaseScope)
	if err == nil {
		err = checkCustomProperties(base)
	}
	if err != nil {
		return err
	}
	baseValues := make(map[string]string, len(base))
	for _, r := range base {
		baseValues[r.Name] = r.Value
	}

	cw := newCSSWriter(opts)
	cw.block(":root", base)

	for _, scope := range scopes {
		if scope == tokens.BaseScope {
			continue
		}
		resolved, err := src.ResolveAll(scope)
		if err == nil {
			err = checkCustomProperties(resolved)
		}
		if err != nil {
			return fmt.Errorf("scope %s: %w", scope, err)
		}
		changed := make([]tokens.Resolved, 0, len(resolved))
		for _, r := range resolved {
			if baseValue, ok := baseValues[r.Name]; !ok || baseValue != r.Value {
				changed = append(changed, r)
			}
		}
		if len(changed) > 0 {
			cw.block(opts.themeSelector(scope), changed)
		}
	}

	if err := cw.triples(customPropertyTriples(src, sheet)); err != nil {
		return err
	}

	_, err = w.Write(cw.bytes())
	return err
}

func checkCustomProperties(resolved []tokens.Resolved) error {
	for _, r := range resolved {
		if err := checkResolved(r.Value); err != nil {
			return fmt.Errorf("--%s: %w", r.Name, err)
		}
	}
	return nil
}

func customPropertyTriples(res Resolver, sheet *Sheet) iter.Seq2[Triple, error] {
	toVar := func(name string) string {
		return "var(--" + name + ")"
	}
	return func(yield func(Triple, error) bool) {
		for _, rule := range sheet.Rules {
			media, err := resolveMedia(res, tokens.BaseScope, rule)
			if err != nil {
				yield(Triple{}, err)
				return
			}
			for _, decl := range rule.Declarations {
				triple := Triple{
					Media:    media,
					Selector: strings.TrimSpace(rule.Selector),
					Property: strings.TrimSpace(decl.Property),
					Value:    strings.TrimSpace(tokens.ReplaceReferences(decl.Value, toVar)),
				}
				if !yield(triple, nil) {
					return
				}
			}
		}
	}
}

type cssWriter struct {
	buf    bytes.Buffer
	minify bool
	depth  int
	wrote  bool
}

func newCSSWriter(opts Options) *cssWriter {
	cw := &cssWriter{minify: opts.Minify}
	if header := strings.TrimSpace(opts.Header); header != "" {
		header = strings.ReplaceAll(header, "*/", "* /")
		cw.buf.WriteString("/* " + header + " */")
		if !cw.minify {
			cw.buf.WriteByte('\n')
		}
		cw.wrote = true
	}
	return cw
}

func (c *cssWriter) open(prelude string) {
	if c.minify {
		c.buf.WriteString(prelude)
		c.buf.WriteByte('{')
		c.depth++
		return
	}
	if c.depth == 0 && c.wrote {
		c.buf.WriteByte('\n')
	}
	c.indent()
	c.buf.WriteString(prelude)
	c.buf.WriteString(" {\n")
	c.depth++
}

func (c *cssWriter) decl(property, value string) {
	if c.minify {
		c.buf.WriteString(property + ":" + value + ";")
		return
	}
	c.indent()
	c.buf.WriteString(property + ": " + value + ";\n")
}

func (c *cssWriter) close() {
	c.depth--
	if c.minify {
		c.buf.WriteByte('}')
	} else {
		c.indent()
		c.buf.WriteString("}\n")
	}
	if c.depth == 0 {
		c.wrote = true
	}
}

func (c *cssWriter) indent() {
	for i := 0; i < c.depth; i++ {
		c.buf.WriteString("  ")
	}
}

func (c *cssWriter) block(selector string, resolved []tokens.Resolved) {
	c.open(selector)
	for _, r := range resolved {
		c.decl("--"+r.Name, r.Value)
	}
	c.close()
}

// triples writes declarations, opening a new rule block whenever the
// selector or media condition changes and grouping consecutive rules that
// share a media condition into one @media block.
func (c *cssWriter) triples(seq iter.Seq2[Triple, error]) error {
	var (
		media, selector string
		inMedia, inRule bool
	)

	for t, err := range seq {
		if err != nil {
			return err
		}
		if inRule && (t.Selector != selector || t.Media != media) {
			c.close()
			inRule = false
		}
		if t.Media != media {
			if inMedia {
				c.close()
				inMedia = false
			}
			if t.Media != "" {
				c.open("@media " + t.Media)
				inMedia = true
			}
			media = t.Media
		}
		if !inRule {
			c.open(t.Selector)
			selector = t.Selector
			inRule = true
		}
		c.decl(t.Property, t.Value)
	}

	if inRule {
		c.close()
	}
	if inMedia {
		c.close()
	}
	return nil
}

func (c *cssWriter) bytes() []byte {
	return c.buf.Bytes()
}
