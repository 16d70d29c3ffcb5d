package stylesheet

import (
	"fmt"
	"iter"
	"strings"
)

// Resolver expands token references as seen from a scope.
type Resolver interface {
	ExpandReferences(scope, text string) (string, error)
}

// Triple is one resolved declaration. Media is empty for rules outside an
// @media block.
type Triple struct {
	Media    string `json:"media,omitempty"`
	Selector string `json:"selector"`
	Property string `json:"property"`
	Value    string `json:"value"`
}

// Emit returns the resolved declarations of every rule in sheet, in rule
// and declaration order. The sequence is lazy and can be ranged over any
// number of times; each pass reads the resolver afresh. The first
// resolution failure is yielded as an error and ends the sequence.
func Emit(res Resolver, scope string, sheet *Sheet) iter.Seq2[Triple, error] {
	return func(yield func(Triple, error) bool) {
		if sheet == nil {
			return
		}
		for _, rule := range sheet.Rules {
			media, err := resolveMedia(res, scope, rule)
			if err != nil {
				yield(Triple{}, err)
				return
			}
			selector := strings.TrimSpace(rule.Selector)
			for _, decl := range rule.Declarations {
				value, err := res.ExpandReferences(scope, decl.Value)
				if err == nil {
					err = checkResolved(value)
				}
				if err != nil {
					yield(Triple{}, fmt.Errorf("%s { %s }: %w", selector, decl.Property, err))
					return
				}
				triple := Triple{
					Media:    media,
					Selector: selector,
					Property: strings.TrimSpace(decl.Property),
					Value:    strings.TrimSpace(value),
				}
				if !yield(triple, nil) {
					return
				}
			}
		}
	}
}

// Collect drains Emit, returning the first error it yields.
func Collect(res Resolver, scope string, sheet *Sheet) ([]Triple, error) {
	var out []Triple
	for triple, err := range Emit(res, scope, sheet) {
		if err != nil {
			return nil, err
		}
		out = append(out, triple)
	}
	return out, nil
}

func resolveMedia(res Resolver, scope string, rule Rule) (string, error) {
	if strings.TrimSpace(rule.Media) == "" {
		return "", nil
	}
	media, err := res.ExpandReferences(scope, rule.Media)
	if err == nil {
		err = checkResolved(media)
	}
	if err != nil {
		return "", fmt.Errorf("@media %s: %w", rule.Media, err)
	}
	return strings.TrimSpace(media), nil
}
