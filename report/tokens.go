package report

import (
	"strings"

	"github.com/pagelens/designguide/extract"
)

// ColorToken is one distinct color value with the elements it came from.
type ColorToken struct {
	Value   string   `json:"value"`
	Sources []string `json:"sources,omitempty"`
}

// TypeToken is one distinct font family/size pair.
type TypeToken struct {
	Family  string   `json:"family"`
	Size    string   `json:"size"`
	Sources []string `json:"sources,omitempty"`
}

// SpacingToken is one distinct margin or padding value.
type SpacingToken struct {
	Value   string   `json:"value"`
	Kind    string   `json:"kind"` // "margin" or "padding"
	Sources []string `json:"sources,omitempty"`
}

// Tokens are the derived design-token summaries.
type Tokens struct {
	Palette    []ColorToken   `json:"palette"`
	Typography []TypeToken    `json:"typography"`
	Spacing    []SpacingToken `json:"spacing"`
}

// DeriveTokens builds deduplicated token lists from the extracted elements,
// each cross-referenced to the element selectors it was observed on, then
// appends document-sweep values that no tracked element carried.
func DeriveTokens(elements []extract.Element, sweep extract.StyleSweep) Tokens {
	var t Tokens

	colors := newDedup()
	types := newDedup()
	spacing := newDedup()

	for _, el := range elements {
		for _, prop := range []string{"color", "background-color"} {
			v, ok := el.Styles[prop]
			if !ok || !isColorValue(v) {
				continue
			}
			if i, fresh := colors.add(v); fresh {
				t.Palette = append(t.Palette, ColorToken{Value: v, Sources: []string{el.Selector}})
			} else {
				t.Palette[i].Sources = appendSource(t.Palette[i].Sources, el.Selector)
			}
		}

		family, fok := el.Styles["font-family"]
		size, sok := el.Styles["font-size"]
		if fok && sok && family != "" && size != "" {
			key := family + "@" + size
			if i, fresh := types.add(key); fresh {
				t.Typography = append(t.Typography, TypeToken{
					Family: family, Size: size, Sources: []string{el.Selector},
				})
			} else {
				t.Typography[i].Sources = appendSource(t.Typography[i].Sources, el.Selector)
			}
		}

		for _, prop := range []string{"margin", "padding"} {
			v, ok := el.Styles[prop]
			if !ok {
				continue
			}
			for _, part := range splitBoxValues(v) {
				key := prop + "@" + part
				if i, fresh := spacing.add(key); fresh {
					t.Spacing = append(t.Spacing, SpacingToken{
						Value: part, Kind: prop, Sources: []string{el.Selector},
					})
				} else {
					t.Spacing[i].Sources = appendSource(t.Spacing[i].Sources, el.Selector)
				}
			}
		}
	}

	// Sweep values observed anywhere in the document, without a tracked
	// element to point at.
	for _, v := range sweep.TextColors {
		if !isColorValue(v) {
			continue
		}
		if _, fresh := colors.add(v); fresh {
			t.Palette = append(t.Palette, ColorToken{Value: v})
		}
	}
	for _, v := range sweep.BackgroundColors {
		if !isColorValue(v) {
			continue
		}
		if _, fresh := colors.add(v); fresh {
			t.Palette = append(t.Palette, ColorToken{Value: v})
		}
	}
	for _, v := range sweep.Margins {
		if _, fresh := spacing.add("margin@" + v); fresh {
			t.Spacing = append(t.Spacing, SpacingToken{Value: v, Kind: "margin"})
		}
	}
	for _, v := range sweep.Paddings {
		if _, fresh := spacing.add("padding@" + v); fresh {
			t.Spacing = append(t.Spacing, SpacingToken{Value: v, Kind: "padding"})
		}
	}

	return t
}

// dedup assigns a stable index per first-seen key.
type dedup struct {
	idx map[string]int
}

func newDedup() *dedup { return &dedup{idx: make(map[string]int)} }

// add returns the slot index for key and whether it was newly seen.
func (d *dedup) add(key string) (int, bool) {
	if i, ok := d.idx[key]; ok {
		return i, false
	}
	i := len(d.idx)
	d.idx[key] = i
	return i, true
}

func appendSource(sources []string, sel string) []string {
	for _, s := range sources {
		if s == sel {
			return sources
		}
	}
	return append(sources, sel)
}

// isColorValue filters out fully transparent and empty computed colors.
func isColorValue(v string) bool {
	if v == "" || v == "transparent" || v == "rgba(0, 0, 0, 0)" {
		return false
	}
	return true
}

// splitBoxValues breaks a shorthand like "10px 20px" into its parts.
func splitBoxValues(v string) []string {
	fields := strings.Fields(v)
	var out []string
	for _, f := range fields {
		if f == "0px" || f == "" {
			continue
		}
		out = append(out, f)
	}
	return out
}
