package report

import (
	"encoding/json"

	"github.com/pagelens/designguide/extract"
)

// computedEntry is one element's record in computed_styles.json. Styles
// holds every resolved checklist property verbatim ("none" and "" kept);
// Missing lists checklist properties the page could not resolve, so
// downstream consumers can tell absence from "none".
type computedEntry struct {
	Role    extract.Role      `json:"role"`
	Tag     string            `json:"tag"`
	Styles  map[string]string `json:"styles"`
	Missing []string          `json:"missing,omitempty"`
}

// marshalComputedStyles produces the computed_styles.json document keyed
// by element selector.
func marshalComputedStyles(elements []extract.Element) ([]byte, error) {
	entries := make(map[string]computedEntry, len(elements))
	for _, el := range elements {
		entries[el.Selector] = computedEntry{
			Role:    el.Role,
			Tag:     el.Tag,
			Styles:  el.Styles,
			Missing: el.Missing,
		}
	}
	return json.MarshalIndent(entries, "", "  ")
}
