package extract

import "strings"

// NodeInfo is the structural description of a candidate node, independent
// of any browser object model so classification stays unit-testable
// against fixture trees.
type NodeInfo struct {
	// Tag is the lowercase element name.
	Tag string

	// AriaRole is the element's role attribute, empty if absent.
	AriaRole string

	// Top and Height are the bounding box in CSS pixels relative to the
	// document top.
	Top    float64
	Height float64

	// ViewportHeight is the layout viewport height at extraction time.
	ViewportHeight float64
}

// minContentHeight is the smallest bounding-box height a generic block
// needs before it counts as a content section.
const minContentHeight = 200

// ClassifyAll assigns a role to each node in document order. The rule list
// is ordered, first match wins: explicit landmark semantics, then
// hero-by-position (only the first qualifying block), then generic content
// block, then other.
func ClassifyAll(nodes []NodeInfo) []Role {
	roles := make([]Role, len(nodes))
	heroTaken := false
	for i, n := range nodes {
		r := classify(n, heroTaken)
		if r == RoleHero {
			heroTaken = true
		}
		roles[i] = r
	}
	return roles
}

func classify(n NodeInfo, heroTaken bool) Role {
	tag := strings.ToLower(n.Tag)
	role := strings.ToLower(n.AriaRole)

	// Tier 1: explicit landmark semantics.
	switch {
	case tag == "nav" || role == "navigation":
		return RoleNavigation
	case tag == "footer" || role == "contentinfo":
		return RoleFooter
	case tag == "header" || role == "banner":
		return RoleHero
	case tag == "main" || role == "main":
		return RoleContentSection
	}

	// Tier 2: structural position. The first large block starting above
	// the fold is the hero candidate.
	if !heroTaken && n.ViewportHeight > 0 &&
		n.Top < n.ViewportHeight && n.Height >= n.ViewportHeight/2 {
		return RoleHero
	}

	// Tier 3: generic content block.
	if isContentTag(tag) && n.Height >= minContentHeight {
		return RoleContentSection
	}

	return RoleOther
}

func isContentTag(tag string) bool {
	switch tag {
	case "article", "section", "aside", "div":
		return true
	}
	return false
}
