// Package extract walks a rendered page, classifies its key regions, and
// reads outer markup plus computed style for a fixed property checklist.
package extract

// Role tags the semantic region an element belongs to. Assignment is a
// best-effort classification: multiple elements may share a role and some
// regions match none.
type Role string

const (
	RoleNavigation     Role = "navigation"
	RoleHero           Role = "hero"
	RoleContentSection Role = "content-section"
	RoleFooter         Role = "footer"
	RoleOther          Role = "other"
)

// StyleChecklist is the fixed set of CSS properties read for every
// extracted element. Values like "none" or the empty string are recorded
// verbatim; a property that could not be resolved at all goes to
// Element.Missing instead. Omission vs "none" is meaningful downstream.
var StyleChecklist = []string{
	"color",
	"background-color",
	"font-family",
	"font-size",
	"font-weight",
	"line-height",
	"margin",
	"padding",
	"border-radius",
	"box-shadow",
	"transform",
	"transition",
}

// Element is one extracted page region.
type Element struct {
	Role     Role              `json:"role"`
	Tag      string            `json:"tag"`
	Selector string            `json:"selector"`
	HTML     string            `json:"html"`
	Styles   map[string]string `json:"styles"`
	Missing  []string          `json:"missing,omitempty"`
}

// StyleSweep aggregates document-wide style observations used for the
// derived token summaries (palette, type scale, spacing scale).
type StyleSweep struct {
	TextColors       []string `json:"textColors"`
	BackgroundColors []string `json:"backgroundColors"`
	BorderColors     []string `json:"borderColors"`
	FontFamilies     []string `json:"fontFamilies"`
	FontSizes        []string `json:"fontSizes"`
	FontWeights      []string `json:"fontWeights"`
	Margins          []string `json:"margins"`
	Paddings         []string `json:"paddings"`
	BorderRadii      []string `json:"borderRadii"`
	BoxShadows       []string `json:"boxShadows"`
}

// Extraction is the full result of one extraction pass. Interactive is
// filled separately because hover sampling needs mouse control on top of
// the plain DOM surface.
type Extraction struct {
	Elements    []Element          `json:"elements"`
	HTML        string             `json:"-"`
	CSS         string             `json:"-"`
	Sweep       StyleSweep         `json:"sweep"`
	Components  []Component        `json:"components"`
	Motion      Motion             `json:"motion"`
	Interactive []InteractiveState `json:"interactive,omitempty"`
}
