// Package report assembles captured screenshots, extracted markup and
// styles, and derived design tokens into the output artifact directory.
package report

import (
	"time"

	"github.com/pagelens/designguide/capture"
	"github.com/pagelens/designguide/extract"
)

// ScreenshotRef points at a screenshot artifact on disk.
type ScreenshotRef struct {
	File   string       `json:"file"`
	Kind   capture.Kind `json:"kind"`
	Offset int          `json:"offset"`
}

// BreakpointShot records how the page renders at one responsive
// breakpoint: the screenshot on disk plus the layout the page settled on.
type BreakpointShot struct {
	Name         string `json:"name"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	File         string `json:"file"`
	ScrollHeight int    `json:"scrollHeight"`
	BodyWidth    int    `json:"bodyWidth"`
}

// Input carries everything the writer needs for one run.
type Input struct {
	URL            string
	ViewportWidth  int
	ViewportHeight int
	GeneratedAt    time.Time

	Screenshots []ScreenshotRef
	Extraction  *extract.Extraction
	Tokens      Tokens
	Responsive  []BreakpointShot
}

// designData is the design_data.json shape.
type designData struct {
	URL         string                     `json:"url"`
	Viewport    viewportData               `json:"viewport"`
	Generated   string                     `json:"generated"`
	Screenshot  []ScreenshotRef            `json:"screenshots"`
	Elements    []extract.Element          `json:"elements"`
	Sweep       extract.StyleSweep         `json:"sweep"`
	Components  []extract.Component        `json:"components"`
	Motion      extract.Motion             `json:"motion"`
	Interactive []extract.InteractiveState `json:"interactive,omitempty"`
	Responsive  []BreakpointShot           `json:"responsive,omitempty"`
	Tokens      Tokens                     `json:"tokens"`
}

type viewportData struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}
