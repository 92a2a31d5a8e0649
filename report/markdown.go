package report

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/pagelens/designguide/capture"
	"github.com/pagelens/designguide/extract"
)

// guide section caps keep the narrative readable on content-heavy pages.
const (
	maxPaletteRows    = 20
	maxTypographyRows = 15
	maxSpacingRows    = 20
	maxElementBlocks  = 10
	maxComponentRows  = 15
	maxHoverBlocks    = 10
	maxKeyframeBlocks = 5
)

// renderGuide builds the design-guide.md narrative: visual assets, color
// palette, typography scale, spacing scale, per-region style notes,
// sampled components, interactive states, motion, and responsive layout,
// each cross-referenced to the elements they came from.
func renderGuide(in Input) ([]byte, error) {
	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)

	md.H1("Design Guide")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Source URL", "`" + in.URL + "`"},
			{"Viewport", fmt.Sprintf("%dx%d", in.ViewportWidth, in.ViewportHeight)},
			{"Generated", in.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC")},
		},
	})
	md.PlainText("")

	writeScreenshotSection(md, in.Screenshots)
	writePaletteSection(md, in.Tokens.Palette)
	writeTypographySection(md, in.Tokens.Typography)
	writeSpacingSection(md, in.Tokens.Spacing)
	writeElementSection(md, in)
	writeComponentSection(md, in.Extraction.Components)
	writeInteractiveSection(md, in.Extraction.Interactive)
	writeMotionSection(md, in.Extraction.Motion)
	writeResponsiveSection(md, in.Responsive)

	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("See `design_data.json` for the complete raw extraction, " +
		"`computed_styles.json` for per-element computed styles, and " +
		"`extracted.html` / `extracted.css` for raw markup and stylesheets.")

	if err := md.Build(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeScreenshotSection(md *markdown.Markdown, shots []ScreenshotRef) {
	md.H2("Screenshots")
	md.PlainText("")
	if len(shots) == 0 {
		md.PlainText("No screenshots were captured.")
		md.PlainText("")
		return
	}

	var items []string
	for _, s := range shots {
		if s.Kind == capture.KindFullPage {
			items = append(items, "Full page: `"+s.File+"`")
			continue
		}
		items = append(items, fmt.Sprintf("Viewport at offset %dpx: `%s`", s.Offset, s.File))
	}
	md.BulletList(items...)
	md.PlainText("")
}

func writePaletteSection(md *markdown.Markdown, palette []ColorToken) {
	md.H2("Color Palette")
	md.PlainText("")
	if len(palette) == 0 {
		md.PlainText("No color values observed.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(palette))
	for i, c := range palette {
		if i >= maxPaletteRows {
			break
		}
		rows = append(rows, []string{"`" + c.Value + "`", sourceCell(c.Sources)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Color", "Seen on"},
		Rows:   rows,
	})
	md.PlainText("")

	var css strings.Builder
	css.WriteString(":root {\n")
	for i, c := range palette {
		if i >= maxPaletteRows {
			break
		}
		fmt.Fprintf(&css, "  --color-%d: %s;\n", i+1, c.Value)
	}
	css.WriteString("}")
	md.CodeBlocks(markdown.SyntaxHighlightCSS, css.String())
	md.PlainText("")
}

func writeTypographySection(md *markdown.Markdown, typography []TypeToken) {
	md.H2("Typography Scale")
	md.PlainText("")
	if len(typography) == 0 {
		md.PlainText("No typography values observed.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(typography))
	for i, ty := range typography {
		if i >= maxTypographyRows {
			break
		}
		rows = append(rows, []string{"`" + ty.Family + "`", ty.Size, sourceCell(ty.Sources)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Font Family", "Size", "Seen on"},
		Rows:   rows,
	})
	md.PlainText("")
}

func writeSpacingSection(md *markdown.Markdown, spacing []SpacingToken) {
	md.H2("Spacing Scale")
	md.PlainText("")
	if len(spacing) == 0 {
		md.PlainText("No spacing values observed.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(spacing))
	for i, s := range spacing {
		if i >= maxSpacingRows {
			break
		}
		rows = append(rows, []string{s.Value, s.Kind, sourceCell(s.Sources)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Value", "Kind", "Seen on"},
		Rows:   rows,
	})
	md.PlainText("")
}

func writeElementSection(md *markdown.Markdown, in Input) {
	md.H2("Key Regions")
	md.PlainText("")

	elements := in.Extraction.Elements
	if len(elements) == 0 {
		md.PlainText("No key regions identified.")
		md.PlainText("")
		return
	}

	counts := map[string]int{}
	for _, el := range elements {
		counts[string(el.Role)]++
	}
	var summary []string
	for _, role := range []string{"navigation", "hero", "content-section", "footer", "other"} {
		if n := counts[role]; n > 0 {
			summary = append(summary, role+": "+strconv.Itoa(n))
		}
	}
	md.BulletList(summary...)
	md.PlainText("")

	for i, el := range elements {
		if i >= maxElementBlocks {
			break
		}
		md.H3(fmt.Sprintf("%s `%s`", el.Role, el.Selector))
		md.PlainText("")

		var css strings.Builder
		for _, prop := range orderedProps(el.Styles) {
			fmt.Fprintf(&css, "%s: %s;\n", prop, el.Styles[prop])
		}
		md.CodeBlocks(markdown.SyntaxHighlightCSS, strings.TrimRight(css.String(), "\n"))
		if len(el.Missing) > 0 {
			md.PlainText("Unresolved properties: `" + strings.Join(el.Missing, "`, `") + "`")
		}
		md.PlainText("")
	}
}

func writeComponentSection(md *markdown.Markdown, components []extract.Component) {
	md.H2("Components")
	md.PlainText("")
	if len(components) == 0 {
		md.PlainText("No components sampled.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(components))
	for i, c := range components {
		if i >= maxComponentRows {
			break
		}
		text := c.Text
		if text == "" {
			text = "-"
		}
		rows = append(rows, []string{c.Kind, "`" + c.Tag + "`", text, styleCell(c.Styles)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Kind", "Tag", "Text", "Key styles"},
		Rows:   rows,
	})
	md.PlainText("")
}

func writeInteractiveSection(md *markdown.Markdown, states []extract.InteractiveState) {
	md.H2("Interactive States")
	md.PlainText("")
	if len(states) == 0 {
		md.PlainText("No interactive elements sampled.")
		md.PlainText("")
		return
	}

	md.PlainText("Hover snapshot: `" + FileHover + "`")
	md.PlainText("")
	for i, st := range states {
		if i >= maxHoverBlocks {
			break
		}
		md.H3("`" + st.Selector + "`")
		md.PlainText("")

		rows := make([][]string, 0, len(st.Hover))
		for _, prop := range orderedProps(st.Hover) {
			def := st.Default[prop]
			hov := st.Hover[prop]
			if def == hov {
				continue
			}
			rows = append(rows, []string{prop, "`" + def + "`", "`" + hov + "`"})
		}
		if len(rows) == 0 {
			md.PlainText("No style change on hover.")
			md.PlainText("")
			continue
		}
		md.Table(markdown.TableSet{
			Header: []string{"Property", "Default", "Hover"},
			Rows:   rows,
		})
		md.PlainText("")
	}
}

func writeMotionSection(md *markdown.Markdown, motion extract.Motion) {
	md.H2("Motion")
	md.PlainText("")
	if len(motion.Transitions) == 0 && len(motion.Keyframes) == 0 && len(motion.Animated) == 0 {
		md.PlainText("No transitions or animations observed.")
		md.PlainText("")
		return
	}

	if len(motion.Transitions) > 0 {
		md.H3("Transitions")
		md.PlainText("")
		items := make([]string, 0, len(motion.Transitions))
		for _, t := range motion.Transitions {
			items = append(items, "`"+t+"`")
		}
		md.BulletList(items...)
		md.PlainText("")
	}

	for i, kf := range motion.Keyframes {
		if i >= maxKeyframeBlocks {
			break
		}
		md.H3("Keyframes `" + kf.Name + "`")
		md.PlainText("")
		md.CodeBlocks(markdown.SyntaxHighlightCSS, strings.Join(kf.Rules, "\n"))
		md.PlainText("")
	}

	if len(motion.Animated) > 0 {
		md.H3("Animated Elements")
		md.PlainText("")
		items := make([]string, 0, len(motion.Animated))
		for _, a := range motion.Animated {
			items = append(items, fmt.Sprintf("`%s`: `%s`", a.Selector, a.Animation))
		}
		md.BulletList(items...)
		md.PlainText("")
	}
}

func writeResponsiveSection(md *markdown.Markdown, shots []BreakpointShot) {
	md.H2("Responsive Layout")
	md.PlainText("")
	if len(shots) == 0 {
		md.PlainText("No responsive breakpoints captured.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(shots))
	for _, s := range shots {
		rows = append(rows, []string{
			s.Name,
			fmt.Sprintf("%dx%d", s.Width, s.Height),
			strconv.Itoa(s.ScrollHeight) + "px",
			strconv.Itoa(s.BodyWidth) + "px",
			"`" + s.File + "`",
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Breakpoint", "Viewport", "Scroll height", "Body width", "Screenshot"},
		Rows:   rows,
	})
	md.PlainText("")
}

// styleCell flattens a sampled style map into one table cell, checklist
// order first so cells stay byte-stable across runs.
func styleCell(styles map[string]string) string {
	var parts []string
	for _, prop := range orderedProps(styles) {
		parts = append(parts, prop+": "+styles[prop])
	}
	if len(parts) == 0 {
		return "-"
	}
	return "`" + strings.Join(parts, "; ") + "`"
}

// orderedProps yields style properties in checklist order so guides stay
// byte-stable across runs, with any extra properties sorted last.
func orderedProps(styles map[string]string) []string {
	out := make([]string, 0, len(styles))
	seen := make(map[string]bool, len(styles))
	for _, p := range extract.StyleChecklist {
		if _, ok := styles[p]; ok {
			out = append(out, p)
			seen[p] = true
		}
	}
	var extra []string
	for p := range styles {
		if !seen[p] {
			extra = append(extra, p)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

func sourceCell(sources []string) string {
	if len(sources) == 0 {
		return "document sweep"
	}
	const max = 3
	if len(sources) > max {
		return strings.Join(sources[:max], ", ") + ", …"
	}
	return strings.Join(sources, ", ")
}
