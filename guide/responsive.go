package guide

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/pagelens/designguide/report"
)

// breakpoint is one preset viewport the page is re-rendered at.
type breakpoint struct {
	name   string
	width  int
	height int
}

var breakpoints = []breakpoint{
	{name: "mobile", width: 375, height: 812},
	{name: "tablet", width: 768, height: 1024},
	{name: "desktop", width: 1920, height: 1080},
}

// breakpointSettle gives the page time to reflow after a viewport change.
var breakpointSettle = 500 * time.Millisecond

// pageLayout is what the page reports about its layout at a breakpoint.
type pageLayout struct {
	ViewportWidth  int `json:"viewportWidth"`
	ViewportHeight int `json:"viewportHeight"`
	ScrollHeight   int `json:"scrollHeight"`
	BodyWidth      int `json:"bodyWidth"`
}

const layoutScript = `() => JSON.stringify({
	viewportWidth: window.innerWidth,
	viewportHeight: window.innerHeight,
	scrollHeight: document.documentElement.scrollHeight,
	bodyWidth: document.body ? document.body.offsetWidth : 0,
})`

// breakpointPager is the slice of browser.Session the breakpoint loop
// needs.
type breakpointPager interface {
	SetViewport(ctx context.Context, width, height int) error
	Screenshot(ctx context.Context, fullPage bool) ([]byte, error)
	EvalJSON(ctx context.Context, js string) ([]byte, error)
}

// captureResponsive re-renders the session at each preset breakpoint,
// persisting a screenshot and recording the layout the page settled on.
// The original viewport is restored before returning. Breakpoint failures
// are logged and skipped; whatever succeeded is returned.
func captureResponsive(ctx context.Context, session breakpointPager, writer *report.Writer, cfg Config, logger *slog.Logger) []report.BreakpointShot {
	var shots []report.BreakpointShot

	for _, bp := range breakpoints {
		if err := ctx.Err(); err != nil {
			break
		}
		if err := session.SetViewport(ctx, bp.width, bp.height); err != nil {
			logger.Warn("guide: breakpoint viewport failed", "breakpoint", bp.name, "error", err)
			continue
		}
		settleBreakpoint(ctx)

		png, err := session.Screenshot(ctx, false)
		if err != nil {
			logger.Warn("guide: breakpoint screenshot failed", "breakpoint", bp.name, "error", err)
			continue
		}
		file := report.ResponsiveFile(bp.name)
		if err := writer.WriteImage(file, png); err != nil {
			logger.Warn("guide: breakpoint screenshot not persisted", "breakpoint", bp.name, "error", err)
			continue
		}

		shot := report.BreakpointShot{
			Name:   bp.name,
			Width:  bp.width,
			Height: bp.height,
			File:   file,
		}
		if raw, err := session.EvalJSON(ctx, layoutScript); err != nil {
			logger.Warn("guide: breakpoint layout unavailable", "breakpoint", bp.name, "error", err)
		} else {
			var layout pageLayout
			if err := json.Unmarshal(raw, &layout); err != nil {
				logger.Warn("guide: breakpoint layout unreadable", "breakpoint", bp.name, "error", err)
			} else {
				shot.ScrollHeight = layout.ScrollHeight
				shot.BodyWidth = layout.BodyWidth
			}
		}
		shots = append(shots, shot)
		logger.Info("guide: breakpoint captured", "breakpoint", bp.name, "file", file)
	}

	if err := session.SetViewport(ctx, cfg.ViewportWidth, cfg.ViewportHeight); err != nil {
		logger.Warn("guide: viewport restore failed", "error", err)
	}
	return shots
}

func settleBreakpoint(ctx context.Context) {
	t := time.NewTimer(breakpointSettle)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
