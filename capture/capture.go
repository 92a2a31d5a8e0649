// Package capture produces the ordered screenshot sequence for a loaded
// page: one viewport shot per scroll step plus a single full-page shot.
package capture

import (
	"bytes"
	"context"
	"log/slog"
	"time"
)

// Kind distinguishes the two screenshot flavours.
type Kind string

const (
	KindViewport Kind = "viewport"
	KindFullPage Kind = "fullpage"
)

// Frame is one captured screenshot, ordered by scroll offset.
type Frame struct {
	Index  int
	Offset int
	Kind   Kind
	PNG    []byte
}

// Pager is the page surface the capture engine needs. browser.Session
// implements it; tests use a fake.
type Pager interface {
	Screenshot(ctx context.Context, fullPage bool) ([]byte, error)
	ScrollTo(ctx context.Context, offset int) error
	ScrollPosition(ctx context.Context) (int, error)
	ViewportHeight(ctx context.Context) (int, error)
}

// Options tunes the scroll loop.
type Options struct {
	// MaxScrolls caps the number of scroll steps, guarding against pages
	// that grow content forever. Default 30.
	MaxScrolls int

	// ScrollSettle is the pause after each scroll before capturing, so
	// lazy-loaded content can render. Default 500ms.
	ScrollSettle time.Duration

	Logger *slog.Logger
}

func (o *Options) defaults() {
	if o.MaxScrolls <= 0 {
		o.MaxScrolls = 30
	}
	if o.ScrollSettle < 0 {
		o.ScrollSettle = 0
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Run captures the full screenshot sequence. An inability to capture any
// frame at all is fatal (*CaptureError). A failure on a later scroll step,
// or on the final full-page shot, preserves and returns the frames already
// taken; the full-page failure is still reported so the run can surface a
// partial result.
func Run(ctx context.Context, p Pager, opts Options) ([]Frame, error) {
	opts.defaults()
	log := opts.Logger

	vh, err := p.ViewportHeight(ctx)
	if err != nil || vh <= 0 {
		return nil, &CaptureError{Op: "viewport height", Cause: err}
	}

	if err := p.ScrollTo(ctx, 0); err != nil {
		return nil, &CaptureError{Op: "scroll to top", Cause: err}
	}

	png, err := p.Screenshot(ctx, false)
	if err != nil {
		return nil, &CaptureError{Op: "initial viewport capture", Cause: err}
	}
	frames := []Frame{{Index: 0, Offset: 0, Kind: KindViewport, PNG: png}}

	prev := 0
	for step := 0; step < opts.MaxScrolls; step++ {
		if err := ctx.Err(); err != nil {
			return frames, &CaptureError{Op: "scroll loop", Cause: err}
		}

		if err := p.ScrollTo(ctx, prev+vh); err != nil {
			log.Warn("capture: scroll failed, keeping partial sequence",
				"step", step, "error", err)
			break
		}
		settle(ctx, opts.ScrollSettle)

		pos, err := p.ScrollPosition(ctx)
		if err != nil {
			log.Warn("capture: scroll position failed, keeping partial sequence",
				"step", step, "error", err)
			break
		}
		if pos <= prev {
			break // reached page bottom
		}
		prev = pos

		png, err := p.Screenshot(ctx, false)
		if err != nil {
			log.Warn("capture: scroll capture failed, keeping partial sequence",
				"step", step, "offset", pos, "error", err)
			break
		}

		// Consecutive pixel-identical captures keep only the earlier one.
		if bytes.Equal(png, frames[len(frames)-1].PNG) {
			continue
		}
		frames = append(frames, Frame{
			Index:  len(frames),
			Offset: pos,
			Kind:   KindViewport,
			PNG:    png,
		})
	}

	full, err := p.Screenshot(ctx, true)
	if err != nil {
		return frames, &CaptureError{Op: "full-page capture", Cause: err}
	}
	frames = append(frames, Frame{Index: 0, Offset: 0, Kind: KindFullPage, PNG: full})

	return frames, nil
}

func settle(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
