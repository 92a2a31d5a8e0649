// Package guide orchestrates one design-extraction run: browser session,
// scroll capture, DOM extraction, interactive and responsive sampling,
// report writing. Strictly linear, one run per process invocation, no
// state shared between runs.
package guide

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/pagelens/designguide/browser"
	"github.com/pagelens/designguide/capture"
	"github.com/pagelens/designguide/extract"
	"github.com/pagelens/designguide/report"
)

// Result summarises a finished run.
type Result struct {
	OutputDir   string
	Screenshots []report.ScreenshotRef
	Elements    int
}

// Run executes the full Session → Capture → Extraction → Report pipeline.
// The browser process is released on every exit path. Whatever was
// successfully produced before the first fatal error stays on disk; the
// returned error carries the typed stage errors for the CLI to name.
func Run(ctx context.Context, cfg Config, logger *slog.Logger) (*Result, error) {
	cfg.Defaults()
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mgr := browser.NewManager(browser.Config{
		RemoteURL: cfg.RemoteBrowser,
		Logger:    logger,
	})
	if _, err := mgr.Start(); err != nil {
		return nil, err
	}
	defer mgr.Close()

	logger.Info("guide: loading page", "url", cfg.URL,
		"viewport_width", cfg.ViewportWidth, "viewport_height", cfg.ViewportHeight)

	session, err := browser.OpenSession(ctx, mgr, browser.SessionOptions{
		URL:            cfg.URL,
		ViewportWidth:  cfg.ViewportWidth,
		ViewportHeight: cfg.ViewportHeight,
		NavTimeout:     cfg.NavTimeout,
		SettleDelay:    cfg.SettleDelay,
	})
	if err != nil {
		return nil, err
	}
	defer session.Close()

	logger.Info("guide: capturing screenshots")
	frames, capErr := capture.Run(ctx, &timeoutPager{s: session, d: cfg.ShotTimeout}, capture.Options{
		MaxScrolls: cfg.MaxScrolls,
		Logger:     logger,
	})
	if len(frames) == 0 {
		return nil, capErr
	}
	if capErr != nil {
		logger.Warn("guide: capture incomplete, continuing with partial frames",
			"frames", len(frames), "error", capErr)
	}

	// The output directory exists only once something is ready to land in
	// it, so an unreachable URL leaves no artifacts behind.
	writer, err := report.NewWriter(cfg.OutputDir, logger)
	if err != nil {
		return nil, err
	}

	refs, shotErr := writer.WriteScreenshots(frames)
	if shotErr != nil {
		logger.Warn("guide: some screenshots failed to persist", "error", shotErr)
	}

	logger.Info("guide: extracting design", "screenshots", len(refs))
	eng := extract.New(logger)
	extraction, err := eng.Extract(ctx, session)
	if err != nil {
		// Screenshots already on disk are kept.
		return &Result{OutputDir: writer.Dir(), Screenshots: refs},
			errors.Join(capErr, shotErr, err)
	}

	// Hover sampling mutates pointer state, so it runs after the static
	// extraction. The pointer rests over the last sampled element when the
	// hover snapshot is taken.
	if states, err := eng.ExtractInteractive(ctx, session); err != nil {
		logger.Warn("guide: interactive sampling incomplete", "error", err)
	} else if len(states) > 0 {
		extraction.Interactive = states
		if png, err := session.Screenshot(ctx, false); err != nil {
			logger.Warn("guide: hover snapshot failed", "error", err)
		} else if err := writer.WriteImage(report.FileHover, png); err != nil {
			logger.Warn("guide: hover snapshot not persisted", "error", err)
		}
	}

	logger.Info("guide: capturing responsive breakpoints")
	responsive := captureResponsive(ctx, session, writer, cfg, logger)

	tokens := report.DeriveTokens(extraction.Elements, extraction.Sweep)

	logger.Info("guide: writing report",
		"elements", len(extraction.Elements),
		"palette", len(tokens.Palette))
	artErr := writer.WriteArtifacts(report.Input{
		URL:            cfg.URL,
		ViewportWidth:  cfg.ViewportWidth,
		ViewportHeight: cfg.ViewportHeight,
		GeneratedAt:    time.Now(),
		Screenshots:    refs,
		Extraction:     extraction,
		Tokens:         tokens,
		Responsive:     responsive,
	})

	res := &Result{
		OutputDir:   writer.Dir(),
		Screenshots: refs,
		Elements:    len(extraction.Elements),
	}
	return res, errors.Join(capErr, shotErr, artErr)
}

// Screenshot runs Session + a single viewport capture, for re-shooting a
// recreation against the original.
func Screenshot(ctx context.Context, cfg Config, logger *slog.Logger) ([]byte, error) {
	cfg.Defaults()
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mgr := browser.NewManager(browser.Config{
		RemoteURL: cfg.RemoteBrowser,
		Logger:    logger,
	})
	if _, err := mgr.Start(); err != nil {
		return nil, err
	}
	defer mgr.Close()

	session, err := browser.OpenSession(ctx, mgr, browser.SessionOptions{
		URL:            cfg.URL,
		ViewportWidth:  cfg.ViewportWidth,
		ViewportHeight: cfg.ViewportHeight,
		NavTimeout:     cfg.NavTimeout,
		SettleDelay:    cfg.SettleDelay,
	})
	if err != nil {
		return nil, err
	}
	defer session.Close()

	shotCtx, cancel := context.WithTimeout(ctx, cfg.ShotTimeout)
	defer cancel()
	png, err := session.Screenshot(shotCtx, false)
	if err != nil {
		return nil, &capture.CaptureError{Op: "single viewport capture", Cause: err}
	}
	return png, nil
}

// timeoutPager bounds each screenshot with the per-shot timeout while
// passing the other pager calls straight through.
type timeoutPager struct {
	s *browser.Session
	d time.Duration
}

func (p *timeoutPager) Screenshot(ctx context.Context, fullPage bool) ([]byte, error) {
	if p.d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.d)
		defer cancel()
	}
	return p.s.Screenshot(ctx, fullPage)
}

func (p *timeoutPager) ScrollTo(ctx context.Context, offset int) error {
	return p.s.ScrollTo(ctx, offset)
}

func (p *timeoutPager) ScrollPosition(ctx context.Context) (int, error) {
	return p.s.ScrollPosition(ctx)
}

func (p *timeoutPager) ViewportHeight(ctx context.Context) (int, error) {
	return p.s.ViewportHeight(ctx)
}
