package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// SessionOptions describes one page load.
type SessionOptions struct {
	URL            string
	ViewportWidth  int
	ViewportHeight int

	// NavTimeout bounds Navigate + load completion.
	NavTimeout time.Duration

	// SettleDelay is extra wait after load, so late animations and fonts
	// settle before anything is captured.
	SettleDelay time.Duration
}

// Session wraps a Rod page that has reached a loaded state at a fixed
// viewport. It is the page handle the capture and extraction engines
// operate on.
type Session struct {
	Page *rod.Page
	Opts SessionOptions
}

// OpenSession creates a stealth page, applies the viewport, navigates, and
// waits for load. Any failure is reported as *NavigationError; the page is
// closed before returning an error so the caller never leaks a tab.
func OpenSession(ctx context.Context, mgr *Manager, opts SessionOptions) (*Session, error) {
	b := mgr.Browser()
	if b == nil {
		return nil, fmt.Errorf("browser: no active browser")
	}

	page, err := stealth.Page(b)
	if err != nil {
		return nil, fmt.Errorf("browser: create page: %w", err)
	}

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.ViewportWidth,
		Height:            opts.ViewportHeight,
		DeviceScaleFactor: 1.0,
		Mobile:            false,
	}).Call(page); err != nil {
		page.Close()
		return nil, fmt.Errorf("browser: set viewport: %w", err)
	}

	navCtx, cancel := context.WithTimeout(ctx, opts.NavTimeout)
	defer cancel()

	// Watch for the document response so a non-2xx final status can be
	// rejected; Navigate itself only fails on network-level errors.
	statusCh := make(chan int, 1)
	waitResp := page.Context(navCtx).EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type == proto.NetworkResourceTypeDocument {
			select {
			case statusCh <- e.Response.Status:
			default:
			}
			return true
		}
		return false
	})
	go waitResp()

	if err := page.Context(navCtx).Navigate(opts.URL); err != nil {
		page.Close()
		return nil, &NavigationError{URL: opts.URL, Cause: err}
	}

	if err := page.Context(navCtx).WaitLoad(); err != nil {
		page.Close()
		return nil, &NavigationError{URL: opts.URL, Cause: fmt.Errorf("wait load: %w", err)}
	}

	select {
	case status := <-statusCh:
		if status >= 300 {
			page.Close()
			return nil, &NavigationError{URL: opts.URL, Status: status}
		}
	default:
		// Some document loads (file://, data:) emit no network response.
	}

	if opts.SettleDelay > 0 {
		select {
		case <-time.After(opts.SettleDelay):
		case <-ctx.Done():
			page.Close()
			return nil, &NavigationError{URL: opts.URL, Cause: ctx.Err()}
		}
	}

	return &Session{Page: page, Opts: opts}, nil
}

// Screenshot captures a PNG of the viewport, or of the whole page height
// when fullPage is set.
func (s *Session) Screenshot(ctx context.Context, fullPage bool) ([]byte, error) {
	return s.Page.Context(ctx).Screenshot(fullPage, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
}

// ScrollTo moves the window to a vertical offset in CSS pixels.
func (s *Session) ScrollTo(ctx context.Context, offset int) error {
	_, err := s.Page.Context(ctx).Eval(`(y) => window.scrollTo(0, y)`, offset)
	if err != nil {
		return fmt.Errorf("browser: scroll to %d: %w", offset, err)
	}
	return nil
}

// ScrollPosition reports the current vertical scroll offset.
func (s *Session) ScrollPosition(ctx context.Context) (int, error) {
	res, err := s.Page.Context(ctx).Eval(`() => Math.round(window.scrollY)`)
	if err != nil {
		return 0, fmt.Errorf("browser: scroll position: %w", err)
	}
	return res.Value.Int(), nil
}

// ViewportHeight reports the layout viewport height.
func (s *Session) ViewportHeight(ctx context.Context) (int, error) {
	res, err := s.Page.Context(ctx).Eval(`() => window.innerHeight`)
	if err != nil {
		return 0, fmt.Errorf("browser: viewport height: %w", err)
	}
	return res.Value.Int(), nil
}

// MouseMove dispatches a raw pointer move so :hover rules take effect at
// the given viewport coordinates.
func (s *Session) MouseMove(ctx context.Context, x, y float64) error {
	err := proto.InputDispatchMouseEvent{
		Type: proto.InputDispatchMouseEventTypeMouseMoved,
		X:    x,
		Y:    y,
	}.Call(s.Page.Context(ctx))
	if err != nil {
		return fmt.Errorf("browser: move pointer: %w", err)
	}
	return nil
}

// SetViewport re-applies device metrics, for sampling the page at other
// breakpoints after the main run.
func (s *Session) SetViewport(ctx context.Context, width, height int) error {
	err := proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: 1.0,
		Mobile:            false,
	}.Call(s.Page.Context(ctx))
	if err != nil {
		return fmt.Errorf("browser: set viewport %dx%d: %w", width, height, err)
	}
	return nil
}

// HTML serialises the complete document as outer HTML.
func (s *Session) HTML(ctx context.Context) (string, error) {
	res, err := s.Page.Context(ctx).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return "", fmt.Errorf("browser: get DOM: %w", err)
	}
	return res.Value.Str(), nil
}

// EvalJSON runs a JS function expected to return a JSON string and gives
// back the raw bytes for unmarshalling on the Go side.
func (s *Session) EvalJSON(ctx context.Context, js string) ([]byte, error) {
	res, err := s.Page.Context(ctx).Eval(js)
	if err != nil {
		return nil, err
	}
	return []byte(res.Value.Str()), nil
}

// Close closes the page. The browser process itself belongs to the Manager.
func (s *Session) Close() error {
	if s.Page != nil {
		return s.Page.Close()
	}
	return nil
}
