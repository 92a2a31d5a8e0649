package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// hoverProps are the style properties sampled before and after hovering.
var hoverProps = []string{
	"background-color",
	"color",
	"border-color",
	"box-shadow",
	"transform",
	"opacity",
}

// InteractiveDOM extends DOM with the mouse control hover sampling needs.
// browser.Session implements it.
type InteractiveDOM interface {
	DOM
	MouseMove(ctx context.Context, x, y float64) error
}

// InteractiveState pairs an interactive element's resting styles with the
// styles observed while the pointer is over it.
type InteractiveState struct {
	Selector string            `json:"selector"`
	Default  map[string]string `json:"default"`
	Hover    map[string]string `json:"hover"`
}

// interactiveTarget mirrors the per-element JSON of the collection script.
type interactiveTarget struct {
	Selector string            `json:"selector"`
	X        float64           `json:"x"`
	Y        float64           `json:"y"`
	Default  map[string]string `json:"default"`
}

// ExtractInteractive hovers over the first visible interactive elements
// and records how their styles change. The page is left with the pointer
// over the last sampled element, so capture a hover screenshot right after
// if one is wanted. Per-element failures skip the element.
func (e *Engine) ExtractInteractive(ctx context.Context, dom InteractiveDOM) ([]InteractiveState, error) {
	data, err := dom.EvalJSON(ctx, interactiveCollectScript())
	if err != nil {
		return nil, &ExtractionError{Op: "collect interactive targets", Cause: err}
	}
	var targets []interactiveTarget
	if err := json.Unmarshal(data, &targets); err != nil {
		return nil, &ExtractionError{Op: "decode interactive targets", Cause: err}
	}

	var states []InteractiveState
	for i, tg := range targets {
		if i >= e.maxHoverSamples {
			break
		}
		if err := dom.MouseMove(ctx, tg.X, tg.Y); err != nil {
			e.logger.Warn("extract: hover move failed", "selector", tg.Selector, "error", err)
			continue
		}
		settleHover(ctx, e.hoverSettle)

		raw, err := dom.EvalJSON(ctx, hoverReadScript(tg.X, tg.Y))
		if err != nil {
			e.logger.Warn("extract: hover readback failed", "selector", tg.Selector, "error", err)
			continue
		}
		var hover map[string]string
		if err := json.Unmarshal(raw, &hover); err != nil || hover == nil {
			continue
		}
		states = append(states, InteractiveState{
			Selector: tg.Selector,
			Default:  tg.Default,
			Hover:    hover,
		})
	}
	return states, nil
}

// interactiveCollectScript lists visible interactive elements with their
// viewport-space centers and resting styles.
func interactiveCollectScript() string {
	return fmt.Sprintf(`() => {
		const props = %s;
		const interactiveTargets = [];
		const els = document.querySelectorAll(
			'a, button, input, select, textarea, [onclick], [tabindex]');

		for (const el of els) {
			const rect = el.getBoundingClientRect();
			if (rect.width <= 0 || rect.height <= 0) continue;
			if (rect.bottom < 0 || rect.top > window.innerHeight) continue;

			let selector = el.tagName.toLowerCase();
			if (el.id) selector += '#' + el.id;
			else if (el.classList.length > 0) {
				selector += '.' + Array.from(el.classList).slice(0, 3).join('.');
			}

			const computed = window.getComputedStyle(el);
			const def = {};
			for (const p of props) def[p] = computed.getPropertyValue(p);

			interactiveTargets.push({
				selector: selector,
				x: rect.left + rect.width / 2,
				y: rect.top + rect.height / 2,
				default: def
			});
		}

		return JSON.stringify(interactiveTargets);
	}`, hoverPropsJSON())
}

// hoverReadScript reads the sampled properties of the element currently
// under the given point, or null when nothing is there.
func hoverReadScript(x, y float64) string {
	return fmt.Sprintf(`() => {
		const props = %s;
		const el = document.elementFromPoint(%g, %g);
		if (!el) return JSON.stringify(null);
		const computed = window.getComputedStyle(el);
		const out = {};
		for (const p of props) out[p] = computed.getPropertyValue(p);
		return JSON.stringify(out);
	}`, hoverPropsJSON(), x, y)
}

func hoverPropsJSON() string {
	b, _ := json.Marshal(hoverProps)
	return string(b)
}

func settleHover(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
