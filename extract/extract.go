package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// DOM is the page surface the extraction engine needs. browser.Session
// implements it.
type DOM interface {
	HTML(ctx context.Context) (string, error)
	EvalJSON(ctx context.Context, js string) ([]byte, error)
}

// Engine runs one extraction pass against a loaded page.
type Engine struct {
	logger *slog.Logger

	// maxCandidates bounds how many page regions are reported.
	maxCandidates int

	// maxHoverSamples bounds how many interactive elements get hovered.
	maxHoverSamples int

	// hoverSettle is the wait after moving the pointer, so transitions
	// reach their hover state before sampling.
	hoverSettle time.Duration
}

// New creates an extraction Engine.
func New(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		logger:          logger,
		maxCandidates:   40,
		maxHoverSamples: 10,
		hoverSettle:     300 * time.Millisecond,
	}
}

// rawCandidate mirrors the per-element JSON produced by candidateScript.
type rawCandidate struct {
	Tag     string             `json:"tag"`
	Role    string             `json:"role"`
	Top     float64            `json:"top"`
	Height  float64            `json:"height"`
	Outer   string             `json:"outer"`
	Styles  map[string]*string `json:"styles"`
	Failed  bool               `json:"failed"`
	FailMsg string             `json:"failMsg"`
}

type candidatePayload struct {
	ViewportHeight float64        `json:"viewportHeight"`
	Candidates     []rawCandidate `json:"candidates"`
}

// Extract produces the ordered element sequence plus the raw document
// HTML, aggregated stylesheet text, and the document-wide style sweep.
// A failure to query the DOM at all is *ExtractionError; per-element
// failures are logged and the element skipped.
func (e *Engine) Extract(ctx context.Context, dom DOM) (*Extraction, error) {
	html, err := dom.HTML(ctx)
	if err != nil {
		return nil, &ExtractionError{Op: "document html", Cause: err}
	}

	data, err := dom.EvalJSON(ctx, candidateScript(e.maxCandidates))
	if err != nil {
		return nil, &ExtractionError{Op: "collect candidates", Cause: err}
	}
	var payload candidatePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &ExtractionError{Op: "decode candidates", Cause: err}
	}

	elements := e.buildElements(payload)

	css, err := e.extractCSS(ctx, dom)
	if err != nil {
		// Stylesheets behind CORS or fetch failures degrade to whatever
		// was readable; only log.
		e.logger.Warn("extract: stylesheet extraction incomplete", "error", err)
	}

	sweep, err := e.extractSweep(ctx, dom)
	if err != nil {
		return nil, &ExtractionError{Op: "style sweep", Cause: err}
	}

	components, err := e.extractComponents(ctx, dom)
	if err != nil {
		e.logger.Warn("extract: component sampling incomplete", "error", err)
	}

	var motion Motion
	if m, err := e.extractMotion(ctx, dom); err != nil {
		e.logger.Warn("extract: motion extraction incomplete", "error", err)
	} else {
		motion = *m
	}

	return &Extraction{
		Elements:   elements,
		HTML:       html,
		CSS:        css,
		Sweep:      *sweep,
		Components: components,
		Motion:     motion,
	}, nil
}

// buildElements classifies candidates and normalises their style maps
// against the checklist: resolved values (including "none" and "") stay in
// Styles verbatim, unresolved checklist properties go to Missing.
func (e *Engine) buildElements(payload candidatePayload) []Element {
	infos := make([]NodeInfo, 0, len(payload.Candidates))
	kept := make([]rawCandidate, 0, len(payload.Candidates))
	for _, c := range payload.Candidates {
		if c.Failed {
			e.logger.Warn("extract: element skipped", "tag", c.Tag, "error", c.FailMsg)
			continue
		}
		kept = append(kept, c)
		infos = append(infos, NodeInfo{
			Tag:            c.Tag,
			AriaRole:       c.Role,
			Top:            c.Top,
			Height:         c.Height,
			ViewportHeight: payload.ViewportHeight,
		})
	}

	roles := ClassifyAll(infos)

	elements := make([]Element, 0, len(kept))
	for i, c := range kept {
		el := Element{
			Role:     roles[i],
			Tag:      c.Tag,
			Selector: selectorFor(c, i),
			HTML:     c.Outer,
			Styles:   make(map[string]string, len(StyleChecklist)),
		}
		for _, prop := range StyleChecklist {
			v, ok := c.Styles[prop]
			if !ok || v == nil {
				el.Missing = append(el.Missing, prop)
				continue
			}
			el.Styles[prop] = *v
		}
		elements = append(elements, el)
	}
	return elements
}

func selectorFor(c rawCandidate, idx int) string {
	if c.Role != "" {
		return fmt.Sprintf("%s[role=%s]_%d", c.Tag, c.Role, idx)
	}
	return fmt.Sprintf("%s_%d", c.Tag, idx)
}

// candidateScript collects landmark elements and large blocks with their
// geometry, outer markup, and checklist styles. Each DOM node appears at
// most once; per-element failures are reported inline so the sweep can
// continue.
func candidateScript(limit int) string {
	return fmt.Sprintf(`() => {
		const checklist = %s;
		const seen = new Set();
		const candidates = [];

		const push = (el) => {
			if (seen.has(el) || candidates.length >= %d) return;
			seen.add(el);
			try {
				const rect = el.getBoundingClientRect();
				const top = rect.top + window.scrollY;
				const computed = window.getComputedStyle(el);
				const styles = {};
				for (const prop of checklist) {
					try {
						styles[prop] = computed.getPropertyValue(prop);
					} catch (err) {
						styles[prop] = null;
					}
				}
				candidates.push({
					tag: el.tagName.toLowerCase(),
					role: el.getAttribute('role') || '',
					top: top,
					height: rect.height,
					outer: el.outerHTML,
					styles: styles,
					failed: false,
					failMsg: ''
				});
			} catch (err) {
				candidates.push({
					tag: el.tagName ? el.tagName.toLowerCase() : '',
					role: '', top: 0, height: 0, outer: '', styles: {},
					failed: true, failMsg: String(err)
				});
			}
		};

		const landmarks = 'nav, header, main, article, aside, footer, ' +
			'[role=navigation], [role=banner], [role=main], [role=contentinfo]';
		for (const el of document.querySelectorAll(landmarks)) push(el);

		for (const el of document.querySelectorAll('section, div')) {
			const rect = el.getBoundingClientRect();
			if (rect.height >= 200 && rect.width >= window.innerWidth / 2) push(el);
		}

		return JSON.stringify({
			viewportHeight: window.innerHeight,
			candidates: candidates
		});
	}`, checklistJSON(), limit)
}

func checklistJSON() string {
	b, _ := json.Marshal(StyleChecklist)
	return string(b)
}

// extractCSS reads inline <style> blocks and same-origin stylesheet rules.
// Cross-origin sheets throw on cssRules access and are noted by href.
func (e *Engine) extractCSS(ctx context.Context, dom DOM) (string, error) {
	data, err := dom.EvalJSON(ctx, `() => {
		const parts = [];
		for (const style of document.querySelectorAll('style')) {
			if (style.textContent) {
				parts.push('/* Inline style */\n' + style.textContent);
			}
		}
		for (const sheet of document.styleSheets) {
			if (!sheet.href) continue;
			try {
				const rules = [];
				for (const rule of sheet.cssRules) rules.push(rule.cssText);
				parts.push('/* From: ' + sheet.href + ' */\n' + rules.join('\n'));
			} catch (err) {
				parts.push('/* Unreadable (cross-origin): ' + sheet.href + ' */');
			}
		}
		return JSON.stringify(parts.join('\n\n'));
	}`)
	if err != nil {
		return "", err
	}
	var css string
	if err := json.Unmarshal(data, &css); err != nil {
		return "", err
	}
	return css, nil
}

// extractSweep collects distinct style values across the whole document
// for the token summaries.
func (e *Engine) extractSweep(ctx context.Context, dom DOM) (*StyleSweep, error) {
	data, err := dom.EvalJSON(ctx, `() => {
		const text = new Set(), bg = new Set(), border = new Set();
		const families = new Set(), sizes = new Set(), weights = new Set();
		const margins = new Set(), paddings = new Set();
		const radii = new Set(), shadows = new Set();
		const transparent = 'rgba(0, 0, 0, 0)';

		for (const el of document.querySelectorAll('*')) {
			const c = window.getComputedStyle(el);
			if (c.color && c.color !== transparent) text.add(c.color);
			if (c.backgroundColor && c.backgroundColor !== transparent) bg.add(c.backgroundColor);
			if (c.borderColor && c.borderColor !== transparent) border.add(c.borderColor);
			families.add(c.fontFamily);
			sizes.add(c.fontSize);
			weights.add(c.fontWeight);
			for (const m of [c.marginTop, c.marginRight, c.marginBottom, c.marginLeft]) {
				if (m !== '0px') margins.add(m);
			}
			for (const p of [c.paddingTop, c.paddingRight, c.paddingBottom, c.paddingLeft]) {
				if (p !== '0px') paddings.add(p);
			}
			if (c.borderRadius !== '0px') radii.add(c.borderRadius);
			if (c.boxShadow !== 'none') shadows.add(c.boxShadow);
		}

		return JSON.stringify({
			textColors: [...text],
			backgroundColors: [...bg],
			borderColors: [...border],
			fontFamilies: [...families],
			fontSizes: [...sizes],
			fontWeights: [...weights],
			margins: [...margins],
			paddings: [...paddings],
			borderRadii: [...radii],
			boxShadows: [...shadows]
		});
	}`)
	if err != nil {
		return nil, err
	}
	var sweep StyleSweep
	if err := json.Unmarshal(data, &sweep); err != nil {
		return nil, err
	}
	return &sweep, nil
}
