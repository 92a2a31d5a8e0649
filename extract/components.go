package extract

import (
	"context"
	"encoding/json"
)

// Component is one sampled UI pattern: a button, card, navbar, or form
// control, with the handful of styles that define its look.
type Component struct {
	Kind   string            `json:"kind"`
	Tag    string            `json:"tag"`
	Text   string            `json:"text,omitempty"`
	Styles map[string]string `json:"styles"`
}

// Component kinds reported by the sampler.
const (
	ComponentButton = "button"
	ComponentCard   = "card"
	ComponentNavbar = "navbar"
	ComponentForm   = "form"
)

// extractComponents samples common UI patterns. Sample counts are capped
// per kind so a long listing page yields representatives, not an
// inventory.
func (e *Engine) extractComponents(ctx context.Context, dom DOM) ([]Component, error) {
	data, err := dom.EvalJSON(ctx, `() => {
		const componentSamples = [];

		const pick = (computed, props) => {
			const styles = {};
			for (const p of props) styles[p] = computed.getPropertyValue(p);
			return styles;
		};

		const buttons = document.querySelectorAll(
			'button, [role=button], a.btn, a.button, input[type=button], input[type=submit]');
		let n = 0;
		for (const el of buttons) {
			if (n++ >= 5) break;
			componentSamples.push({
				kind: 'button',
				tag: el.tagName.toLowerCase(),
				text: (el.textContent || el.value || '').trim().substring(0, 30),
				styles: pick(window.getComputedStyle(el), ['background-color', 'color',
					'padding', 'border-radius', 'border', 'font-size', 'font-weight'])
			});
		}

		n = 0;
		for (const el of document.querySelectorAll('[class*=card], article, [class*=post]')) {
			if (n >= 3) break;
			const rect = el.getBoundingClientRect();
			if (rect.width <= 200 || rect.height <= 100) continue;
			n++;
			componentSamples.push({
				kind: 'card',
				tag: el.tagName.toLowerCase(),
				styles: pick(window.getComputedStyle(el), ['background-color',
					'border-radius', 'box-shadow', 'padding', 'border'])
			});
		}

		n = 0;
		for (const el of document.querySelectorAll('nav, [role=navigation]')) {
			if (n++ >= 2) break;
			componentSamples.push({
				kind: 'navbar',
				tag: el.tagName.toLowerCase(),
				styles: pick(window.getComputedStyle(el), ['background-color', 'height',
					'position', 'box-shadow', 'padding'])
			});
		}

		n = 0;
		for (const el of document.querySelectorAll('form, input, select, textarea')) {
			if (n++ >= 5) break;
			componentSamples.push({
				kind: 'form',
				tag: el.tagName.toLowerCase(),
				styles: pick(window.getComputedStyle(el), ['background-color', 'border',
					'border-radius', 'padding', 'font-size'])
			});
		}

		return JSON.stringify(componentSamples);
	}`)
	if err != nil {
		return nil, err
	}
	var components []Component
	if err := json.Unmarshal(data, &components); err != nil {
		return nil, err
	}
	return components, nil
}
