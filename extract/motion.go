package extract

import (
	"context"
	"encoding/json"
)

// Keyframe is one @keyframes rule lifted from a readable stylesheet.
type Keyframe struct {
	Name  string   `json:"name"`
	Rules []string `json:"rules"`
}

// AnimatedElement is a visible element with a running CSS animation.
type AnimatedElement struct {
	Selector  string `json:"selector"`
	Animation string `json:"animation"`
}

// Motion aggregates the page's transition and animation vocabulary.
type Motion struct {
	Transitions []string          `json:"transitions"`
	Keyframes   []Keyframe        `json:"keyframes"`
	Animated    []AnimatedElement `json:"animatedElements"`
}

// extractMotion collects distinct transitions, @keyframes definitions, and
// the elements animating with them. Cross-origin sheets are skipped the
// same way extractCSS skips them.
func (e *Engine) extractMotion(ctx context.Context, dom DOM) (*Motion, error) {
	data, err := dom.EvalJSON(ctx, `() => {
		const transitions = new Set();
		const keyframes = [];
		const animated = [];

		for (const el of document.querySelectorAll('*')) {
			const c = window.getComputedStyle(el);
			if (c.transition !== 'all 0s ease 0s' && c.transition !== 'none') {
				transitions.add(c.transition);
			}
			if (c.animation !== 'none' && c.animationName !== 'none') {
				const rect = el.getBoundingClientRect();
				if (rect.width > 0 && rect.height > 0) {
					let selector = el.tagName.toLowerCase();
					if (el.classList.length > 0) {
						selector += '.' + Array.from(el.classList).slice(0, 3).join('.');
					}
					animated.push({ selector: selector, animation: c.animation });
				}
			}
		}

		for (const sheet of document.styleSheets) {
			try {
				for (const rule of sheet.cssRules) {
					if (rule.type === CSSRule.KEYFRAMES_RULE) {
						keyframes.push({
							name: rule.name,
							rules: Array.from(rule.cssRules).map(r => r.cssText)
						});
					}
				}
			} catch (err) {
				// Cross-origin sheet.
			}
		}

		return JSON.stringify({
			transitions: [...transitions],
			keyframes: keyframes,
			animatedElements: animated
		});
	}`)
	if err != nil {
		return nil, err
	}
	var motion Motion
	if err := json.Unmarshal(data, &motion); err != nil {
		return nil, err
	}
	return &motion, nil
}
