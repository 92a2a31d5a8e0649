package extract

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// fakeDOM replays canned JSON per script. Scripts are matched on a
// distinctive substring.
type fakeDOM struct {
	html       string
	candidates string
	css        string
	sweep      string
	components string
	motion     string
	failAll    bool
}

func (f *fakeDOM) HTML(ctx context.Context) (string, error) {
	if f.failAll {
		return "", errors.New("dom gone")
	}
	return f.html, nil
}

func (f *fakeDOM) EvalJSON(ctx context.Context, js string) ([]byte, error) {
	if f.failAll {
		return nil, errors.New("dom gone")
	}
	switch {
	case strings.Contains(js, "componentSamples"):
		if f.components == "" {
			return []byte("[]"), nil
		}
		return []byte(f.components), nil
	case strings.Contains(js, "KEYFRAMES_RULE"):
		if f.motion == "" {
			return []byte("{}"), nil
		}
		return []byte(f.motion), nil
	case strings.Contains(js, "candidates"):
		return []byte(f.candidates), nil
	case strings.Contains(js, "styleSheets"):
		return []byte(f.css), nil
	default:
		return []byte(f.sweep), nil
	}
}

func payloadJSON(t *testing.T, p candidatePayload) string {
	t.Helper()
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return string(b)
}

func strPtr(s string) *string { return &s }

func fullStyles() map[string]*string {
	m := make(map[string]*string, len(StyleChecklist))
	for _, prop := range StyleChecklist {
		m[prop] = strPtr("value-of-" + prop)
	}
	m["box-shadow"] = strPtr("none")
	m["transform"] = strPtr("")
	return m
}

func TestExtract_ChecklistCompleteness(t *testing.T) {
	styles := fullStyles()
	delete(styles, "transition") // unresolved: must land in Missing

	dom := &fakeDOM{
		html: "<html></html>",
		candidates: payloadJSON(t, candidatePayload{
			ViewportHeight: 900,
			Candidates: []rawCandidate{
				{Tag: "nav", Top: 0, Height: 60, Outer: "<nav></nav>", Styles: styles},
			},
		}),
		css:   `"body { color: red }"`,
		sweep: `{"textColors":["rgb(0, 0, 0)"]}`,
	}

	ex, err := New(nil).Extract(context.Background(), dom)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ex.Elements) != 1 {
		t.Fatalf("expected 1 element, got %d", len(ex.Elements))
	}

	el := ex.Elements[0]
	if el.Role != RoleNavigation {
		t.Errorf("role = %s, want navigation", el.Role)
	}

	// Resolved values are kept verbatim, "none" and "" included.
	if got := el.Styles["box-shadow"]; got != "none" {
		t.Errorf(`box-shadow = %q, want "none"`, got)
	}
	if got, ok := el.Styles["transform"]; !ok || got != "" {
		t.Errorf(`transform = %q (present=%v), want present and empty`, got, ok)
	}

	// The unresolved property is absent from Styles and named in Missing.
	if _, ok := el.Styles["transition"]; ok {
		t.Error("transition should not be in Styles")
	}
	found := false
	for _, m := range el.Missing {
		if m == "transition" {
			found = true
		}
	}
	if !found {
		t.Errorf("Missing = %v, want to contain transition", el.Missing)
	}

	// Every checklist property is accounted for, one way or the other.
	if len(el.Styles)+len(el.Missing) != len(StyleChecklist) {
		t.Errorf("styles(%d) + missing(%d) != checklist(%d)",
			len(el.Styles), len(el.Missing), len(StyleChecklist))
	}
}

func TestExtract_FailedCandidateSkipped(t *testing.T) {
	dom := &fakeDOM{
		html: "<html></html>",
		candidates: payloadJSON(t, candidatePayload{
			ViewportHeight: 900,
			Candidates: []rawCandidate{
				{Tag: "nav", Outer: "<nav></nav>", Styles: fullStyles()},
				{Tag: "div", Failed: true, FailMsg: "detached node"},
				{Tag: "footer", Outer: "<footer></footer>", Styles: fullStyles()},
			},
		}),
		css:   `""`,
		sweep: `{}`,
	}

	ex, err := New(nil).Extract(context.Background(), dom)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ex.Elements) != 2 {
		t.Fatalf("expected failed element skipped, got %d elements", len(ex.Elements))
	}
	if ex.Elements[0].Role != RoleNavigation || ex.Elements[1].Role != RoleFooter {
		t.Errorf("roles = %s, %s; want navigation, footer",
			ex.Elements[0].Role, ex.Elements[1].Role)
	}
}

func TestExtract_ComponentsAndMotion(t *testing.T) {
	dom := &fakeDOM{
		html: "<html></html>",
		candidates: payloadJSON(t, candidatePayload{
			ViewportHeight: 900,
			Candidates: []rawCandidate{
				{Tag: "nav", Outer: "<nav></nav>", Styles: fullStyles()},
			},
		}),
		css:   `""`,
		sweep: `{}`,
		components: `[
			{"kind":"button","tag":"button","text":"Sign up",
			 "styles":{"background-color":"rgb(0, 100, 255)","border-radius":"6px"}},
			{"kind":"navbar","tag":"nav",
			 "styles":{"position":"sticky","background-color":"rgb(255, 255, 255)"}}
		]`,
		motion: `{
			"transitions":["color 0.2s ease 0s"],
			"keyframes":[{"name":"pulse","rules":["0% { opacity: 1; }","100% { opacity: 0.5; }"]}],
			"animatedElements":[{"selector":"div.spinner","animation":"pulse 2s infinite"}]
		}`,
	}

	ex, err := New(nil).Extract(context.Background(), dom)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ex.Components) != 2 {
		t.Fatalf("components = %d, want 2", len(ex.Components))
	}
	if ex.Components[0].Kind != ComponentButton || ex.Components[0].Text != "Sign up" {
		t.Errorf("first component = %+v", ex.Components[0])
	}
	if ex.Components[1].Kind != ComponentNavbar {
		t.Errorf("second component kind = %s, want navbar", ex.Components[1].Kind)
	}

	if len(ex.Motion.Transitions) != 1 {
		t.Errorf("transitions = %v", ex.Motion.Transitions)
	}
	if len(ex.Motion.Keyframes) != 1 || ex.Motion.Keyframes[0].Name != "pulse" {
		t.Errorf("keyframes = %+v", ex.Motion.Keyframes)
	}
	if len(ex.Motion.Animated) != 1 || ex.Motion.Animated[0].Selector != "div.spinner" {
		t.Errorf("animated = %+v", ex.Motion.Animated)
	}
}

func TestExtract_ComponentFailureIsNotFatal(t *testing.T) {
	dom := &fakeDOM{
		html: "<html></html>",
		candidates: payloadJSON(t, candidatePayload{
			ViewportHeight: 900,
			Candidates: []rawCandidate{
				{Tag: "footer", Outer: "<footer></footer>", Styles: fullStyles()},
			},
		}),
		css:        `""`,
		sweep:      `{}`,
		components: `not json`,
		motion:     `also not json`,
	}

	ex, err := New(nil).Extract(context.Background(), dom)
	if err != nil {
		t.Fatalf("component decode failure must not fail the pass: %v", err)
	}
	if len(ex.Elements) != 1 {
		t.Errorf("elements = %d, want 1", len(ex.Elements))
	}
	if len(ex.Components) != 0 {
		t.Errorf("components = %+v, want none", ex.Components)
	}
}

func TestExtract_DOMFailureIsExtractionError(t *testing.T) {
	_, err := New(nil).Extract(context.Background(), &fakeDOM{failAll: true})
	if err == nil {
		t.Fatal("expected error")
	}
	var ee *ExtractionError
	if !errors.As(err, &ee) {
		t.Fatalf("expected *ExtractionError, got %T", err)
	}
}
