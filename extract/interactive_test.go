package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// fakeInteractiveDOM replays a target list and per-hover readback results,
// recording every pointer move.
type fakeInteractiveDOM struct {
	targets  string
	hovers   []string
	moves    [][2]float64
	failEval bool
	failMove bool
	hoverIdx int
}

func (f *fakeInteractiveDOM) HTML(ctx context.Context) (string, error) { return "", nil }

func (f *fakeInteractiveDOM) MouseMove(ctx context.Context, x, y float64) error {
	if f.failMove {
		return errors.New("no mouse")
	}
	f.moves = append(f.moves, [2]float64{x, y})
	return nil
}

func (f *fakeInteractiveDOM) EvalJSON(ctx context.Context, js string) ([]byte, error) {
	if f.failEval {
		return nil, errors.New("dom gone")
	}
	if strings.Contains(js, "interactiveTargets") {
		return []byte(f.targets), nil
	}
	if f.hoverIdx < len(f.hovers) {
		out := f.hovers[f.hoverIdx]
		f.hoverIdx++
		return []byte(out), nil
	}
	return []byte("null"), nil
}

func testEngine() *Engine {
	e := New(nil)
	e.hoverSettle = 0
	return e
}

func targetsJSON(t *testing.T, targets []interactiveTarget) string {
	t.Helper()
	b, err := json.Marshal(targets)
	if err != nil {
		t.Fatalf("marshal targets: %v", err)
	}
	return string(b)
}

func TestExtractInteractive_PairsDefaultAndHover(t *testing.T) {
	dom := &fakeInteractiveDOM{
		targets: targetsJSON(t, []interactiveTarget{
			{Selector: "a.cta", X: 100, Y: 40, Default: map[string]string{
				"background-color": "rgb(0, 100, 255)",
			}},
		}),
		hovers: []string{`{"background-color":"rgb(0, 80, 200)"}`},
	}

	states, err := testEngine().ExtractInteractive(context.Background(), dom)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(states) != 1 {
		t.Fatalf("states = %d, want 1", len(states))
	}
	st := states[0]
	if st.Selector != "a.cta" {
		t.Errorf("selector = %q", st.Selector)
	}
	if st.Default["background-color"] != "rgb(0, 100, 255)" {
		t.Errorf("default = %v", st.Default)
	}
	if st.Hover["background-color"] != "rgb(0, 80, 200)" {
		t.Errorf("hover = %v", st.Hover)
	}
	if len(dom.moves) != 1 || dom.moves[0] != [2]float64{100, 40} {
		t.Errorf("moves = %v, want pointer at element center", dom.moves)
	}
}

func TestExtractInteractive_SampleCap(t *testing.T) {
	var targets []interactiveTarget
	var hovers []string
	for i := 0; i < 25; i++ {
		targets = append(targets, interactiveTarget{
			Selector: fmt.Sprintf("a#link%d", i),
			X:        float64(i), Y: 10,
			Default: map[string]string{"color": "rgb(0, 0, 0)"},
		})
		hovers = append(hovers, `{"color":"rgb(50, 50, 50)"}`)
	}
	dom := &fakeInteractiveDOM{targets: targetsJSON(t, targets), hovers: hovers}

	states, err := testEngine().ExtractInteractive(context.Background(), dom)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(states) != 10 {
		t.Errorf("states = %d, want hover cap of 10", len(states))
	}
	if len(dom.moves) != 10 {
		t.Errorf("moves = %d, want 10", len(dom.moves))
	}
}

func TestExtractInteractive_NullReadbackSkipped(t *testing.T) {
	dom := &fakeInteractiveDOM{
		targets: targetsJSON(t, []interactiveTarget{
			{Selector: "button#a", X: 10, Y: 10, Default: map[string]string{}},
			{Selector: "button#b", X: 20, Y: 10, Default: map[string]string{}},
		}),
		hovers: []string{`null`, `{"opacity":"0.8"}`},
	}

	states, err := testEngine().ExtractInteractive(context.Background(), dom)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(states) != 1 || states[0].Selector != "button#b" {
		t.Errorf("states = %+v, want only the element still under the pointer", states)
	}
}

func TestExtractInteractive_MoveFailureSkipsElement(t *testing.T) {
	dom := &fakeInteractiveDOM{
		targets: targetsJSON(t, []interactiveTarget{
			{Selector: "a#x", X: 1, Y: 1, Default: map[string]string{}},
		}),
		failMove: true,
	}

	states, err := testEngine().ExtractInteractive(context.Background(), dom)
	if err != nil {
		t.Fatalf("move failures are per-element: %v", err)
	}
	if len(states) != 0 {
		t.Errorf("states = %+v, want none", states)
	}
}

func TestExtractInteractive_CollectFailureIsExtractionError(t *testing.T) {
	_, err := testEngine().ExtractInteractive(context.Background(), &fakeInteractiveDOM{failEval: true})
	var ee *ExtractionError
	if !errors.As(err, &ee) {
		t.Fatalf("expected *ExtractionError, got %v", err)
	}
}
