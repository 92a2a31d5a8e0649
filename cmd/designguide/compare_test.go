package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestPNG(t *testing.T, path string, c color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestCompareCmd_MatchingImages(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	b := filepath.Join(dir, "b.png")
	writeTestPNG(t, a, color.RGBA{50, 60, 70, 255})
	writeTestPNG(t, b, color.RGBA{50, 60, 70, 255})

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"compare", a, b})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if !strings.Contains(out.String(), "Match") {
		t.Errorf("output %q should report a match", out.String())
	}
}

func TestCompareCmd_DifferentImagesFail(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	b := filepath.Join(dir, "b.png")
	writeTestPNG(t, a, color.RGBA{255, 255, 255, 255})
	writeTestPNG(t, b, color.RGBA{0, 0, 0, 255})

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"compare", a, b})

	if err := cmd.Execute(); err == nil {
		t.Error("expected non-nil error for fully different images")
	}
}

func TestCompareCmd_JSONOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	b := filepath.Join(dir, "b.png")
	writeTestPNG(t, a, color.RGBA{10, 10, 10, 255})
	writeTestPNG(t, b, color.RGBA{10, 10, 10, 255})

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"compare", a, b, "--json"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("compare --json: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(out.Bytes(), &payload); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if match, ok := payload["match"].(bool); !ok || !match {
		t.Errorf("payload match = %v", payload["match"])
	}
}

func TestCompareCmd_MissingFile(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"compare", "no-such-a.png", "no-such-b.png"})

	if err := cmd.Execute(); err == nil {
		t.Error("expected an error for missing input files")
	}
}
