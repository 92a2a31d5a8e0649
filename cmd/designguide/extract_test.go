package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pagelens/designguide/browser"
	"github.com/pagelens/designguide/capture"
	"github.com/pagelens/designguide/extract"
	"github.com/pagelens/designguide/report"
)

func TestNewExtractCmd(t *testing.T) {
	t.Parallel()

	cmd := NewExtractCmd()

	if cmd.Use != "extract <url>" {
		t.Errorf("unexpected Use: got %q", cmd.Use)
	}

	flagsWithShort := map[string]string{
		"output": "o",
		"config": "c",
	}
	for flag, shorthand := range flagsWithShort {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			t.Errorf("expected flag %q to exist", flag)
			continue
		}
		if f.Shorthand != shorthand {
			t.Errorf("flag %q: expected shorthand %q, got %q", flag, shorthand, f.Shorthand)
		}
	}
	for _, flag := range []string{"viewport-width", "viewport-height", "nav-timeout",
		"shot-timeout", "settle", "max-scrolls", "remote-browser"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected flag %q to exist", flag)
		}
	}
}

func TestExtractConfig_FlagsOverrideConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "dg.yaml")
	yaml := "output: ./from-file\nviewport_width: 1024\nmax_scrolls: 5\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := NewExtractCmd()
	if err := cmd.Flags().Set("config", path); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Flags().Set("viewport-width", "1280"); err != nil {
		t.Fatal(err)
	}

	cfg, err := extractConfig(cmd, "https://example.com")
	if err != nil {
		t.Fatalf("extractConfig: %v", err)
	}
	if cfg.URL != "https://example.com" {
		t.Errorf("url = %q", cfg.URL)
	}
	if cfg.OutputDir != "./from-file" {
		t.Errorf("output = %q, want value from config file", cfg.OutputDir)
	}
	if cfg.ViewportWidth != 1280 {
		t.Errorf("viewport width = %d, want flag override 1280", cfg.ViewportWidth)
	}
	if cfg.MaxScrolls != 5 {
		t.Errorf("max scrolls = %d, want value from config file", cfg.MaxScrolls)
	}
	if cfg.NavTimeout != 30*time.Second {
		t.Errorf("nav timeout = %v, want default", cfg.NavTimeout)
	}
}

func TestExtractConfig_MissingConfigFile(t *testing.T) {
	t.Parallel()

	cmd := NewExtractCmd()
	if err := cmd.Flags().Set("config", filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
		t.Fatal(err)
	}
	if _, err := extractConfig(cmd, "https://example.com"); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestFailedStage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "navigation",
			err:  &browser.NavigationError{URL: "https://x", Status: 503},
			want: "navigation failed",
		},
		{
			name: "capture",
			err:  &capture.CaptureError{Op: "screenshot", Cause: errors.New("timeout")},
			want: "capture failed",
		},
		{
			name: "extraction",
			err:  &extract.ExtractionError{Op: "candidates", Cause: errors.New("eval")},
			want: "extraction failed",
		},
		{
			name: "report",
			err:  &report.WriteError{Artifact: "design-guide.md", Cause: errors.New("disk")},
			want: "report failed",
		},
		{
			name: "wrapped capture error wins over generic",
			err:  errors.Join(errors.New("other"), &capture.CaptureError{Op: "scroll", Cause: errors.New("x")}),
			want: "capture failed",
		},
		{
			name: "unknown",
			err:  errors.New("mystery"),
			want: "extract failed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := failedStage(tt.err); got != tt.want {
				t.Errorf("failedStage() = %q, want %q", got, tt.want)
			}
		})
	}
}
