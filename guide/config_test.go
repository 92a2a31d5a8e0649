package guide

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{URL: "https://example.com"}
	cfg.Defaults()

	if cfg.ViewportWidth != 1600 || cfg.ViewportHeight != 1200 {
		t.Errorf("viewport defaults = %dx%d, want 1600x1200",
			cfg.ViewportWidth, cfg.ViewportHeight)
	}
	if cfg.NavTimeout != 30*time.Second {
		t.Errorf("nav timeout default = %v", cfg.NavTimeout)
	}
	if cfg.MaxScrolls != 30 {
		t.Errorf("max scrolls default = %d", cfg.MaxScrolls)
	}
	if cfg.OutputDir != "./output" {
		t.Errorf("output default = %q", cfg.OutputDir)
	}
}

func TestConfig_DefaultsKeepExplicitValues(t *testing.T) {
	cfg := Config{
		URL:            "https://example.com",
		ViewportWidth:  1200,
		ViewportHeight: 900,
		MaxScrolls:     5,
	}
	cfg.Defaults()

	if cfg.ViewportWidth != 1200 || cfg.ViewportHeight != 900 {
		t.Errorf("explicit viewport overridden: %dx%d", cfg.ViewportWidth, cfg.ViewportHeight)
	}
	if cfg.MaxScrolls != 5 {
		t.Errorf("explicit max scrolls overridden: %d", cfg.MaxScrolls)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid https", Config{URL: "https://example.com", ViewportWidth: 100, ViewportHeight: 100}, false},
		{"valid file", Config{URL: "file:///tmp/index.html", ViewportWidth: 100, ViewportHeight: 100}, false},
		{"empty url", Config{ViewportWidth: 100, ViewportHeight: 100}, true},
		{"bad scheme", Config{URL: "ftp://example.com", ViewportWidth: 100, ViewportHeight: 100}, true},
		{"zero viewport", Config{URL: "https://example.com"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guide.yaml")
	content := `url: https://example.com
output: ./site-design
viewport_width: 1280
max_scrolls: 12
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if cfg.URL != "https://example.com" {
		t.Errorf("url = %q", cfg.URL)
	}
	if cfg.OutputDir != "./site-design" {
		t.Errorf("output = %q", cfg.OutputDir)
	}
	if cfg.ViewportWidth != 1280 {
		t.Errorf("viewport width = %d", cfg.ViewportWidth)
	}
	if cfg.MaxScrolls != 12 {
		t.Errorf("max scrolls = %d", cfg.MaxScrolls)
	}
	// Unset fields got defaults.
	if cfg.ViewportHeight != 1200 {
		t.Errorf("viewport height default = %d", cfg.ViewportHeight)
	}
	if cfg.NavTimeout != 30*time.Second {
		t.Errorf("nav timeout default = %v", cfg.NavTimeout)
	}
}

func TestLoadConfigFile_Missing(t *testing.T) {
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
