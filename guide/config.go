package guide

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config describes one extraction run. A run is a pure function from
// (URL, viewport, output path) to a directory of files; nothing is shared
// across runs.
type Config struct {
	URL       string `yaml:"url"`
	OutputDir string `yaml:"output"`

	ViewportWidth  int `yaml:"viewport_width"`
	ViewportHeight int `yaml:"viewport_height"`

	// NavTimeout bounds navigation and load completion.
	NavTimeout time.Duration `yaml:"nav_timeout"`

	// ShotTimeout bounds each individual screenshot operation.
	ShotTimeout time.Duration `yaml:"shot_timeout"`

	// SettleDelay is extra wait after load before the first capture.
	SettleDelay time.Duration `yaml:"settle_delay"`

	// MaxScrolls caps the scroll-capture loop.
	MaxScrolls int `yaml:"max_scrolls"`

	// RemoteBrowser is the WebSocket URL of an external Chrome; empty
	// launches a local one.
	RemoteBrowser string `yaml:"remote_browser"`
}

// Defaults fills unset fields.
func (c *Config) Defaults() {
	if c.OutputDir == "" {
		c.OutputDir = "./output"
	}
	if c.ViewportWidth <= 0 {
		c.ViewportWidth = 1600
	}
	if c.ViewportHeight <= 0 {
		c.ViewportHeight = 1200
	}
	if c.NavTimeout <= 0 {
		c.NavTimeout = 30 * time.Second
	}
	if c.ShotTimeout <= 0 {
		c.ShotTimeout = 15 * time.Second
	}
	if c.SettleDelay < 0 {
		c.SettleDelay = 0
	} else if c.SettleDelay == 0 {
		c.SettleDelay = 2 * time.Second
	}
	if c.MaxScrolls <= 0 {
		c.MaxScrolls = 30
	}
}

// Validate rejects configurations that cannot produce a run.
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("guide: url is required")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("guide: invalid url %q: %w", c.URL, err)
	}
	switch u.Scheme {
	case "http", "https", "file":
	default:
		return fmt.Errorf("guide: unsupported url scheme %q", u.Scheme)
	}
	if c.ViewportWidth <= 0 || c.ViewportHeight <= 0 {
		return fmt.Errorf("guide: viewport must be positive, got %dx%d",
			c.ViewportWidth, c.ViewportHeight)
	}
	return nil
}

// LoadConfigFile reads a YAML configuration file and applies defaults.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("guide: read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("guide: parse config: %w", err)
	}
	cfg.Defaults()
	return &cfg, nil
}
