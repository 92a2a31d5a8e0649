package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pagelens/designguide/guide"
)

// NewScreenshotCmd creates the screenshot command.
func NewScreenshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "screenshot <url>",
		Short: "Capture a single viewport screenshot of a page",
		Long: `Screenshot loads the URL in a headless browser, waits for the page to
settle, and writes one viewport-sized PNG. Use it to spot-check a page
before a full extraction, or to capture a recreation attempt for
'designguide compare'.

Examples:
  designguide screenshot https://example.com -o example.png
  designguide screenshot https://example.com --viewport-width 1280 --viewport-height 800`,
		Args: cobra.ExactArgs(1),
		RunE: runScreenshotCmd,
	}

	cmd.Flags().StringP("output", "o", "screenshot.png", "Output PNG path")
	cmd.Flags().Int("viewport-width", 0, "Viewport width in pixels (default 1600)")
	cmd.Flags().Int("viewport-height", 0, "Viewport height in pixels (default 1200)")
	cmd.Flags().Duration("nav-timeout", 0, "Navigation timeout (default 30s)")
	cmd.Flags().Duration("settle", 0, "Extra wait after load before capturing (default 2s)")
	cmd.Flags().String("remote-browser", "", "WebSocket URL of an external Chrome")

	return cmd
}

func runScreenshotCmd(cmd *cobra.Command, args []string) error {
	cfg := guide.Config{URL: args[0]}
	if v, _ := cmd.Flags().GetInt("viewport-width"); v > 0 {
		cfg.ViewportWidth = v
	}
	if v, _ := cmd.Flags().GetInt("viewport-height"); v > 0 {
		cfg.ViewportHeight = v
	}
	if v, _ := cmd.Flags().GetDuration("nav-timeout"); v > 0 {
		cfg.NavTimeout = v
	}
	if v, _ := cmd.Flags().GetDuration("settle"); v > 0 {
		cfg.SettleDelay = v
	}
	if v, _ := cmd.Flags().GetString("remote-browser"); v != "" {
		cfg.RemoteBrowser = v
	}

	logger := newLogger(cmd)
	png, err := guide.Screenshot(cmd.Context(), cfg, logger)
	if err != nil {
		return fmt.Errorf("%s: %w", failedStage(err), err)
	}

	out, _ := cmd.Flags().GetString("output")
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(out, png, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Screenshot written to %s (%d bytes)\n", out, len(png))
	return nil
}
