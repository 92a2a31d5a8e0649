package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pagelens/designguide/browser"
	"github.com/pagelens/designguide/capture"
	"github.com/pagelens/designguide/extract"
	"github.com/pagelens/designguide/guide"
	"github.com/pagelens/designguide/report"
)

// NewExtractCmd creates the extract command, the main entry point of the
// tool.
func NewExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <url>",
		Short: "Extract a page's design into screenshots, styles, and a guide",
		Long: `Extract loads the URL in a headless browser, captures viewport
screenshots while scrolling plus a full-page screenshot, extracts landmark
elements with their computed styles, and writes a design report directory.

The output directory contains:
  viewport_screenshot_N.png   numbered scroll captures
  fullpage_screenshot.png     single full-page capture
  extracted.html              raw page HTML
  extracted.css               collected stylesheet text
  computed_styles.json        per-element computed style checklist
  design_data.json            machine-readable extraction summary
  design-guide.md             the markdown design guide
  interactive_hover.png       viewport shot with a hover state active
  responsive_NAME.png         mobile/tablet/desktop breakpoint captures

Examples:
  # Extract with defaults into ./output
  designguide extract https://example.com

  # Custom viewport and output directory
  designguide extract https://example.com -o ./example-design --viewport-width 1280 --viewport-height 800

  # Drive an already-running Chrome
  designguide extract https://example.com --remote-browser ws://127.0.0.1:9222`,
		Args: cobra.ExactArgs(1),
		RunE: runExtractCmd,
	}

	cmd.Flags().StringP("output", "o", "", "Output directory (default ./output)")
	cmd.Flags().StringP("config", "c", "", "YAML config file; flags override its values")
	cmd.Flags().Int("viewport-width", 0, "Viewport width in pixels (default 1600)")
	cmd.Flags().Int("viewport-height", 0, "Viewport height in pixels (default 1200)")
	cmd.Flags().Duration("nav-timeout", 0, "Navigation timeout (default 30s)")
	cmd.Flags().Duration("shot-timeout", 0, "Per-screenshot timeout (default 15s)")
	cmd.Flags().Duration("settle", 0, "Extra wait after load before capturing (default 2s)")
	cmd.Flags().Int("max-scrolls", 0, "Maximum scroll steps (default 30)")
	cmd.Flags().String("remote-browser", "", "WebSocket URL of an external Chrome")

	return cmd
}

func runExtractCmd(cmd *cobra.Command, args []string) error {
	cfg, err := extractConfig(cmd, args[0])
	if err != nil {
		return err
	}
	logger := newLogger(cmd)

	res, err := guide.Run(cmd.Context(), *cfg, logger)
	if err != nil {
		if res != nil && len(res.Screenshots) > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "partial output kept in %s (%d screenshots)\n",
				res.OutputDir, len(res.Screenshots))
		}
		return fmt.Errorf("%s: %w", failedStage(err), err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Design guide written to %s\n", res.OutputDir)
	fmt.Fprintf(cmd.OutOrStdout(), "  screenshots: %d\n", len(res.Screenshots))
	fmt.Fprintf(cmd.OutOrStdout(), "  elements:    %d\n", res.Elements)
	return nil
}

// extractConfig assembles the run configuration: config file first when
// given, then flag values on top.
func extractConfig(cmd *cobra.Command, url string) (*guide.Config, error) {
	cfg := &guide.Config{}
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := guide.LoadConfigFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.URL = url

	if v, _ := cmd.Flags().GetString("output"); v != "" {
		cfg.OutputDir = v
	}
	if v, _ := cmd.Flags().GetInt("viewport-width"); v > 0 {
		cfg.ViewportWidth = v
	}
	if v, _ := cmd.Flags().GetInt("viewport-height"); v > 0 {
		cfg.ViewportHeight = v
	}
	if v, _ := cmd.Flags().GetDuration("nav-timeout"); v > 0 {
		cfg.NavTimeout = v
	}
	if v, _ := cmd.Flags().GetDuration("shot-timeout"); v > 0 {
		cfg.ShotTimeout = v
	}
	if v, _ := cmd.Flags().GetDuration("settle"); v > 0 {
		cfg.SettleDelay = v
	}
	if v, _ := cmd.Flags().GetInt("max-scrolls"); v > 0 {
		cfg.MaxScrolls = v
	}
	if v, _ := cmd.Flags().GetString("remote-browser"); v != "" {
		cfg.RemoteBrowser = v
	}
	cfg.Defaults()
	return cfg, nil
}

// failedStage names the pipeline stage a run died in, so the operator
// knows whether to blame the site, the browser, or the disk.
func failedStage(err error) string {
	var navErr *browser.NavigationError
	if errors.As(err, &navErr) {
		return "navigation failed"
	}
	var capErr *capture.CaptureError
	if errors.As(err, &capErr) {
		return "capture failed"
	}
	var extErr *extract.ExtractionError
	if errors.As(err, &extErr) {
		return "extraction failed"
	}
	var writeErr *report.WriteError
	if errors.As(err, &writeErr) {
		return "report failed"
	}
	return "extract failed"
}
