package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pagelens/designguide/imagediff"
)

// NewCompareCmd creates the compare command.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <reference.png> <candidate.png>",
		Short: "Compare a recreation screenshot against the original",
		Long: `Compare diffs two PNG screenshots pixel by pixel and reports the
fraction of differing pixels plus a coarse perceptual-hash distance. The
command exits non-zero when the difference exceeds the threshold, so it
can gate a recreation in CI.

The candidate is scaled to the reference's dimensions when they differ.

Examples:
  designguide compare original.png recreation.png
  designguide compare original.png recreation.png --threshold 0.05
  designguide compare original.png recreation.png --json`,
		Args: cobra.ExactArgs(2),
		RunE: runCompareCmd,
	}

	cmd.Flags().Float64P("threshold", "t", imagediff.DefaultThreshold,
		"Maximum differing-pixel fraction still counted as a match")
	cmd.Flags().BoolP("json", "j", false, "Output the comparison result as JSON")

	return cmd
}

func runCompareCmd(cmd *cobra.Command, args []string) error {
	threshold, _ := cmd.Flags().GetFloat64("threshold")
	asJSON, _ := cmd.Flags().GetBool("json")

	res, err := imagediff.CompareFiles(args[0], args[1], threshold)
	if err != nil {
		return err
	}

	if asJSON {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Dimensions:    %dx%d\n", res.Width, res.Height)
		if res.Resized {
			fmt.Fprintln(cmd.OutOrStdout(), "Note:          candidate was resized to match")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Diff pixels:   %d / %d (%.2f%%)\n",
			res.DiffPixels, res.TotalPixels, res.DiffRatio*100)
		fmt.Fprintf(cmd.OutOrStdout(), "Hash distance: %d / 64\n", res.HashDistance)
		if res.Match {
			fmt.Fprintf(cmd.OutOrStdout(), "Match (threshold %.2f%%)\n", res.Threshold*100)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "No match (threshold %.2f%%)\n", res.Threshold*100)
		}
	}

	if !res.Match {
		return fmt.Errorf("images differ by %.2f%%, above the %.2f%% threshold",
			res.DiffRatio*100, res.Threshold*100)
	}
	return nil
}
