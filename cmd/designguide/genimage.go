package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pagelens/designguide/genimage"
)

// NewGenimageCmd creates the genimage command.
func NewGenimageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "genimage",
		Short: "Generate a placeholder image for a design mockup",
		Long: fmt.Sprintf(`Genimage renders an image through the Gemini Imagen API, for filling
image slots in a recreated design. Requires %s in the environment
(a .env file in the working directory is loaded automatically).

Styles: %s
Themes: %s

Examples:
  designguide genimage -p "a lighthouse at dusk" -o hero.png
  designguide genimage -p "mountain valley" -s horizontal -t ghibli -o banner.png`,
			genimage.EnvAPIKey,
			strings.Join(genimage.StyleNames(), ", "),
			strings.Join(genimage.ThemeNames(), ", ")),
		RunE: runGenimageCmd,
	}

	cmd.Flags().StringP("prompt", "p", "", "Text description of the image to generate")
	cmd.Flags().StringP("style", "s", "square", "Image aspect ratio style")
	cmd.Flags().StringP("theme", "t", "", "Visual theme applied to the prompt")
	cmd.Flags().StringP("output", "o", "image.png", "Output PNG path")
	cmd.Flags().String("model", "", "Imagen model name (default "+genimage.DefaultModel+")")
	_ = cmd.MarkFlagRequired("prompt")

	return cmd
}

func runGenimageCmd(cmd *cobra.Command, _ []string) error {
	prompt, _ := cmd.Flags().GetString("prompt")
	style, _ := cmd.Flags().GetString("style")
	theme, _ := cmd.Flags().GetString("theme")
	output, _ := cmd.Flags().GetString("output")
	model, _ := cmd.Flags().GetString("model")

	logger := newLogger(cmd)
	gen, err := genimage.New(cmd.Context(), model, logger)
	if err != nil {
		return err
	}

	sent, err := gen.Generate(cmd.Context(), genimage.Request{
		Prompt: prompt,
		Style:  style,
		Theme:  theme,
		Output: output,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Image written to %s\n", output)
	if sent != prompt {
		fmt.Fprintf(cmd.OutOrStdout(), "  prompt: %s\n", sent)
	}
	return nil
}
