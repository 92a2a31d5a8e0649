// Package genimage produces illustrative images for design mockups through
// the Gemini Imagen API. Prompts can be enhanced with a named visual theme
// and rendered at one of three aspect ratios.
package genimage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is the Imagen model used when none is configured.
const DefaultModel = "imagen-4.0-generate-001"

// EnvAPIKey names the environment variable holding the Gemini API key.
const EnvAPIKey = "GEMINI_API_KEY"

// Styles maps a style name to the Imagen aspect ratio it renders at.
var Styles = map[string]string{
	"vertical":   "3:4",
	"horizontal": "4:3",
	"square":     "1:1",
}

// Themes maps a theme name to the prompt fragment appended when the theme
// is selected.
var Themes = map[string]string{
	"ghibli":        "in the style of Studio Ghibli animation, whimsical and dreamlike with soft colors and hand-drawn aesthetic",
	"futuristic":    "in a futuristic sci-fi style with sleek designs, neon lights, and advanced technology",
	"pixar":         "in Pixar animation style with vibrant colors, expressive characters, and polished 3D rendering",
	"oil-paint":     "as an oil painting with rich textures, visible brushstrokes, and classical artistic composition",
	"chinese-paint": "in traditional Chinese ink painting style with delicate brushwork, minimalist composition, and ethereal atmosphere",
}

// StyleNames returns the known style names sorted for stable help output.
func StyleNames() []string {
	names := make([]string, 0, len(Styles))
	for name := range Styles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ThemeNames returns the known theme names sorted for stable help output.
func ThemeNames() []string {
	names := make([]string, 0, len(Themes))
	for name := range Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EnhancePrompt appends the theme fragment to the prompt. An empty or
// unknown theme leaves the prompt unchanged.
func EnhancePrompt(prompt, theme string) string {
	if fragment, ok := Themes[theme]; ok {
		return prompt + ", " + fragment
	}
	return prompt
}

// GenerateError reports a failed image generation.
type GenerateError struct {
	Model string
	Cause error
}

func (e *GenerateError) Error() string {
	return fmt.Sprintf("genimage: GenerateError: model %s: %v", e.Model, e.Cause)
}

func (e *GenerateError) Unwrap() error { return e.Cause }

// imageModel is the slice of the Gemini client the generator needs.
type imageModel interface {
	GenerateImages(ctx context.Context, model string, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
}

// Request describes one image to generate.
type Request struct {
	Prompt string
	Style  string
	Theme  string
	Output string
}

func (r *Request) validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return fmt.Errorf("genimage: prompt is required")
	}
	if _, ok := Styles[r.Style]; !ok {
		return fmt.Errorf("genimage: unknown style %q, expected one of %s", r.Style, strings.Join(StyleNames(), ", "))
	}
	if r.Theme != "" {
		if _, ok := Themes[r.Theme]; !ok {
			return fmt.Errorf("genimage: unknown theme %q, expected one of %s", r.Theme, strings.Join(ThemeNames(), ", "))
		}
	}
	if r.Output == "" {
		return fmt.Errorf("genimage: output path is required")
	}
	return nil
}

// Generator renders images and writes them to disk.
type Generator struct {
	model  imageModel
	name   string
	logger *slog.Logger
}

// New builds a Generator backed by the Gemini API. The key is read from
// GEMINI_API_KEY.
func New(ctx context.Context, model string, logger *slog.Logger) (*Generator, error) {
	apiKey := os.Getenv(EnvAPIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("genimage: %s environment variable not set", EnvAPIKey)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("genimage: create client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{model: client.Models, name: model, logger: logger}, nil
}

// Generate renders one image for the request and writes the PNG to
// req.Output, creating parent directories as needed. It returns the
// enhanced prompt that was sent to the model.
func (g *Generator) Generate(ctx context.Context, req Request) (string, error) {
	if err := req.validate(); err != nil {
		return "", err
	}

	prompt := EnhancePrompt(req.Prompt, req.Theme)
	ratio := Styles[req.Style]

	g.logger.Info("genimage: generating image",
		"model", g.name, "style", req.Style, "aspect_ratio", ratio, "theme", req.Theme)

	resp, err := g.model.GenerateImages(ctx, g.name, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    ratio,
	})
	if err != nil {
		return prompt, &GenerateError{Model: g.name, Cause: err}
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return prompt, &GenerateError{Model: g.name, Cause: fmt.Errorf("no image data in response")}
	}

	data := resp.GeneratedImages[0].Image.ImageBytes
	if err := writeImage(req.Output, data); err != nil {
		return prompt, err
	}

	g.logger.Info("genimage: image written", "path", req.Output, "bytes", len(data))
	return prompt, nil
}

func writeImage(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("genimage: create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("genimage: write %s: %w", path, err)
	}
	return nil
}
