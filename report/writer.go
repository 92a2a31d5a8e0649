package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pagelens/designguide/capture"
)

// Artifact file names inside the output directory.
const (
	FileFullPage       = "fullpage_screenshot.png"
	FileExtractedHTML  = "extracted.html"
	FileExtractedCSS   = "extracted.css"
	FileComputedStyles = "computed_styles.json"
	FileDesignData     = "design_data.json"
	FileGuide          = "design-guide.md"
	FileHover          = "interactive_hover.png"
)

// ViewportFile names the nth scroll screenshot.
func ViewportFile(n int) string {
	return fmt.Sprintf("viewport_screenshot_%d.png", n)
}

// ResponsiveFile names the screenshot taken at a responsive breakpoint.
func ResponsiveFile(name string) string {
	return fmt.Sprintf("responsive_%s.png", name)
}

// Writer persists run artifacts into one output directory. Each artifact
// is written atomically (temp file, then rename) so a failure mid-artifact
// never leaves a corrupt file, and never touches artifacts already on disk.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter creates the output directory if needed.
func NewWriter(dir string, logger *slog.Logger) (*Writer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &WriteError{Artifact: dir, Cause: err}
	}
	return &Writer{dir: dir, logger: logger}, nil
}

// Dir returns the output directory path.
func (w *Writer) Dir() string { return w.dir }

// WriteScreenshots persists all frames and returns references at the paths
// the rest of the report will name. Failures are per-file; successfully
// written frames keep their references.
func (w *Writer) WriteScreenshots(frames []capture.Frame) ([]ScreenshotRef, error) {
	var refs []ScreenshotRef
	var errs []error

	viewportN := 0
	for _, fr := range frames {
		var name string
		switch fr.Kind {
		case capture.KindFullPage:
			name = FileFullPage
		default:
			name = ViewportFile(viewportN)
			viewportN++
		}

		if err := w.writeFile(name, fr.PNG); err != nil {
			errs = append(errs, err)
			continue
		}
		refs = append(refs, ScreenshotRef{File: name, Kind: fr.Kind, Offset: fr.Offset})
	}

	return refs, errors.Join(errs...)
}

// WriteImage persists a single named PNG, such as the hover-state shot or
// a responsive breakpoint screenshot.
func (w *Writer) WriteImage(name string, png []byte) error {
	return w.writeFile(name, png)
}

// WriteArtifacts persists the non-screenshot artifacts. Each failure is
// reported per-artifact; writing continues so a single bad artifact does
// not suppress the rest.
func (w *Writer) WriteArtifacts(in Input) error {
	var errs []error

	if err := w.writeFile(FileExtractedHTML, []byte(in.Extraction.HTML)); err != nil {
		errs = append(errs, err)
	}
	if err := w.writeFile(FileExtractedCSS, []byte(in.Extraction.CSS)); err != nil {
		errs = append(errs, err)
	}

	if data, err := marshalComputedStyles(in.Extraction.Elements); err != nil {
		errs = append(errs, &WriteError{Artifact: FileComputedStyles, Cause: err})
	} else if err := w.writeFile(FileComputedStyles, data); err != nil {
		errs = append(errs, err)
	}

	if data, err := marshalDesignData(in); err != nil {
		errs = append(errs, &WriteError{Artifact: FileDesignData, Cause: err})
	} else if err := w.writeFile(FileDesignData, data); err != nil {
		errs = append(errs, err)
	}

	if guide, err := renderGuide(in); err != nil {
		errs = append(errs, &WriteError{Artifact: FileGuide, Cause: err})
	} else if err := w.writeFile(FileGuide, guide); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// writeFile writes one artifact atomically.
func (w *Writer) writeFile(name string, data []byte) error {
	final := filepath.Join(w.dir, name)

	tmp, err := os.CreateTemp(w.dir, name+".tmp*")
	if err != nil {
		return &WriteError{Artifact: name, Cause: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &WriteError{Artifact: name, Cause: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &WriteError{Artifact: name, Cause: err}
	}
	if err := os.Rename(tmpName, final); err != nil {
		os.Remove(tmpName)
		return &WriteError{Artifact: name, Cause: err}
	}

	w.logger.Debug("report: artifact written", "file", name, "bytes", len(data))
	return nil
}

func marshalDesignData(in Input) ([]byte, error) {
	data := designData{
		URL: in.URL,
		Viewport: viewportData{
			Width:  in.ViewportWidth,
			Height: in.ViewportHeight,
		},
		Generated:   in.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		Screenshot:  in.Screenshots,
		Elements:    in.Extraction.Elements,
		Sweep:       in.Extraction.Sweep,
		Components:  in.Extraction.Components,
		Motion:      in.Extraction.Motion,
		Interactive: in.Extraction.Interactive,
		Responsive:  in.Responsive,
		Tokens:      in.Tokens,
	}
	return json.MarshalIndent(data, "", "  ")
}
