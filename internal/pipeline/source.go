package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackzampolin/ocrpipe/internal/ocr"
	"github.com/jackzampolin/ocrpipe/internal/raster"
)

// ErrNoUnits is returned when a source discovers zero work units.
// Zero units is a fatal pre-flight condition, not an empty run.
var ErrNoUnits = errors.New("no matching files found")

// imageExtensions is the allow-list of image file extensions
// (case-insensitive). PDFs are excluded: they go through the pdf pipeline.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
}

// DirectoryUnits enumerates images in dir (non-recursive) as work units.
// An optional glob pattern is applied first, then the extension allow-list
// narrows again: a pattern matching only non-image files yields ErrNoUnits.
// Unit order is the directory enumeration order; identity is the 1-based
// enumeration index. Each unit writes to <outputDir>/<stem>_ocr.txt.
func DirectoryUnits(dir, pattern, outputDir string, params Params) ([]WorkUnit, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("directory not found: %s", dir)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var units []WorkUnit
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()

		if pattern != "" && pattern != "*.*" {
			matched, err := filepath.Match(pattern, name)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
			}
			if !matched {
				continue
			}
		}

		if !imageExtensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}

		stem := strings.TrimSuffix(name, filepath.Ext(name))
		units = append(units, WorkUnit{
			Number: len(units) + 1,
			Request: ocr.Request{
				ImagePath:   filepath.Join(dir, name),
				Model:       params.Model,
				MaxTokens:   params.MaxTokens,
				Temperature: params.Temperature,
				Prompt:      params.Prompt,
				OutputPath:  filepath.Join(outputDir, stem+"_ocr.txt"),
			},
		})
	}

	if len(units) == 0 {
		return nil, fmt.Errorf("%w: pattern %q in %s", ErrNoUnits, pattern, dir)
	}
	return units, nil
}

// PDFUnits converts rendered pages into work units. Page identity comes
// from the raster stage's structured page numbers, never from filename
// parsing. Each unit writes to <outputDir>/page_<n>.md.
func PDFUnits(pages []raster.Page, outputDir string, params Params) []WorkUnit {
	units := make([]WorkUnit, 0, len(pages))
	for _, page := range pages {
		units = append(units, WorkUnit{
			Number: page.Number,
			Request: ocr.Request{
				ImagePath:   page.Path,
				Model:       params.Model,
				MaxTokens:   params.MaxTokens,
				Temperature: params.Temperature,
				Prompt:      params.Prompt,
				OutputPath:  filepath.Join(outputDir, fmt.Sprintf("page_%d.md", page.Number)),
			},
		})
	}
	return units
}
