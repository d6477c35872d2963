// Package raster renders PDF pages to PNG images using pdftoppm
// (poppler-utils). Page identity is carried as structured data: Render
// returns an ordered list of (page number, path) pairs so downstream
// code never re-derives ordering from filenames.
package raster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/sync/errgroup"
)

// Tool is the rasterization binary expected on PATH.
const Tool = "pdftoppm"

// DefaultDPI is the render resolution.
const DefaultDPI = 300

// ErrNoPages is returned when a PDF yields zero pages.
var ErrNoPages = errors.New("no pages in PDF")

// Page is one rendered page.
type Page struct {
	// Number is the 1-based page number within the PDF.
	Number int

	// Path is the rendered PNG on disk.
	Path string
}

// CheckTool verifies pdftoppm is installed. Called pre-flight so a
// missing collaborator aborts the pipeline before any work.
func CheckTool() error {
	if _, err := exec.LookPath(Tool); err != nil {
		return fmt.Errorf("%s not installed (install poppler)", Tool)
	}
	return nil
}

// PageCount returns the number of pages in the PDF, validating it in
// the process.
func PageCount(pdfPath string) (int, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	count, err := api.PageCount(f, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to read PDF %s: %w", filepath.Base(pdfPath), err)
	}
	return count, nil
}

// Render rasterizes every page of the PDF into outDir at the given DPI
// and returns pages in ascending page order. Pages render concurrently
// (bounded by CPU count); any page failure fails the whole render, since
// rasterization is a fatal pipeline stage.
func Render(ctx context.Context, pdfPath, outDir string, dpi int, logger *slog.Logger) ([]Page, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	pageCount, err := PageCount(pdfPath)
	if err != nil {
		return nil, err
	}
	if pageCount == 0 {
		return nil, ErrNoPages
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create raster directory: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	logger.Debug("rendering PDF", "file", filepath.Base(pdfPath), "pages", pageCount, "dpi", dpi)

	pages := make([]Page, pageCount)

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.NumCPU())

	for page := 1; page <= pageCount; page++ {
		pageNum := page
		eg.Go(func() error {
			path, err := renderPage(gctx, pdfPath, outDir, stem, pageNum, dpi)
			if err != nil {
				return fmt.Errorf("failed to render page %d: %w", pageNum, err)
			}
			pages[pageNum-1] = Page{Number: pageNum, Path: path}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	logger.Debug("rendered pages", "count", pageCount)
	return pages, nil
}

// renderPage renders a single page to <outDir>/<stem>-<page>.png.
func renderPage(ctx context.Context, pdfPath, outDir, stem string, pageNum, dpi int) (string, error) {
	// -singlefile writes exactly <prefix>.png with no page suffix, so
	// the output name encodes the page number we assign here.
	prefix := filepath.Join(outDir, fmt.Sprintf("%s-%d", stem, pageNum))
	pageStr := fmt.Sprintf("%d", pageNum)

	cmd := exec.CommandContext(ctx, Tool,
		"-png",
		"-f", pageStr,
		"-l", pageStr,
		"-r", fmt.Sprintf("%d", dpi),
		"-singlefile",
		pdfPath,
		prefix,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s failed: %w (output: %s)", Tool, err, strings.TrimSpace(string(output)))
	}

	path := prefix + ".png"
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%s did not create expected output: %w", Tool, err)
	}
	return path, nil
}
