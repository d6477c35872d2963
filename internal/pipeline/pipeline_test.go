package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackzampolin/ocrpipe/internal/ocr"
	"github.com/jackzampolin/ocrpipe/internal/raster"
)

func TestRunBatch(t *testing.T) {
	ctx := context.Background()
	params := Params{Model: "granite", MaxTokens: 4096}

	t.Run("end to end with failures", func(t *testing.T) {
		inputDir := t.TempDir()
		writeFiles(t, inputDir, "a.png", "b.jpg", "c.txt")
		outputDir := filepath.Join(t.TempDir(), "results")

		runner := ocr.NewMockRunner()
		runner.Fail = map[string]bool{"b.jpg": true}

		summary, err := RunBatch(ctx, runner, BatchRequest{
			InputDir:  inputDir,
			OutputDir: outputDir,
			Pattern:   "*.*",
			Workers:   2,
			Params:    params,
		}, nil)
		if err != nil {
			t.Fatalf("RunBatch() error = %v", err)
		}

		if summary.Processed != 2 {
			t.Errorf("expected 2 processed (c.txt excluded), got %d", summary.Processed)
		}
		if summary.Succeeded != 1 || summary.Failed != 1 {
			t.Errorf("expected 1/1, got %d/%d", summary.Succeeded, summary.Failed)
		}
		if summary.Mode != "batch" {
			t.Errorf("unexpected mode %s", summary.Mode)
		}
		if summary.RunID == "" {
			t.Error("expected a run ID")
		}

		if _, err := os.Stat(filepath.Join(outputDir, "a_ocr.txt")); err != nil {
			t.Error("successful unit output missing")
		}
		if _, err := os.Stat(filepath.Join(outputDir, "b_ocr.txt")); err == nil {
			t.Error("failed unit should not have output")
		}
	})

	t.Run("zero matching units is fatal", func(t *testing.T) {
		inputDir := t.TempDir()
		writeFiles(t, inputDir, "a.png")
		outputDir := filepath.Join(t.TempDir(), "out")

		_, err := RunBatch(ctx, ocr.NewMockRunner(), BatchRequest{
			InputDir:  inputDir,
			OutputDir: outputDir,
			Pattern:   "*.xyz",
			Params:    params,
		}, nil)
		if !errors.Is(err, ErrNoUnits) {
			t.Fatalf("expected ErrNoUnits, got %v", err)
		}
		if _, err := os.Stat(outputDir); !os.IsNotExist(err) {
			t.Error("output dir should not be created for an empty run")
		}
	})

	t.Run("missing input dir leaves no output dir", func(t *testing.T) {
		outputDir := filepath.Join(t.TempDir(), "out")

		_, err := RunBatch(ctx, ocr.NewMockRunner(), BatchRequest{
			InputDir:  filepath.Join(t.TempDir(), "no-such-dir"),
			OutputDir: outputDir,
			Params:    params,
		}, nil)
		if err == nil {
			t.Fatal("expected error for missing input dir")
		}
		if _, err := os.Stat(outputDir); !os.IsNotExist(err) {
			t.Error("output dir should not be created for a failed run")
		}
	})

	t.Run("derives output dir when empty", func(t *testing.T) {
		parent := t.TempDir()
		inputDir := filepath.Join(parent, "scans")
		if err := os.Mkdir(inputDir, 0o755); err != nil {
			t.Fatal(err)
		}
		writeFiles(t, inputDir, "a.png")

		summary, err := RunBatch(ctx, ocr.NewMockRunner(), BatchRequest{
			InputDir: inputDir,
			Params:   params,
		}, nil)
		if err != nil {
			t.Fatalf("RunBatch() error = %v", err)
		}

		want := filepath.Join(parent, "scans_ocr_results")
		if summary.OutputDir != want {
			t.Errorf("expected derived output dir %s, got %s", want, summary.OutputDir)
		}
		if _, err := os.Stat(want); err != nil {
			t.Error("derived output dir should exist")
		}
	})

	t.Run("missing OCR command aborts before dispatch", func(t *testing.T) {
		inputDir := t.TempDir()
		writeFiles(t, inputDir, "a.png")

		runner := ocr.NewExecRunner([]string{"ocrpipe-no-such-command"}, nil)
		_, err := RunBatch(ctx, runner, BatchRequest{
			InputDir:  inputDir,
			OutputDir: filepath.Join(t.TempDir(), "out"),
			Params:    params,
		}, nil)
		if err == nil {
			t.Fatal("expected pre-flight failure for missing OCR command")
		}
	})
}

// stubRasterize replaces the rasterizer with one that writes pageCount
// fixture images named doc-<n>.png, restoring the real one on cleanup.
func stubRasterize(t *testing.T, pageCount int) {
	t.Helper()
	orig := rasterize
	rasterize = func(ctx context.Context, pdfPath, outDir string, dpi int, logger *slog.Logger) ([]raster.Page, error) {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return nil, err
		}
		pages := make([]raster.Page, pageCount)
		for i := range pages {
			n := i + 1
			path := filepath.Join(outDir, fmt.Sprintf("doc-%d.png", n))
			if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
				return nil, err
			}
			pages[i] = raster.Page{Number: n, Path: path}
		}
		return pages, nil
	}
	t.Cleanup(func() { rasterize = orig })
}

func TestRunPDF(t *testing.T) {
	ctx := context.Background()
	params := Params{Model: "granite", MaxTokens: 4096}

	t.Run("end to end with a failed page", func(t *testing.T) {
		stubRasterize(t, 3)

		dir := t.TempDir()
		pdfPath := filepath.Join(dir, "doc.pdf")
		if err := os.WriteFile(pdfPath, []byte("%PDF-1.4"), 0o644); err != nil {
			t.Fatal(err)
		}
		outputDir := filepath.Join(dir, "out")

		runner := ocr.NewMockRunner()
		runner.Fail = map[string]bool{"doc-2.png": true}

		summary, err := RunPDF(ctx, runner, PDFRequest{
			PDFPath:   pdfPath,
			OutputDir: outputDir,
			Workers:   2,
			Params:    params,
		}, nil)
		if err != nil {
			t.Fatalf("RunPDF() error = %v", err)
		}

		if summary.Processed != 3 || summary.Succeeded != 2 || summary.Failed != 1 {
			t.Errorf("expected 3 processed, 2/1, got %d processed, %d/%d",
				summary.Processed, summary.Succeeded, summary.Failed)
		}
		if summary.Mode != "pdf" {
			t.Errorf("unexpected mode %s", summary.Mode)
		}
		if summary.CombinedPages != 2 {
			t.Errorf("expected 2 combined pages, got %d", summary.CombinedPages)
		}

		if _, err := os.Stat(filepath.Join(outputDir, "page_1.md")); err != nil {
			t.Error("successful page output missing")
		}

		data, err := os.ReadFile(filepath.Join(outputDir, "doc_complete.md"))
		if err != nil {
			t.Fatalf("combined document missing: %v", err)
		}
		doc := string(data)
		if !strings.Contains(doc, "# OCR Results: doc") {
			t.Error("combined document missing title")
		}
		p1 := strings.Index(doc, "## Page 1")
		p3 := strings.Index(doc, "## Page 3")
		if p1 < 0 || p3 < 0 || p1 > p3 {
			t.Errorf("pages missing or out of order (p1=%d, p3=%d)", p1, p3)
		}
		if strings.Contains(doc, "## Page 2") {
			t.Error("failed page should be omitted from the combined document")
		}

		if _, err := os.Stat(filepath.Join(outputDir, tempPagesDirName)); !os.IsNotExist(err) {
			t.Error("temp page images should be removed")
		}
	})

	t.Run("keep images retains page files", func(t *testing.T) {
		stubRasterize(t, 1)

		dir := t.TempDir()
		pdfPath := filepath.Join(dir, "doc.pdf")
		if err := os.WriteFile(pdfPath, []byte("%PDF-1.4"), 0o644); err != nil {
			t.Fatal(err)
		}
		outputDir := filepath.Join(dir, "out")

		_, err := RunPDF(ctx, ocr.NewMockRunner(), PDFRequest{
			PDFPath:    pdfPath,
			OutputDir:  outputDir,
			KeepImages: true,
			Workers:    1,
			Params:     params,
		}, nil)
		if err != nil {
			t.Fatalf("RunPDF() error = %v", err)
		}

		if _, err := os.Stat(filepath.Join(outputDir, tempPagesDirName, "doc-1.png")); err != nil {
			t.Error("page images should be kept with KeepImages")
		}
	})
}

func TestRunPDF_Validation(t *testing.T) {
	ctx := context.Background()
	params := Params{Model: "granite"}

	t.Run("missing PDF", func(t *testing.T) {
		_, err := RunPDF(ctx, ocr.NewMockRunner(), PDFRequest{
			PDFPath: filepath.Join(t.TempDir(), "missing.pdf"),
			Params:  params,
		}, nil)
		if err == nil {
			t.Fatal("expected error for missing PDF")
		}
	})

	t.Run("not a PDF", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, "image.png")

		_, err := RunPDF(ctx, ocr.NewMockRunner(), PDFRequest{
			PDFPath: filepath.Join(dir, "image.png"),
			Params:  params,
		}, nil)
		if err == nil {
			t.Fatal("expected error for non-PDF input")
		}
	})

	t.Run("directory input rejected", func(t *testing.T) {
		dir := t.TempDir()
		pdfDir := filepath.Join(dir, "doc.pdf")
		if err := os.Mkdir(pdfDir, 0o755); err != nil {
			t.Fatal(err)
		}

		_, err := RunPDF(ctx, ocr.NewMockRunner(), PDFRequest{
			PDFPath: pdfDir,
			Params:  params,
		}, nil)
		if err == nil {
			t.Fatal("expected error for directory input")
		}
	})
}

func TestDefaultOutputDirs(t *testing.T) {
	if got := DefaultPDFOutputDir("/docs/paper.pdf"); got != "paper_ocr" {
		t.Errorf("DefaultPDFOutputDir = %s", got)
	}
	if got := DefaultBatchOutputDir("/docs/scans/"); got != filepath.Join("/docs", "scans_ocr_results") {
		t.Errorf("DefaultBatchOutputDir = %s", got)
	}
}
