package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jackzampolin/ocrpipe/internal/ocr"
	"github.com/jackzampolin/ocrpipe/internal/raster"
)

// tempPagesDirName holds rasterized page images inside the output
// directory. Removed after aggregation unless KeepImages is set.
const tempPagesDirName = "temp_pages"

// PDFRequest contains the parameters for the PDF pipeline.
type PDFRequest struct {
	PDFPath    string
	OutputDir  string // derived from the PDF stem when empty
	DPI        int
	KeepImages bool
	Workers    int
	Params     Params
}

// BatchRequest contains the parameters for the directory pipeline.
type BatchRequest struct {
	InputDir  string
	OutputDir string // derived from the input dir when empty
	Pattern   string
	Workers   int
	Params    Params
}

// Summary is the run-level report produced when a pipeline completes.
// Per-unit failures are reflected here in the counts; they do not affect
// the process exit status.
type Summary struct {
	RunID         string `json:"run_id" yaml:"run_id"`
	Mode          string `json:"mode" yaml:"mode"`
	Input         string `json:"input" yaml:"input"`
	Model         string `json:"model" yaml:"model"`
	Workers       int    `json:"workers" yaml:"workers"`
	Processed     int    `json:"processed" yaml:"processed"`
	Succeeded     int    `json:"succeeded" yaml:"succeeded"`
	Failed        int    `json:"failed" yaml:"failed"`
	OutputDir     string `json:"output_dir" yaml:"output_dir"`
	Combined      string `json:"combined,omitempty" yaml:"combined,omitempty"`
	CombinedPages int    `json:"combined_pages,omitempty" yaml:"combined_pages,omitempty"`
}

// DefaultPDFOutputDir derives the output directory for a PDF input:
// <stem>_ocr next to the working directory.
func DefaultPDFOutputDir(pdfPath string) string {
	return pdfStem(pdfPath) + "_ocr"
}

// DefaultBatchOutputDir derives the output directory for a directory
// input: a <name>_ocr_results sibling of the input directory.
func DefaultBatchOutputDir(inputDir string) string {
	clean := filepath.Clean(inputDir)
	return filepath.Join(filepath.Dir(clean), filepath.Base(clean)+"_ocr_results")
}

// RunPDF executes the full PDF pipeline: validate, rasterize, dispatch
// OCR per page, aggregate successful pages in page order, clean up
// intermediates, and report the summary.
func RunPDF(ctx context.Context, runner ocr.Runner, req PDFRequest, logger *slog.Logger) (*Summary, error) {
	if logger == nil {
		logger = slog.Default()
	}
	runID := uuid.New().String()
	log := logger.With("run_id", runID, "mode", "pdf")

	// Pre-flight: everything fatal happens before any dispatch.
	info, err := os.Stat(req.PDFPath)
	if err != nil {
		return nil, fmt.Errorf("PDF not found: %s", req.PDFPath)
	}
	if info.IsDir() || !strings.EqualFold(filepath.Ext(req.PDFPath), ".pdf") {
		return nil, fmt.Errorf("not a PDF file: %s", req.PDFPath)
	}
	if err := checkRunner(runner); err != nil {
		return nil, err
	}

	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = DefaultPDFOutputDir(req.PDFPath)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	tempDir := filepath.Join(outputDir, tempPagesDirName)
	log.Info("converting PDF", "file", filepath.Base(req.PDFPath))
	pages, err := rasterize(ctx, req.PDFPath, tempDir, req.DPI, log)
	if err != nil {
		return nil, err
	}
	log.Info("converted to pages", "count", len(pages))

	units := PDFUnits(pages, outputDir, req.Params)
	set, tally := Dispatch(ctx, runner, units, req.Workers, logProgress(log, len(units)))

	stem := pdfStem(req.PDFPath)
	combinedPath := filepath.Join(outputDir, stem+"_complete.md")
	combinedPages, err := WriteCombined(combinedPath, stem, set, len(units))
	if err != nil {
		return nil, err
	}
	log.Info("combined document written", "path", combinedPath, "pages", combinedPages)

	if !req.KeepImages {
		if err := os.RemoveAll(tempDir); err != nil {
			log.Warn("failed to remove temp images", "dir", tempDir, "error", err)
		} else {
			log.Debug("cleaned up temp images", "dir", tempDir)
		}
	}

	return &Summary{
		RunID:         runID,
		Mode:          "pdf",
		Input:         req.PDFPath,
		Model:         req.Params.Model,
		Workers:       normalizeWorkers(req.Workers),
		Processed:     len(units),
		Succeeded:     tally.Succeeded,
		Failed:        tally.Failed,
		OutputDir:     outputDir,
		Combined:      combinedPath,
		CombinedPages: combinedPages,
	}, nil
}

// RunBatch executes the directory pipeline: validate, enumerate images,
// dispatch OCR per image, and report the summary. There is no
// aggregation stage in batch mode.
func RunBatch(ctx context.Context, runner ocr.Runner, req BatchRequest, logger *slog.Logger) (*Summary, error) {
	if logger == nil {
		logger = slog.Default()
	}
	runID := uuid.New().String()
	log := logger.With("run_id", runID, "mode", "batch")

	if err := checkRunner(runner); err != nil {
		return nil, err
	}

	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = DefaultBatchOutputDir(req.InputDir)
	}

	// Enumerate before touching the filesystem so a bad input leaves no
	// empty output directory behind.
	units, err := DirectoryUnits(req.InputDir, req.Pattern, outputDir, req.Params)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	log.Info("starting batch OCR", "files", len(units), "model", req.Params.Model, "workers", normalizeWorkers(req.Workers))

	_, tally := Dispatch(ctx, runner, units, req.Workers, logProgress(log, len(units)))

	return &Summary{
		RunID:     runID,
		Mode:      "batch",
		Input:     req.InputDir,
		Model:     req.Params.Model,
		Workers:   normalizeWorkers(req.Workers),
		Processed: len(units),
		Succeeded: tally.Succeeded,
		Failed:    tally.Failed,
		OutputDir: outputDir,
	}, nil
}

// rasterize converts a PDF to per-page images. A variable so tests can
// run the PDF pipeline without pdftoppm installed.
var rasterize = func(ctx context.Context, pdfPath, outDir string, dpi int, logger *slog.Logger) ([]raster.Page, error) {
	if err := raster.CheckTool(); err != nil {
		return nil, err
	}
	return raster.Render(ctx, pdfPath, outDir, dpi, logger)
}

// checkRunner runs the runner's pre-flight check when it has one, so a
// missing OCR collaborator aborts before dispatch.
func checkRunner(runner ocr.Runner) error {
	if c, ok := runner.(interface{ CheckCommand() error }); ok {
		return c.CheckCommand()
	}
	return nil
}

// logProgress reports per-unit completion to the console.
func logProgress(log *slog.Logger, total int) ProgressFunc {
	return func(res TaskResult) {
		if res.Success {
			log.Info("unit completed", "unit", res.Number, "of", total, "output", res.OutputPath)
		} else {
			log.Warn("unit failed", "unit", res.Number, "of", total, "error", res.ErrorDetail)
		}
	}
}

func normalizeWorkers(workers int) int {
	if workers < 1 {
		return 1
	}
	return workers
}

func pdfStem(pdfPath string) string {
	base := filepath.Base(pdfPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
