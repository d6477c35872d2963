package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/ocrpipe/internal/api"
	"github.com/jackzampolin/ocrpipe/internal/ocr"
	"github.com/jackzampolin/ocrpipe/internal/pipeline"
)

var (
	pdfModel       string
	pdfOutputDir   string
	pdfMaxTokens   int
	pdfTemperature float64
	pdfPrompt      string
	pdfWorkers     int
	pdfDPI         int
	pdfKeepImages  bool
)

var pdfCmd = &cobra.Command{
	Use:   "pdf <file.pdf>",
	Short: "Rasterize a PDF and OCR every page into one combined document",
	Long: `Convert a PDF to per-page PNG images with pdftoppm, run OCR on every
page, and merge the successful pages in page order into a single
combined markdown document.

Per-page outputs land in <output-dir>/page_<n>.md; the combined document
is <output-dir>/<stem>_complete.md. Pages whose OCR step fails are
omitted from the combined document and counted in the summary.

Examples:
  ocrpipe pdf document.pdf
  ocrpipe pdf paper.pdf --model nanonets --output-dir ./results
  ocrpipe pdf scan.pdf --workers 4 --keep-images`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		cm, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := cm.Get()
		watchConfig(cm, logger)

		params, err := resolveParams(cmd, cfg, pdfModel, pdfMaxTokens, pdfTemperature, pdfPrompt)
		if err != nil {
			return err
		}

		workers := pdfWorkers
		if !cmd.Flags().Changed("workers") {
			workers = cfg.Defaults.Workers
		}
		dpi := pdfDPI
		if !cmd.Flags().Changed("dpi") {
			dpi = cfg.Raster.DPI
		}

		runner := ocr.NewExecRunner(cfg.ResolveOCRCommand(), logger)

		summary, err := pipeline.RunPDF(cmd.Context(), runner, pipeline.PDFRequest{
			PDFPath:    args[0],
			OutputDir:  pdfOutputDir,
			DPI:        dpi,
			KeepImages: pdfKeepImages,
			Workers:    workers,
			Params:     params,
		}, logger)
		if err != nil {
			return err
		}

		return api.Output(summary)
	},
}

func init() {
	pdfCmd.Flags().StringVar(&pdfModel, "model", "granite", "OCR model (granite, nanonets, paddleocr)")
	pdfCmd.Flags().StringVar(&pdfOutputDir, "output-dir", "", "output directory (default: <pdf_stem>_ocr)")
	pdfCmd.Flags().IntVar(&pdfMaxTokens, "max-tokens", 4096, "maximum tokens per page")
	pdfCmd.Flags().Float64Var(&pdfTemperature, "temperature", 0, "sampling temperature")
	pdfCmd.Flags().StringVar(&pdfPrompt, "prompt", "", "custom prompt (default: model's built-in prompt)")
	pdfCmd.Flags().IntVar(&pdfWorkers, "workers", 1, "number of parallel OCR workers")
	pdfCmd.Flags().IntVar(&pdfDPI, "dpi", 300, "rasterization resolution")
	pdfCmd.Flags().BoolVar(&pdfKeepImages, "keep-images", false, "keep temporary page images")
}
