package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/ocrpipe/internal/api"
	"github.com/jackzampolin/ocrpipe/internal/ocr"
	"github.com/jackzampolin/ocrpipe/internal/pipeline"
)

var (
	batchModel       string
	batchOutputDir   string
	batchPattern     string
	batchMaxTokens   int
	batchTemperature float64
	batchPrompt      string
	batchWorkers     int
)

var batchCmd = &cobra.Command{
	Use:   "batch <directory>",
	Short: "OCR every image in a directory",
	Long: `Run OCR over the images in a directory (PNG, JPG, JPEG, WEBP, GIF,
BMP, TIFF). An optional glob pattern narrows the selection before the
image-extension filter applies. PDFs are not picked up here; use the
pdf pipeline for those.

Each image's text lands in <output-dir>/<stem>_ocr.txt. A failed image
never aborts the run: it is counted in the summary and its siblings
complete normally.

Examples:
  ocrpipe batch ./documents
  ocrpipe batch ./invoices --output-dir ./results --model nanonets
  ocrpipe batch ./scans --pattern "*.png" --workers 4`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		cm, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := cm.Get()
		watchConfig(cm, logger)

		params, err := resolveParams(cmd, cfg, batchModel, batchMaxTokens, batchTemperature, batchPrompt)
		if err != nil {
			return err
		}

		workers := batchWorkers
		if !cmd.Flags().Changed("workers") {
			workers = cfg.Defaults.Workers
		}
		pattern := batchPattern
		if !cmd.Flags().Changed("pattern") {
			pattern = cfg.Defaults.Pattern
		}

		runner := ocr.NewExecRunner(cfg.ResolveOCRCommand(), logger)

		summary, err := pipeline.RunBatch(cmd.Context(), runner, pipeline.BatchRequest{
			InputDir:  args[0],
			OutputDir: batchOutputDir,
			Pattern:   pattern,
			Workers:   workers,
			Params:    params,
		}, logger)
		if err != nil {
			return err
		}

		return api.Output(summary)
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchModel, "model", "granite", "OCR model (granite, nanonets, paddleocr)")
	batchCmd.Flags().StringVar(&batchOutputDir, "output-dir", "", "output directory (default: <dir>_ocr_results)")
	batchCmd.Flags().StringVar(&batchPattern, "pattern", "*.*", "file pattern to match")
	batchCmd.Flags().IntVar(&batchMaxTokens, "max-tokens", 4096, "maximum tokens per file")
	batchCmd.Flags().Float64Var(&batchTemperature, "temperature", 0, "sampling temperature")
	batchCmd.Flags().StringVar(&batchPrompt, "prompt", "", "custom prompt (default: model's built-in prompt)")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 1, "number of parallel OCR workers")
}
