package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/ocrpipe/internal/api"
	"github.com/jackzampolin/ocrpipe/version"
)

var (
	cfgFile      string
	outputFormat string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "ocrpipe",
	Short: "Coordinate document OCR over PDFs and image directories",
	Long: `ocrpipe coordinates OCR over collections of pages: it rasterizes PDFs
into per-page images, dispatches each image to an external OCR inference
process with a bounded worker pool, and merges per-page outputs into one
ordered document.

Pipelines:
  pdf    - rasterize a PDF (pdftoppm, 300 DPI), OCR every page, and merge
           successful pages in page order into <stem>_complete.md
  batch  - OCR every image in a directory concurrently

Per-unit OCR failures never abort the run: siblings complete, failures are
counted in the final summary, and the process still exits 0.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.ocrpipe/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "summary output format: yaml or json",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "info", "log level: debug, info, warn, error",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(pdfCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(versionCmd)
}

// newLogger builds the command logger from the --log-level flag.
func newLogger() *slog.Logger {
	var level slog.Level
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}
