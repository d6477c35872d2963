package main

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/ocrpipe/internal/config"
	"github.com/jackzampolin/ocrpipe/internal/pipeline"
)

// loadConfig loads configuration from the --config flag (or the default
// search path).
func loadConfig() (*config.Manager, error) {
	return config.NewManager(cfgFile)
}

// watchConfig enables hot-reloading for the duration of a run. The run's
// parameters are snapshotted at start, so a reload is surfaced in the
// log and picked up by the next run.
func watchConfig(cm *config.Manager, logger *slog.Logger) {
	cm.OnChange(func(*config.Config) {
		logger.Info("config file changed; new values apply to the next run")
	})
	cm.WatchConfig()
}

// resolveParams builds the effective OCR parameters for a run: flag
// values where the user set them, config defaults otherwise. The model
// must exist in the configured catalog.
func resolveParams(cmd *cobra.Command, cfg *config.Config, model string, maxTokens int, temperature float64, prompt string) (pipeline.Params, error) {
	flags := cmd.Flags()

	if !flags.Changed("model") {
		model = cfg.Defaults.Model
	}
	if !flags.Changed("max-tokens") {
		maxTokens = cfg.Defaults.MaxTokens
	}
	if !flags.Changed("temperature") {
		temperature = cfg.Defaults.Temperature
	}

	if _, ok := cfg.GetModel(model); !ok {
		return pipeline.Params{}, fmt.Errorf("unknown model %q (supported: %v)", model, modelNames(cfg))
	}

	return pipeline.Params{
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		Prompt:      prompt,
	}, nil
}

// modelNames returns configured model names in sorted order.
func modelNames(cfg *config.Config) []string {
	names := make([]string, 0, len(cfg.Models))
	for name := range cfg.Models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
