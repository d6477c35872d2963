package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/ocrpipe/internal/api"
)

// modelListing is one row of `ocrpipe models` output.
type modelListing struct {
	Name   string `json:"name" yaml:"name"`
	ID     string `json:"id" yaml:"id"`
	Prompt string `json:"prompt" yaml:"prompt"`
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the configured OCR models",
	Long: `List the OCR models available to the pdf and batch pipelines, with the
upstream model identifier and default prompt for each. Config file
entries under "models" extend or override the built-in catalog.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cm, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := cm.Get()

		listings := make([]modelListing, 0, len(cfg.Models))
		for _, name := range modelNames(cfg) {
			m := cfg.Models[name]
			listings = append(listings, modelListing{
				Name:   name,
				ID:     m.ID,
				Prompt: m.Prompt,
			})
		}

		return api.Output(listings)
	},
}
