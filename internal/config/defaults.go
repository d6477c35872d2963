package config

import "github.com/jackzampolin/ocrpipe/internal/ocr"

// DefaultConfig returns configuration with sensible defaults. The model
// catalog is seeded from the built-in model list so a config file only
// needs entries for overrides or additions.
func DefaultConfig() *Config {
	models := make(map[string]ModelCfg)
	for _, m := range ocr.Models() {
		models[m.Name] = ModelCfg{
			ID:     m.ID,
			Prompt: m.DefaultPrompt,
		}
	}

	return &Config{
		OCR: OCRCfg{
			Command: ocr.DefaultCommand,
		},
		Raster: RasterCfg{
			DPI: 300,
		},
		Defaults: DefaultsCfg{
			Model:       "granite",
			MaxTokens:   4096,
			Temperature: 0,
			Workers:     1,
			Pattern:     "*.*",
		},
		Models: models,
	}
}
