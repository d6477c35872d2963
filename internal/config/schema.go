package config

// Config holds ocrpipe configuration.
// Loaded from ./config.yaml or ~/.ocrpipe/config.yaml.
type Config struct {
	OCR      OCRCfg              `mapstructure:"ocr" yaml:"ocr"`
	Raster   RasterCfg           `mapstructure:"raster" yaml:"raster"`
	Defaults DefaultsCfg         `mapstructure:"defaults" yaml:"defaults"`
	Models   map[string]ModelCfg `mapstructure:"models" yaml:"models"`
}

// OCRCfg configures the external OCR inference command.
type OCRCfg struct {
	// Command is the inference CLI, optionally with leading arguments
	// (e.g. ["uv", "run", "ocr.py"]). Elements support ${ENV_VAR} syntax.
	Command []string `mapstructure:"command" yaml:"command"`
}

// RasterCfg configures PDF rasterization.
type RasterCfg struct {
	// DPI is the render resolution (default 300).
	DPI int `mapstructure:"dpi" yaml:"dpi"`
}

// DefaultsCfg holds default pipeline parameters, overridable per-run
// via command-line flags.
type DefaultsCfg struct {
	Model       string  `mapstructure:"model" yaml:"model"`
	MaxTokens   int     `mapstructure:"max_tokens" yaml:"max_tokens"`
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
	Workers     int     `mapstructure:"workers" yaml:"workers"`
	Pattern     string  `mapstructure:"pattern" yaml:"pattern"`
}

// ModelCfg describes an OCR model entry.
type ModelCfg struct {
	// ID is the upstream model identifier.
	ID string `mapstructure:"id" yaml:"id"`
	// Prompt is the default prompt for this model.
	Prompt string `mapstructure:"prompt" yaml:"prompt"`
}

// GetModel returns a model config by name.
func (c *Config) GetModel(name string) (ModelCfg, bool) {
	m, ok := c.Models[name]
	return m, ok
}
