package ocr

import "sort"

// ModelInfo describes a supported OCR model.
type ModelInfo struct {
	// Name is the short identifier accepted on the command line.
	Name string `json:"name" yaml:"name"`

	// ID is the upstream model identifier the inference CLI resolves.
	ID string `json:"id" yaml:"id"`

	// DefaultPrompt is used by the inference CLI when no custom prompt
	// is supplied. Recorded here so `ocrpipe models` can display it and
	// config overrides have a baseline.
	DefaultPrompt string `json:"default_prompt" yaml:"default_prompt"`

	// Description is a one-line summary for CLI help output.
	Description string `json:"description" yaml:"description"`
}

// builtinModels is the catalog of supported models.
var builtinModels = map[string]ModelInfo{
	"granite": {
		Name:          "granite",
		ID:            "ibm-granite/granite-docling-258M-mlx",
		DefaultPrompt: "Convert this page to markdown format.",
		Description:   "IBM Granite Docling (258M) - fast, outputs DocTags",
	},
	"nanonets": {
		Name: "nanonets",
		ID:   "nanonets/Nanonets-OCR2-3B-mlx",
		DefaultPrompt: "Extract the text from the above document as if you were reading it naturally.\n" +
			"Return tables in HTML format. Return equations in LaTeX.\n" +
			"If there's an image without a caption, add a description inside <img></img> tags.\n" +
			"Use ☐ and ☑ for checkboxes.",
		Description: "Nanonets OCR2 (3B) - semantic tagging, captions",
	},
	"paddleocr": {
		Name:          "paddleocr",
		ID:            "PaddlePaddle/PaddleOCR-VL-0.9B-mlx",
		DefaultPrompt: "Extract all text from this document preserving the layout and structure.",
		Description:   "PaddleOCR-VL (0.9B) - 109 languages, ultra-fast",
	},
}

// ModelNames returns the supported model names in sorted order.
func ModelNames() []string {
	names := make([]string, 0, len(builtinModels))
	for name := range builtinModels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Models returns all catalog entries ordered by name.
func Models() []ModelInfo {
	names := ModelNames()
	models := make([]ModelInfo, 0, len(names))
	for _, name := range names {
		models = append(models, builtinModels[name])
	}
	return models
}
