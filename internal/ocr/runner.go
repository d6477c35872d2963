// Package ocr defines the capability interface for the external OCR
// inference collaborator and its production (exec) and mock implementations.
package ocr

import "context"

// Request describes a single OCR invocation over one image.
type Request struct {
	// ImagePath is the image to extract text from.
	ImagePath string

	// Model is the short model name (see models.go).
	Model string

	// MaxTokens caps generation length.
	MaxTokens int

	// Temperature is the sampling temperature (0 = deterministic).
	Temperature float64

	// Prompt overrides the model's default prompt when non-empty.
	Prompt string

	// OutputPath is where the collaborator writes the extracted text.
	OutputPath string
}

// Result is the outcome of one OCR invocation. A failed invocation is
// reported here as data, never as an error from Run: one unit's failure
// must not abort its siblings.
type Result struct {
	Success     bool
	OutputPath  string
	ErrorDetail string
}

// Runner executes one OCR request against the inference collaborator.
// Implementations must be stateless and safe for concurrent use so the
// dispatcher can run many invocations in parallel.
type Runner interface {
	// Name returns the runner identifier (e.g. "exec", "mock").
	Name() string

	// Run performs exactly one OCR invocation. The returned error is
	// reserved for programmer mistakes (nil request); collaborator
	// failures are reported via Result.
	Run(ctx context.Context, req *Request) (*Result, error)
}
