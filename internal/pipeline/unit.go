// Package pipeline coordinates document OCR over collections of pages:
// enumerating work units, dispatching each unit's OCR step through a
// bounded worker pool, collecting per-unit outcomes independent of
// completion order, and reassembling results in source order.
package pipeline

import "github.com/jackzampolin/ocrpipe/internal/ocr"

// WorkUnit is one image to be OCR'd. Immutable once created: identity is
// assigned at creation from the source's enumeration order and is never
// renumbered after dispatch, so final document ordering always matches
// source ordering regardless of execution order.
type WorkUnit struct {
	// Number is the 1-based unit identity (page number, or enumeration
	// index in directory mode).
	Number int

	// Request carries the OCR invocation parameters, including the
	// unit's pre-assigned, distinct output path.
	Request ocr.Request
}

// TaskResult is the outcome of exactly one unit's OCR step. Every
// submitted unit yields exactly one TaskResult.
type TaskResult struct {
	Number      int
	Success     bool
	OutputPath  string
	ErrorDetail string
}

// ResultSet maps unit identity to its result. Each key is written
// exactly once, by the collector goroutine; the set is fully populated
// only after the dispatcher reports all units drained.
type ResultSet map[int]TaskResult

// Tally holds running success/failure counts maintained by the collector.
type Tally struct {
	Succeeded int
	Failed    int
}

// Params are the OCR parameters applied to every unit in a run.
type Params struct {
	Model       string
	MaxTokens   int
	Temperature float64
	Prompt      string
}
