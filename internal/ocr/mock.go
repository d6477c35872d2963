package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const MockRunnerName = "mock"

// MockRunner is a deterministic Runner for testing. It writes Output to
// each request's OutputPath on success, fails requests whose image base
// name appears in Fail, and can delay individual requests to exercise
// out-of-order completion under concurrency.
type MockRunner struct {
	// Output is the text written on success (default "mock ocr text").
	Output string

	// Fail marks image base names that should produce a failed Result.
	Fail map[string]bool

	// Delays holds optional per-image artificial latency, keyed by base name.
	Delays map[string]time.Duration

	// SkipWrite reports success without writing the output artifact,
	// for exercising the missing-artifact aggregation path.
	SkipWrite bool

	mu    sync.Mutex
	calls []string
}

// NewMockRunner creates a mock runner with defaults.
func NewMockRunner() *MockRunner {
	return &MockRunner{Output: "mock ocr text"}
}

// Name returns the runner identifier.
func (m *MockRunner) Name() string {
	return MockRunnerName
}

// Run records the invocation and produces a scripted result.
func (m *MockRunner) Run(ctx context.Context, req *Request) (*Result, error) {
	if req == nil {
		return nil, fmt.Errorf("nil OCR request")
	}

	base := filepath.Base(req.ImagePath)

	if d, ok := m.Delays[base]; ok {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return &Result{Success: false, ErrorDetail: ctx.Err().Error()}, nil
		}
	}

	m.mu.Lock()
	m.calls = append(m.calls, base)
	m.mu.Unlock()

	if m.Fail[base] {
		return &Result{Success: false, ErrorDetail: fmt.Sprintf("mock failure for %s", base)}, nil
	}

	if !m.SkipWrite {
		if err := os.WriteFile(req.OutputPath, []byte(m.Output), 0o644); err != nil {
			return &Result{Success: false, ErrorDetail: err.Error()}, nil
		}
	}

	return &Result{Success: true, OutputPath: req.OutputPath}, nil
}

// Calls returns the image base names in completion order.
func (m *MockRunner) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}
