package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
)

// DefaultCommand is the OCR inference CLI invoked when no command is
// configured. It must accept:
//
//	<cmd> <image> --model <name> --max-tokens N --temperature T \
//	      [--prompt P] --output <path>
var DefaultCommand = []string{"ocr"}

// ExecRunner invokes the OCR inference collaborator as an external
// process, one process per request. Output is captured, not streamed;
// a non-zero exit status maps to a failed Result.
type ExecRunner struct {
	command []string
	logger  *slog.Logger
}

// NewExecRunner creates a runner for the given command line. The command
// may carry leading arguments (e.g. ["uv", "run", "ocr.py"]).
func NewExecRunner(command []string, logger *slog.Logger) *ExecRunner {
	if len(command) == 0 {
		command = DefaultCommand
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExecRunner{
		command: command,
		logger:  logger.With("runner", "exec"),
	}
}

// Name returns the runner identifier.
func (r *ExecRunner) Name() string {
	return "exec"
}

// CheckCommand verifies the configured OCR command is on PATH.
// Called pre-flight so a missing collaborator aborts before dispatch.
func (r *ExecRunner) CheckCommand() error {
	if _, err := exec.LookPath(r.command[0]); err != nil {
		return fmt.Errorf("OCR command not found: %s", r.command[0])
	}
	return nil
}

// Run invokes the collaborator once and maps its exit status to a Result.
func (r *ExecRunner) Run(ctx context.Context, req *Request) (*Result, error) {
	if req == nil {
		return nil, fmt.Errorf("nil OCR request")
	}

	args := r.buildArgs(req)
	cmd := exec.CommandContext(ctx, r.command[0], args...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		detail := err.Error()
		if diag := strings.TrimSpace(string(output)); diag != "" {
			detail = fmt.Sprintf("%s: %s", err, diag)
		}
		r.logger.Debug("OCR process failed", "image", req.ImagePath, "error", detail)
		return &Result{Success: false, ErrorDetail: detail}, nil
	}

	r.logger.Debug("OCR process completed", "image", req.ImagePath, "output", req.OutputPath)
	return &Result{Success: true, OutputPath: req.OutputPath}, nil
}

// buildArgs assembles the collaborator's argument list for a request.
func (r *ExecRunner) buildArgs(req *Request) []string {
	args := append([]string{}, r.command[1:]...)
	args = append(args,
		req.ImagePath,
		"--model", req.Model,
		"--max-tokens", strconv.Itoa(req.MaxTokens),
		"--temperature", strconv.FormatFloat(req.Temperature, 'f', -1, 64),
	)
	if req.Prompt != "" {
		args = append(args, "--prompt", req.Prompt)
	}
	args = append(args, "--output", req.OutputPath)
	return args
}
