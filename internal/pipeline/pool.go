package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jackzampolin/ocrpipe/internal/ocr"
)

// ProgressFunc observes per-unit completion. Purely informational: it is
// invoked from the collector goroutine as results arrive (completion
// order, not unit order) and has no effect on control flow.
type ProgressFunc func(res TaskResult)

// Dispatch runs the OCR step for every unit through runner with at most
// workers invocations in flight, and returns once all units have
// completed. workers == 1 degenerates to strictly sequential execution
// in unit order.
//
// Per-unit failures are recorded in the ResultSet, never propagated: no
// in-flight unit is cancelled because a sibling failed, and every
// submitted unit yields exactly one TaskResult. Results fan in through a
// channel drained by a single collector, so the ResultSet needs no lock.
func Dispatch(ctx context.Context, runner ocr.Runner, units []WorkUnit, workers int, onResult ProgressFunc) (ResultSet, Tally) {
	if workers < 1 {
		workers = 1
	}

	results := make(chan TaskResult, len(units))

	var eg errgroup.Group
	eg.SetLimit(workers)
	for _, unit := range units {
		unit := unit
		eg.Go(func() error {
			results <- runUnit(ctx, runner, unit)
			return nil
		})
	}

	go func() {
		// Workers never return errors; Wait is only a drain barrier.
		_ = eg.Wait()
		close(results)
	}()

	set := make(ResultSet, len(units))
	var tally Tally
	for res := range results {
		set[res.Number] = res
		if res.Success {
			tally.Succeeded++
		} else {
			tally.Failed++
		}
		if onResult != nil {
			onResult(res)
		}
	}

	return set, tally
}

// runUnit executes one unit's OCR step and maps the outcome to a
// TaskResult. Runner errors are captured as failure data so they stay
// inside the task boundary.
func runUnit(ctx context.Context, runner ocr.Runner, unit WorkUnit) TaskResult {
	res := TaskResult{Number: unit.Number}

	req := unit.Request
	out, err := runner.Run(ctx, &req)
	if err != nil {
		res.ErrorDetail = err.Error()
		return res
	}

	res.Success = out.Success
	res.OutputPath = out.OutputPath
	res.ErrorDetail = out.ErrorDetail
	return res
}
