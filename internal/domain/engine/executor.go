// Package engine runs registered steps and records their outcomes.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rigger-dev/rigger/internal/domain/facts"
	"github.com/rigger-dev/rigger/internal/domain/step"
)

// Executor runs a single step, translating every failure mode of the
// underlying action into an outcome. Nothing escapes Execute: non-zero
// exits, missing binaries, timeouts, and panics all become ledger entries.
type Executor struct {
	timeout time.Duration
}

// NewExecutor creates a new Executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// WithTimeout returns an Executor that bounds each step's action with the
// given deadline. Zero means no per-step timeout.
func (e *Executor) WithTimeout(d time.Duration) *Executor {
	return &Executor{timeout: d}
}

// Execute runs one step against the probed facts and returns its outcome.
// Check runs first; an already-satisfied step reports success without
// re-applying, which keeps re-runs free of duplicate side effects.
func (e *Executor) Execute(ctx context.Context, s step.Step, f facts.Facts) (out step.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = e.translate(s, fmt.Errorf("action panicked: %v", r))
		}
	}()

	runCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	action := s.Action()

	satisfied, detail, err := action.Check(runCtx, f)
	if err != nil {
		return e.translate(s, fmt.Errorf("check failed: %w", err))
	}
	if satisfied {
		msg := "already satisfied"
		if detail != "" {
			msg += ": " + detail
		}
		return step.NewOutcome(s.ID(), step.StatusSuccess, msg)
	}

	detail, err = action.Apply(runCtx, f)
	if err != nil {
		return e.translate(s, err)
	}
	if detail == "" {
		detail = "applied"
	}
	return step.NewOutcome(s.ID(), step.StatusSuccess, detail)
}

// translate maps an action error to an outcome. Optional steps downgrade
// failures to warnings so one missing package never taints the whole run;
// required steps surface as failures but still do not halt execution.
// Partially-successful compound actions are warnings for either category.
func (e *Executor) translate(s step.Step, err error) step.Outcome {
	msg := err.Error()
	if errors.Is(err, context.DeadlineExceeded) {
		if e.timeout > 0 {
			msg = fmt.Sprintf("timed out after %s", e.timeout)
		} else {
			msg = "deadline exceeded"
		}
	}

	if errors.Is(err, step.ErrPartial) || s.Category() == step.CategoryOptional {
		return step.NewOutcome(s.ID(), step.StatusWarning, msg)
	}
	return step.NewOutcome(s.ID(), step.StatusFailure, msg)
}
