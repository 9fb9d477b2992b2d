package engine

import (
	"context"

	"github.com/rigger-dev/rigger/internal/domain/facts"
	"github.com/rigger-dev/rigger/internal/domain/ledger"
	"github.com/rigger-dev/rigger/internal/domain/registry"
	"github.com/rigger-dev/rigger/internal/domain/step"
	"github.com/rigger-dev/rigger/internal/ports"
)

// Skip messages recorded for steps that never run their action.
const (
	msgPreconditionSkip = "skipped: precondition not met"
	msgDependencySkip   = "skipped: dependency failed"
	msgInterruptSkip    = "skipped: run interrupted"
)

// Engine executes every registered step in resolved order and appends one
// outcome per step to the ledger. The run never aborts mid-way: action
// failures become ledger entries and execution continues to the end of the
// sequence. The only failure Run itself can return is an unresolvable order.
type Engine struct {
	registry *registry.Registry
	ledger   *ledger.Ledger
	executor *Executor
	facts    facts.Facts
	workers  int
	logger   ports.Logger
}

// New creates an Engine over the given registry and ledger.
func New(reg *registry.Registry, led *ledger.Ledger, exec *Executor, f facts.Facts) *Engine {
	return &Engine{
		registry: reg,
		ledger:   led,
		executor: exec,
		facts:    f,
		workers:  1,
	}
}

// WithWorkers returns an Engine that runs independent steps on a bounded
// pool of n workers. Steps related by DependsOn still run in order.
func (e *Engine) WithWorkers(n int) *Engine {
	copied := *e
	if n < 1 {
		n = 1
	}
	copied.workers = n
	return &copied
}

// WithLogger returns an Engine that logs step progress.
func (e *Engine) WithLogger(logger ports.Logger) *Engine {
	copied := *e
	copied.logger = logger
	return &copied
}

// Run executes all steps and returns their outcomes in resolved
// (topological) order, regardless of completion order. Canceling the
// context stops new steps from starting; steps already running finish, and
// every step not yet started is recorded as an interrupt warning so the
// one-outcome-per-step invariant holds even for cut-short runs.
func (e *Engine) Run(ctx context.Context) ([]step.Outcome, error) {
	order, err := e.registry.ResolveOrder()
	if err != nil {
		return nil, err
	}

	if e.workers > 1 {
		return e.runParallel(ctx, order), nil
	}
	return e.runSequential(ctx, order), nil
}

func (e *Engine) runSequential(ctx context.Context, order []step.Step) []step.Outcome {
	outcomes := make([]step.Outcome, 0, len(order))
	failed := make(map[string]bool)

	// Run cancellation gates dispatch only. A dispatched action runs on a
	// detached context so an interrupt never kills it mid-flight; the
	// executor's own timeout is the only thing that can cancel it.
	stepCtx := context.WithoutCancel(ctx)

	for _, s := range order {
		var o step.Outcome
		if ctx.Err() != nil {
			o = step.NewOutcome(s.ID(), step.StatusWarning, msgInterruptSkip)
		} else if skip, skipMsg := e.shouldSkip(s, failed); skip {
			o = step.NewOutcome(s.ID(), step.StatusWarning, skipMsg)
		} else {
			e.debugf(ctx, "executing step", ports.F("step", s.ID().String()))
			o = e.executor.Execute(stepCtx, s, e.facts)
		}

		if o.Status() == step.StatusFailure {
			failed[s.ID().String()] = true
		}
		e.ledger.Record(o)
		outcomes = append(outcomes, o)
	}
	return outcomes
}

// runParallel schedules independent steps onto a bounded worker pool.
// All bookkeeping (skip decisions, ledger appends, dependency release)
// happens on the scheduling goroutine; workers only execute actions.
func (e *Engine) runParallel(ctx context.Context, order []step.Step) []step.Outcome {
	n := len(order)
	indexByID := make(map[string]int, n)
	for i, s := range order {
		indexByID[s.ID().String()] = i
	}

	remaining := make([]int, n)
	dependents := make([][]int, n)
	for i, s := range order {
		for _, dep := range s.DependsOn() {
			if j, ok := indexByID[dep.String()]; ok {
				remaining[i]++
				dependents[j] = append(dependents[j], i)
			}
		}
	}

	type result struct {
		idx     int
		outcome step.Outcome
	}

	outcomes := make([]step.Outcome, n)
	failed := make(map[string]bool)
	results := make(chan result)
	sem := make(chan struct{}, e.workers)

	// Same dispatch gate as the sequential path: interrupt stops new steps,
	// never one already handed to a worker.
	stepCtx := context.WithoutCancel(ctx)

	queue := make([]int, 0, n)
	for i := range order {
		if remaining[i] == 0 {
			queue = append(queue, i)
		}
	}

	completed := 0
	running := 0
	interrupted := false

	finish := func(idx int, o step.Outcome) {
		outcomes[idx] = o
		e.ledger.Record(o)
		if o.Status() == step.StatusFailure {
			failed[order[idx].ID().String()] = true
		}
		completed++
		for _, d := range dependents[idx] {
			remaining[d]--
			if remaining[d] == 0 {
				queue = append(queue, d)
			}
		}
	}

	dispatch := func() {
		for len(queue) > 0 {
			idx := queue[0]
			queue = queue[1:]
			s := order[idx]

			if interrupted {
				finish(idx, step.NewOutcome(s.ID(), step.StatusWarning, msgInterruptSkip))
				continue
			}
			if skip, skipMsg := e.shouldSkip(s, failed); skip {
				finish(idx, step.NewOutcome(s.ID(), step.StatusWarning, skipMsg))
				continue
			}

			running++
			go func(idx int, s step.Step) {
				sem <- struct{}{}
				o := e.executor.Execute(stepCtx, s, e.facts)
				<-sem
				results <- result{idx: idx, outcome: o}
			}(idx, s)
		}
	}

	dispatch()
	for completed < n {
		if interrupted {
			// Queue is always drained here; only in-flight steps remain.
			r := <-results
			running--
			finish(r.idx, r.outcome)
			dispatch()
			continue
		}
		select {
		case <-ctx.Done():
			interrupted = true
			dispatch()
		case r := <-results:
			running--
			finish(r.idx, r.outcome)
			dispatch()
		}
	}
	return outcomes
}

// shouldSkip decides whether a step's action must not run: unmet platform
// precondition, or a failed hard dependency. Warning-status dependencies
// (optional failures, skips) do not block dependents.
func (e *Engine) shouldSkip(s step.Step, failed map[string]bool) (bool, string) {
	if !s.Applicable(e.facts) {
		return true, msgPreconditionSkip
	}
	for _, dep := range s.DependsOn() {
		if failed[dep.String()] {
			return true, msgDependencySkip
		}
	}
	return false, ""
}

func (e *Engine) debugf(ctx context.Context, msg string, fields ...ports.Field) {
	if e.logger != nil {
		e.logger.Debug(ctx, msg, fields...)
	}
}
