// Package ledger accumulates step outcomes for a single provisioning run.
package ledger

import (
	"sync"

	"github.com/rigger-dev/rigger/internal/domain/step"
)

// Summary holds aggregate statistics for a run.
type Summary struct {
	Successes int
	Warnings  int
	Failures  int
	// Rate is successes divided by total outcomes, 0 when the ledger is empty.
	Rate float64
}

// Total returns the number of recorded outcomes.
func (s Summary) Total() int {
	return s.Successes + s.Warnings + s.Failures
}

// Ledger is an append-only record of step outcomes. Appends are serialized
// so parallel executors can share one ledger; entries keep completion order.
// There is no update or delete.
type Ledger struct {
	mu       sync.Mutex
	outcomes []step.Outcome
}

// New creates an empty Ledger.
func New() *Ledger {
	return &Ledger{
		outcomes: make([]step.Outcome, 0),
	}
}

// Record appends an outcome.
func (l *Ledger) Record(o step.Outcome) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.outcomes = append(l.outcomes, o)
}

// Len returns the number of recorded outcomes.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.outcomes)
}

// Outcomes returns a copy of all outcomes in completion order.
func (l *Ledger) Outcomes() []step.Outcome {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]step.Outcome, len(l.outcomes))
	copy(out, l.outcomes)
	return out
}

// Summary computes aggregate statistics over the recorded outcomes.
func (l *Ledger) Summary() Summary {
	l.mu.Lock()
	defer l.mu.Unlock()

	var s Summary
	for _, o := range l.outcomes {
		switch o.Status() {
		case step.StatusSuccess:
			s.Successes++
		case step.StatusWarning:
			s.Warnings++
		case step.StatusFailure:
			s.Failures++
		}
	}

	if total := s.Total(); total > 0 {
		s.Rate = float64(s.Successes) / float64(total)
	}
	return s
}
