package step

import (
	"context"
	"errors"

	"github.com/rigger-dev/rigger/internal/domain/facts"
)

// ErrPartial marks a compound action where some sub-actions failed.
// The executor records such steps as warnings regardless of category:
// a package group that half-installed is neither a clean success nor a
// run-stopping failure.
var ErrPartial = errors.New("some sub-actions failed")

// Action is one capability a step performs against the host
// (install a package, write a file, run a command).
//
// Actions must be idempotent via check-then-act: Check inspects current host
// state without side effects, and the executor only calls Apply when Check
// reports unsatisfied. Both must honor context cancellation and deadlines.
type Action interface {
	// Name returns a short description of the operation (for logs).
	Name() string

	// Check reports whether the desired state is already met.
	// The detail string explains the current state.
	Check(ctx context.Context, f facts.Facts) (satisfied bool, detail string, err error)

	// Apply brings the host to the desired state.
	// The detail string describes what was done.
	Apply(ctx context.Context, f facts.Facts) (detail string, err error)
}
