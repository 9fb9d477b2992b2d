// Package registry holds the ordered set of provisioning steps and resolves
// their execution order.
package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rigger-dev/rigger/internal/domain/step"
)

// Errors for registry operations.
var (
	ErrDuplicateStep     = errors.New("step with this ID already registered")
	ErrCyclicDependency  = errors.New("cyclic dependency detected")
	ErrMissingDependency = errors.New("step depends on unregistered step")
)

// CycleError reports a dependency cycle, naming the step IDs on it.
type CycleError struct {
	IDs []string
}

// Error returns the formatted cycle description.
func (e *CycleError) Error() string {
	return fmt.Sprintf("cyclic dependency detected: %s", strings.Join(e.IDs, " -> "))
}

// Unwrap supports errors.Is(err, ErrCyclicDependency).
func (e *CycleError) Unwrap() error {
	return ErrCyclicDependency
}

// Registry holds registered steps in registration order.
// Cycles are rejected at registration time, before any step runs.
type Registry struct {
	steps     map[string]step.Step
	order     []string            // registration order of step IDs
	dependsOn map[string][]string // step ID -> dependency IDs
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		steps:     make(map[string]step.Step),
		order:     make([]string, 0),
		dependsOn: make(map[string][]string),
	}
}

// Len returns the number of registered steps.
func (r *Registry) Len() int {
	return len(r.steps)
}

// Get retrieves a step by ID.
func (r *Registry) Get(id step.ID) (step.Step, bool) {
	s, ok := r.steps[id.String()]
	return s, ok
}

// Steps returns all steps in registration order.
func (r *Registry) Steps() []step.Step {
	steps := make([]step.Step, 0, len(r.order))
	for _, id := range r.order {
		steps = append(steps, r.steps[id])
	}
	return steps
}

// Register adds a step. It fails fast with a *CycleError if the step's
// dependency edges close a cycle among the steps registered so far, so a
// bad graph is caught before any step executes. Forward references to
// not-yet-registered steps are allowed; ResolveOrder verifies they resolve.
func (r *Registry) Register(s step.Step) error {
	id := s.ID().String()

	if _, exists := r.steps[id]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateStep, id)
	}

	deps := make([]string, 0, len(s.DependsOn()))
	for _, dep := range s.DependsOn() {
		deps = append(deps, dep.String())
	}

	if cycle := r.findCycle(id, deps); cycle != nil {
		return &CycleError{IDs: cycle}
	}

	r.steps[id] = s
	r.order = append(r.order, id)
	r.dependsOn[id] = deps
	return nil
}

// findCycle checks whether adding a step with the given dependencies would
// close a cycle. Any cycle must pass through the new step: all previously
// registered edges were already verified acyclic. Returns the cycle path
// (starting and ending at the new step) or nil.
func (r *Registry) findCycle(id string, deps []string) []string {
	var walk func(from string, path []string) []string
	walk = func(from string, path []string) []string {
		if from == id {
			return append(path, id)
		}
		next := make([]string, len(path), len(path)+1)
		copy(next, path)
		next = append(next, from)
		for _, dep := range r.dependsOn[from] {
			if cycle := walk(dep, next); cycle != nil {
				return cycle
			}
		}
		return nil
	}

	for _, dep := range deps {
		if cycle := walk(dep, []string{id}); cycle != nil {
			return cycle
		}
	}
	return nil
}

// ResolveOrder returns the steps in execution order: registration order,
// except where DependsOn forces a dependency to come first. The sort is
// stable, with ties broken by registration order.
func (r *Registry) ResolveOrder() ([]step.Step, error) {
	for _, id := range r.order {
		for _, dep := range r.dependsOn[id] {
			if _, exists := r.steps[dep]; !exists {
				return nil, fmt.Errorf("%w: step %q depends on %q", ErrMissingDependency, id, dep)
			}
		}
	}

	inDegree := make(map[string]int, len(r.order))
	for _, id := range r.order {
		inDegree[id] = len(r.dependsOn[id])
	}
	dependedBy := make(map[string][]string)
	for _, id := range r.order {
		for _, dep := range r.dependsOn[id] {
			dependedBy[dep] = append(dependedBy[dep], id)
		}
	}

	sorted := make([]step.Step, 0, len(r.order))
	placed := make(map[string]bool, len(r.order))

	// Kahn's algorithm, picking the earliest-registered ready step each
	// round to keep the order stable.
	for len(sorted) < len(r.order) {
		picked := ""
		for _, id := range r.order {
			if !placed[id] && inDegree[id] == 0 {
				picked = id
				break
			}
		}
		if picked == "" {
			// Unreachable: Register rejects cycles.
			return nil, ErrCyclicDependency
		}

		placed[picked] = true
		sorted = append(sorted, r.steps[picked])
		for _, dependent := range dependedBy[picked] {
			inDegree[dependent]--
		}
	}

	return sorted, nil
}
