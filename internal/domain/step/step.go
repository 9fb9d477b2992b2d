// Package step defines the provisioning step value types.
package step

import (
	"github.com/rigger-dev/rigger/internal/domain/facts"
)

// Category determines how a step's failure is reported.
type Category string

const (
	// CategoryRequired steps surface failures as Failure outcomes.
	CategoryRequired Category = "required"
	// CategoryOptional steps downgrade failures to Warning outcomes.
	CategoryOptional Category = "optional"
)

// String returns the string representation of the category.
func (c Category) String() string {
	return string(c)
}

// Predicate is a platform precondition evaluated against host facts.
type Predicate func(facts.Facts) bool

// Step is one declarative unit of provisioning. Immutable once registered.
type Step struct {
	id        ID
	label     string
	category  Category
	action    Action
	dependsOn []ID
	when      Predicate
}

// New creates a Step.
func New(id ID, label string, category Category, action Action) Step {
	return Step{
		id:       id,
		label:    label,
		category: category,
		action:   action,
	}
}

// WithDependsOn returns a copy of the step with the given dependencies.
func (s Step) WithDependsOn(ids ...ID) Step {
	deps := make([]ID, len(ids))
	copy(deps, ids)
	s.dependsOn = deps
	return s
}

// WithWhen returns a copy of the step with a platform precondition.
func (s Step) WithWhen(pred Predicate) Step {
	s.when = pred
	return s
}

// ID returns the step identifier.
func (s Step) ID() ID {
	return s.id
}

// Label returns the human-readable label.
func (s Step) Label() string {
	return s.label
}

// Category returns the step category.
func (s Step) Category() Category {
	return s.category
}

// Action returns the step's action.
func (s Step) Action() Action {
	return s.action
}

// DependsOn returns the IDs of steps that must complete before this one.
func (s Step) DependsOn() []ID {
	deps := make([]ID, len(s.dependsOn))
	copy(deps, s.dependsOn)
	return deps
}

// Applicable reports whether the step's precondition holds for the
// given facts. Steps without a precondition always apply.
func (s Step) Applicable(f facts.Facts) bool {
	if s.when == nil {
		return true
	}
	return s.when(f)
}
