package step

import (
	"context"
	"testing"

	"github.com/rigger-dev/rigger/internal/domain/facts"
)

type noopAction struct{}

func (noopAction) Name() string { return "noop" }
func (noopAction) Check(context.Context, facts.Facts) (bool, string, error) {
	return false, "", nil
}
func (noopAction) Apply(context.Context, facts.Facts) (string, error) {
	return "", nil
}

func TestStep_Accessors(t *testing.T) {
	s := New(MustNewID("pkg:git"), "Install git", CategoryRequired, noopAction{})

	if s.ID().String() != "pkg:git" {
		t.Errorf("ID() = %q", s.ID().String())
	}
	if s.Label() != "Install git" {
		t.Errorf("Label() = %q", s.Label())
	}
	if s.Category() != CategoryRequired {
		t.Errorf("Category() = %v", s.Category())
	}
	if s.Action() == nil {
		t.Error("Action() should not be nil")
	}
}

func TestStep_WithDependsOn_CopiesInput(t *testing.T) {
	deps := []ID{MustNewID("pkg:refresh")}
	s := New(MustNewID("pkg:git"), "git", CategoryRequired, noopAction{}).WithDependsOn(deps...)

	deps[0] = MustNewID("pkg:other")
	got := s.DependsOn()
	if len(got) != 1 || got[0].String() != "pkg:refresh" {
		t.Errorf("DependsOn() = %v, want [pkg:refresh]", got)
	}

	// Mutating the returned slice must not leak into the step.
	got[0] = MustNewID("pkg:mutated")
	if s.DependsOn()[0].String() != "pkg:refresh" {
		t.Error("DependsOn() must return a copy")
	}
}

func TestStep_Applicable(t *testing.T) {
	debian := facts.New("debian", "12", facts.ArchX8664)
	fedora := facts.New("fedora", "41", facts.ArchX8664)

	unconditional := New(MustNewID("a"), "a", CategoryRequired, noopAction{})
	if !unconditional.Applicable(debian) {
		t.Error("step without precondition should always apply")
	}

	onlyDebian := unconditional.WithWhen(func(f facts.Facts) bool {
		return f.OSID() == "debian"
	})
	if !onlyDebian.Applicable(debian) {
		t.Error("precondition should hold for debian")
	}
	if onlyDebian.Applicable(fedora) {
		t.Error("precondition should not hold for fedora")
	}
}

func TestNewOutcome(t *testing.T) {
	o := NewOutcome(MustNewID("pkg:git"), StatusSuccess, "applied")

	if o.StepID().String() != "pkg:git" {
		t.Errorf("StepID() = %q", o.StepID().String())
	}
	if o.Status() != StatusSuccess {
		t.Errorf("Status() = %v", o.Status())
	}
	if o.Message() != "applied" {
		t.Errorf("Message() = %q", o.Message())
	}
	if o.Timestamp().IsZero() {
		t.Error("Timestamp() should be stamped")
	}
	if !o.Success() {
		t.Error("Success() should be true for StatusSuccess")
	}
}

func TestOutcome_Success(t *testing.T) {
	id := MustNewID("x")
	if NewOutcome(id, StatusWarning, "").Success() {
		t.Error("warning is not success")
	}
	if NewOutcome(id, StatusFailure, "").Success() {
		t.Error("failure is not success")
	}
}
