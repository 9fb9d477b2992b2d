package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rigger-dev/rigger/internal/domain/facts"
	"github.com/rigger-dev/rigger/internal/domain/step"
)

// fakeAction is a scriptable action for executor and engine tests.
type fakeAction struct {
	name      string
	satisfied bool
	detail    string
	checkErr  error
	applyErr  error
	sleep     time.Duration
	panicMsg  string
	applied   *bool
}

func (a *fakeAction) Name() string {
	if a.name == "" {
		return "fake"
	}
	return a.name
}

func (a *fakeAction) Check(ctx context.Context, _ facts.Facts) (bool, string, error) {
	if a.checkErr != nil {
		return false, "", a.checkErr
	}
	return a.satisfied, a.detail, nil
}

func (a *fakeAction) Apply(ctx context.Context, _ facts.Facts) (string, error) {
	if a.panicMsg != "" {
		panic(a.panicMsg)
	}
	if a.sleep > 0 {
		select {
		case <-time.After(a.sleep):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if a.applied != nil {
		*a.applied = true
	}
	if a.applyErr != nil {
		return "", a.applyErr
	}
	return a.detail, nil
}

func makeStep(id string, category step.Category, action step.Action) step.Step {
	return step.New(step.MustNewID(id), id, category, action)
}

var testFacts = facts.New("debian", "12", facts.ArchX8664)

func TestExecutor_AlreadySatisfiedSkipsApply(t *testing.T) {
	applied := false
	a := &fakeAction{satisfied: true, detail: "git 2.43 present", applied: &applied}

	o := NewExecutor().Execute(context.Background(), makeStep("pkg:git", step.CategoryRequired, a), testFacts)

	if o.Status() != step.StatusSuccess {
		t.Errorf("Status() = %v, want success", o.Status())
	}
	if !strings.Contains(o.Message(), "already satisfied") {
		t.Errorf("Message() = %q, want already-satisfied note", o.Message())
	}
	if !strings.Contains(o.Message(), "git 2.43 present") {
		t.Errorf("Message() = %q, want check detail", o.Message())
	}
	if applied {
		t.Error("Apply must not run for a satisfied step")
	}
}

func TestExecutor_AppliesUnsatisfiedStep(t *testing.T) {
	applied := false
	a := &fakeAction{detail: "installed git", applied: &applied}

	o := NewExecutor().Execute(context.Background(), makeStep("pkg:git", step.CategoryRequired, a), testFacts)

	if o.Status() != step.StatusSuccess {
		t.Errorf("Status() = %v, want success", o.Status())
	}
	if o.Message() != "installed git" {
		t.Errorf("Message() = %q, want apply detail", o.Message())
	}
	if !applied {
		t.Error("Apply should have run")
	}
}

func TestExecutor_EmptyApplyDetailDefaultsToApplied(t *testing.T) {
	o := NewExecutor().Execute(context.Background(),
		makeStep("x", step.CategoryRequired, &fakeAction{}), testFacts)
	if o.Message() != "applied" {
		t.Errorf("Message() = %q, want applied", o.Message())
	}
}

func TestExecutor_RequiredFailureIsFailure(t *testing.T) {
	a := &fakeAction{applyErr: errors.New("apt-get exited with code 100")}

	o := NewExecutor().Execute(context.Background(), makeStep("pkg:git", step.CategoryRequired, a), testFacts)

	if o.Status() != step.StatusFailure {
		t.Errorf("Status() = %v, want failure", o.Status())
	}
	if !strings.Contains(o.Message(), "code 100") {
		t.Errorf("Message() = %q, want underlying error text", o.Message())
	}
}

func TestExecutor_OptionalFailureIsWarning(t *testing.T) {
	a := &fakeAction{applyErr: errors.New("package zsh not found")}

	o := NewExecutor().Execute(context.Background(), makeStep("pkg:zsh", step.CategoryOptional, a), testFacts)

	if o.Status() != step.StatusWarning {
		t.Errorf("Status() = %v, want warning", o.Status())
	}
}

func TestExecutor_CheckErrorFollowsCategory(t *testing.T) {
	required := makeStep("a", step.CategoryRequired, &fakeAction{checkErr: errors.New("dpkg-query broken")})
	optional := makeStep("b", step.CategoryOptional, &fakeAction{checkErr: errors.New("dpkg-query broken")})

	exec := NewExecutor()
	if got := exec.Execute(context.Background(), required, testFacts); got.Status() != step.StatusFailure {
		t.Errorf("required check error: Status() = %v, want failure", got.Status())
	}
	if got := exec.Execute(context.Background(), optional, testFacts); got.Status() != step.StatusWarning {
		t.Errorf("optional check error: Status() = %v, want warning", got.Status())
	}
}

func TestExecutor_PartialFailureIsWarningEvenWhenRequired(t *testing.T) {
	a := &fakeAction{applyErr: fmt.Errorf("%w: htop, ncdu", step.ErrPartial)}

	o := NewExecutor().Execute(context.Background(), makeStep("pkg:essentials", step.CategoryRequired, a), testFacts)

	if o.Status() != step.StatusWarning {
		t.Errorf("Status() = %v, want warning for partial success", o.Status())
	}
	if !strings.Contains(o.Message(), "htop") {
		t.Errorf("Message() = %q, want failed member names", o.Message())
	}
}

func TestExecutor_CallerDeadlineWithoutStepTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	a := &fakeAction{sleep: 500 * time.Millisecond}

	o := NewExecutor().Execute(ctx, makeStep("slow", step.CategoryRequired, a), testFacts)

	if o.Status() != step.StatusFailure {
		t.Errorf("Status() = %v, want failure", o.Status())
	}
	if o.Message() != "deadline exceeded" {
		t.Errorf("Message() = %q, want generic deadline note when no step timeout is set", o.Message())
	}
}

func TestExecutor_PanicBecomesOutcome(t *testing.T) {
	a := &fakeAction{panicMsg: "nil map write"}

	o := NewExecutor().Execute(context.Background(), makeStep("x", step.CategoryRequired, a), testFacts)

	if o.Status() != step.StatusFailure {
		t.Errorf("Status() = %v, want failure", o.Status())
	}
	if !strings.Contains(o.Message(), "panicked") {
		t.Errorf("Message() = %q, want panic note", o.Message())
	}
}

func TestExecutor_Timeout(t *testing.T) {
	a := &fakeAction{sleep: 500 * time.Millisecond}

	o := NewExecutor().WithTimeout(10 * time.Millisecond).
		Execute(context.Background(), makeStep("slow", step.CategoryRequired, a), testFacts)

	if o.Status() != step.StatusFailure {
		t.Errorf("Status() = %v, want failure", o.Status())
	}
	if !strings.Contains(o.Message(), "timed out") {
		t.Errorf("Message() = %q, want timeout note", o.Message())
	}
}
