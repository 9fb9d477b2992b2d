package action

import (
	"context"
	"fmt"

	"github.com/rigger-dev/rigger/internal/domain/facts"
	"github.com/rigger-dev/rigger/internal/ports"
	"github.com/rigger-dev/rigger/internal/validation"
)

// Toggle enables or disables a systemd unit.
type Toggle struct {
	unit    string
	enabled bool
	runner  ports.CommandRunner
}

// NewToggle creates a Toggle action.
func NewToggle(unit string, enabled bool, runner ports.CommandRunner) *Toggle {
	return &Toggle{unit: unit, enabled: enabled, runner: runner}
}

// Name returns the action description.
func (a *Toggle) Name() string {
	verb := "disable"
	if a.enabled {
		verb = "enable"
	}
	return verb + " " + a.unit
}

// Check compares the unit's enablement state with the desired one.
// systemctl is-enabled exits non-zero for disabled units but still prints
// the state, so the exit code alone is not a failure signal here.
func (a *Toggle) Check(ctx context.Context, _ facts.Facts) (bool, string, error) {
	if err := validation.ValidateUnitName(a.unit); err != nil {
		return false, "", err
	}

	result, err := a.runner.Run(ctx, "systemctl", "is-enabled", a.unit)
	if err != nil {
		return false, "", err
	}

	state := result.Output()
	desired := "disabled"
	if a.enabled {
		desired = "enabled"
	}
	if state == desired {
		return true, a.unit + " " + state, nil
	}
	return false, fmt.Sprintf("%s is %s, want %s", a.unit, state, desired), nil
}

// Apply flips the unit to the desired state, starting or stopping it too.
func (a *Toggle) Apply(ctx context.Context, _ facts.Facts) (string, error) {
	if err := validation.ValidateUnitName(a.unit); err != nil {
		return "", err
	}

	verb := "disable"
	if a.enabled {
		verb = "enable"
	}

	result, err := a.runner.Run(ctx, "sudo", "systemctl", verb, "--now", a.unit)
	if err != nil {
		return "", err
	}
	if !result.Success() {
		return "", fmt.Errorf("systemctl %s %s failed: %s", verb, a.unit, result.Stderr)
	}
	return verb + "d " + a.unit, nil
}
