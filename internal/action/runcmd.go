package action

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rigger-dev/rigger/internal/domain/facts"
	"github.com/rigger-dev/rigger/internal/ports"
)

// ErrEmptyCommand indicates a run action with no argv.
var ErrEmptyCommand = errors.New("command argv cannot be empty")

// RunCommand executes an arbitrary command. An optional creates path acts
// as the idempotency marker: when it exists the command is not re-run.
type RunCommand struct {
	argv    []string
	creates string
	runner  ports.CommandRunner
	fs      ports.FileSystem
}

// NewRunCommand creates a RunCommand action.
func NewRunCommand(argv []string, runner ports.CommandRunner, fs ports.FileSystem) *RunCommand {
	copied := make([]string, len(argv))
	copy(copied, argv)
	return &RunCommand{argv: copied, runner: runner, fs: fs}
}

// WithCreates returns a copy that treats the existence of path as
// "already satisfied".
func (a *RunCommand) WithCreates(path string) *RunCommand {
	copied := *a
	copied.creates = path
	return &copied
}

// Name returns the action description.
func (a *RunCommand) Name() string {
	return "run " + strings.Join(a.argv, " ")
}

// Check consults the creates marker. Commands without one cannot probe
// their effect and always re-run.
func (a *RunCommand) Check(_ context.Context, _ facts.Facts) (bool, string, error) {
	if a.creates == "" {
		return false, "no completion marker", nil
	}
	marker := ports.ExpandPath(a.creates)
	if a.fs.Exists(marker) {
		return true, marker + " exists", nil
	}
	return false, marker + " missing", nil
}

// Apply runs the command.
func (a *RunCommand) Apply(ctx context.Context, _ facts.Facts) (string, error) {
	if len(a.argv) == 0 {
		return "", ErrEmptyCommand
	}

	result, err := a.runner.Run(ctx, a.argv[0], a.argv[1:]...)
	if err != nil {
		return "", err
	}
	if !result.Success() {
		return "", fmt.Errorf("command %q exited %d: %s",
			strings.Join(a.argv, " "), result.ExitCode, result.Stderr)
	}
	return "ran " + strings.Join(a.argv, " "), nil
}
