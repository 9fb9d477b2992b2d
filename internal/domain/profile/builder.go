package profile

import (
	"os"
	"strconv"

	"github.com/rigger-dev/rigger/internal/action"
	"github.com/rigger-dev/rigger/internal/domain/registry"
	"github.com/rigger-dev/rigger/internal/domain/step"
	"github.com/rigger-dev/rigger/internal/ports"
)

// Builder compiles a profile into a populated step registry.
type Builder struct {
	runner ports.CommandRunner
	fs     ports.FileSystem
}

// NewBuilder creates a new Builder.
func NewBuilder(runner ports.CommandRunner, fs ports.FileSystem) *Builder {
	return &Builder{runner: runner, fs: fs}
}

// Build registers every step of the profile in declaration order.
// Registration rejects duplicate IDs and dependency cycles before any
// step can run.
func (b *Builder) Build(p *Profile) (*registry.Registry, error) {
	reg := registry.New()
	for _, spec := range p.Steps {
		s, err := b.buildStep(spec)
		if err != nil {
			return nil, err
		}
		if err := reg.Register(s); err != nil {
			return nil, NewStepError(spec.ID, "step could not be registered", err)
		}
	}
	return reg, nil
}

func (b *Builder) buildStep(spec StepSpec) (step.Step, error) {
	id, err := step.NewID(spec.ID)
	if err != nil {
		return step.Step{}, NewStepError(spec.ID, "invalid step id", err)
	}

	category, err := parseCategory(spec.Category)
	if err != nil {
		return step.Step{}, NewStepError(spec.ID, err.Error(), err)
	}

	act, err := b.buildAction(spec)
	if err != nil {
		return step.Step{}, err
	}

	label := spec.Label
	if label == "" {
		label = act.Name()
	}

	s := step.New(id, label, category, act)

	if len(spec.DependsOn) > 0 {
		deps := make([]step.ID, 0, len(spec.DependsOn))
		for _, raw := range spec.DependsOn {
			dep, err := step.NewID(raw)
			if err != nil {
				return step.Step{}, NewStepError(spec.ID, "invalid dependency id "+raw, err)
			}
			deps = append(deps, dep)
		}
		s = s.WithDependsOn(deps...)
	}

	if spec.When != nil {
		s = s.WithWhen(spec.When.Predicate())
	}

	return s, nil
}

func (b *Builder) buildAction(spec StepSpec) (step.Action, error) {
	switch {
	case spec.Install != nil:
		a := action.NewInstallPackage(spec.Install.Package, b.runner)
		if spec.Install.Manager != "" {
			a = a.WithManager(action.Manager(spec.Install.Manager))
		}
		return a, nil

	case spec.Group != nil:
		name := spec.Group.Name
		if name == "" {
			name = spec.ID
		}
		return action.NewPackageGroup(name, spec.Group.Packages, b.runner), nil

	case spec.Download != nil:
		a := action.NewDownloadAndExtract(spec.Download.URL, spec.Download.Dest, b.runner, b.fs)
		if spec.Download.Strip > 0 {
			a = a.WithStrip(spec.Download.Strip)
		}
		return a, nil

	case spec.Write != nil:
		a := action.NewWriteFile(spec.Write.Path, spec.Write.Content, b.fs)
		if spec.Write.Mode != "" {
			mode, err := strconv.ParseUint(spec.Write.Mode, 8, 32)
			if err != nil {
				return nil, NewStepError(spec.ID, "invalid file mode "+spec.Write.Mode, err)
			}
			a = a.WithMode(os.FileMode(mode))
		}
		return a, nil

	case spec.Run != nil:
		a := action.NewRunCommand(spec.Run.Argv, b.runner, b.fs)
		if spec.Run.Creates != "" {
			a = a.WithCreates(spec.Run.Creates)
		}
		return a, nil

	case spec.Toggle != nil:
		return action.NewToggle(spec.Toggle.Unit, spec.Toggle.Enabled, b.runner), nil
	}

	// Unreachable after Validate, kept for direct Builder callers.
	return nil, NewStepError(spec.ID, "step has no action clause", nil)
}
