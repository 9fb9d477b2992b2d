// Package profile loads declarative provisioning profiles and compiles
// them into registered steps.
package profile

import (
	"fmt"

	"github.com/rigger-dev/rigger/internal/domain/facts"
	"github.com/rigger-dev/rigger/internal/domain/step"
)

// Profile is a declarative list of provisioning steps.
type Profile struct {
	Name        string     `yaml:"name" toml:"name"`
	Description string     `yaml:"description" toml:"description"`
	Steps       []StepSpec `yaml:"steps" toml:"steps"`
}

// StepSpec describes one step. Exactly one action clause must be set.
type StepSpec struct {
	ID        string    `yaml:"id" toml:"id"`
	Label     string    `yaml:"label" toml:"label"`
	Category  string    `yaml:"category" toml:"category"`
	DependsOn []string  `yaml:"depends_on" toml:"depends_on"`
	When      *WhenSpec `yaml:"when" toml:"when"`

	Install  *InstallSpec  `yaml:"install" toml:"install"`
	Group    *GroupSpec    `yaml:"group" toml:"group"`
	Download *DownloadSpec `yaml:"download" toml:"download"`
	Write    *WriteSpec    `yaml:"write" toml:"write"`
	Run      *RunSpec      `yaml:"run" toml:"run"`
	Toggle   *ToggleSpec   `yaml:"toggle" toml:"toggle"`
}

// WhenSpec is a platform precondition over host facts.
type WhenSpec struct {
	OS   []string `yaml:"os" toml:"os"`
	Arch []string `yaml:"arch" toml:"arch"`
}

// InstallSpec installs one package.
type InstallSpec struct {
	Package string `yaml:"package" toml:"package"`
	Manager string `yaml:"manager" toml:"manager"`
}

// GroupSpec installs a set of packages as one step.
type GroupSpec struct {
	Name     string   `yaml:"name" toml:"name"`
	Packages []string `yaml:"packages" toml:"packages"`
}

// DownloadSpec downloads and extracts an archive. Strip drops that many
// leading path components during extraction.
type DownloadSpec struct {
	URL   string `yaml:"url" toml:"url"`
	Dest  string `yaml:"dest" toml:"dest"`
	Strip int    `yaml:"strip" toml:"strip"`
}

// WriteSpec writes fixed content to a file. Mode is octal (e.g., "0644").
type WriteSpec struct {
	Path    string `yaml:"path" toml:"path"`
	Content string `yaml:"content" toml:"content"`
	Mode    string `yaml:"mode" toml:"mode"`
}

// RunSpec runs a command; Creates marks its idempotency witness.
type RunSpec struct {
	Argv    []string `yaml:"argv" toml:"argv"`
	Creates string   `yaml:"creates" toml:"creates"`
}

// ToggleSpec enables or disables a systemd unit.
type ToggleSpec struct {
	Unit    string `yaml:"unit" toml:"unit"`
	Enabled bool   `yaml:"enabled" toml:"enabled"`
}

// Predicate compiles the precondition into a step.Predicate.
func (w *WhenSpec) Predicate() step.Predicate {
	osIDs := append([]string(nil), w.OS...)
	arches := append([]string(nil), w.Arch...)

	return func(f facts.Facts) bool {
		if len(osIDs) > 0 && !contains(osIDs, f.OSID()) {
			return false
		}
		if len(arches) > 0 && !contains(arches, f.Arch().String()) {
			return false
		}
		return true
	}
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// actionClauses returns how many action clauses are set.
func (s StepSpec) actionClauses() int {
	count := 0
	for _, set := range []bool{
		s.Install != nil,
		s.Group != nil,
		s.Download != nil,
		s.Write != nil,
		s.Run != nil,
		s.Toggle != nil,
	} {
		if set {
			count++
		}
	}
	return count
}

// parseCategory maps the spec string to a step category.
// An empty category defaults to required.
func parseCategory(raw string) (step.Category, error) {
	switch raw {
	case "", "required":
		return step.CategoryRequired, nil
	case "optional":
		return step.CategoryOptional, nil
	default:
		return "", fmt.Errorf("unknown category %q (want required or optional)", raw)
	}
}

// Validate checks the profile's structure before steps are built.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return NewInvalidError("profile", "profile name is required")
	}
	if len(p.Steps) == 0 {
		return NewInvalidError(p.Name, "profile has no steps")
	}
	for _, s := range p.Steps {
		if s.ID == "" {
			return NewInvalidError(p.Name, "every step needs an id")
		}
		if n := s.actionClauses(); n != 1 {
			return NewStepError(s.ID,
				fmt.Sprintf("step must have exactly one action clause, found %d", n), nil)
		}
		if _, err := parseCategory(s.Category); err != nil {
			return NewStepError(s.ID, err.Error(), err)
		}
	}
	return nil
}
