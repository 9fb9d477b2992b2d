package action

import (
	"context"
	"fmt"
	"strings"

	"github.com/rigger-dev/rigger/internal/domain/facts"
	"github.com/rigger-dev/rigger/internal/domain/step"
	"github.com/rigger-dev/rigger/internal/ports"
)

// PackageGroup installs a set of packages as one step. The group succeeds
// only when every package ends up installed; if some installs fail the
// group reports step.ErrPartial, which the executor records as a warning.
type PackageGroup struct {
	name   string
	pkgs   []string
	runner ports.CommandRunner
}

// NewPackageGroup creates a PackageGroup action.
func NewPackageGroup(name string, pkgs []string, runner ports.CommandRunner) *PackageGroup {
	copied := make([]string, len(pkgs))
	copy(copied, pkgs)
	return &PackageGroup{name: name, pkgs: copied, runner: runner}
}

// Name returns the action description.
func (a *PackageGroup) Name() string {
	return fmt.Sprintf("install group %s (%d packages)", a.name, len(a.pkgs))
}

// Check reports satisfied only when every package in the group is installed.
func (a *PackageGroup) Check(ctx context.Context, f facts.Facts) (bool, string, error) {
	installed := 0
	for _, pkg := range a.pkgs {
		ok, _, err := NewInstallPackage(pkg, a.runner).Check(ctx, f)
		if err != nil {
			return false, "", err
		}
		if ok {
			installed++
		}
	}
	detail := fmt.Sprintf("%d/%d installed", installed, len(a.pkgs))
	return installed == len(a.pkgs), detail, nil
}

// Apply installs every package not yet installed, aggregating sub-results.
func (a *PackageGroup) Apply(ctx context.Context, f facts.Facts) (string, error) {
	var failures []string
	installed := 0

	for _, pkg := range a.pkgs {
		sub := NewInstallPackage(pkg, a.runner)

		ok, _, err := sub.Check(ctx, f)
		if err == nil && ok {
			installed++
			continue
		}

		if _, err := sub.Apply(ctx, f); err != nil {
			failures = append(failures, pkg)
			continue
		}
		installed++
	}

	detail := fmt.Sprintf("installed %d/%d packages", installed, len(a.pkgs))
	if len(failures) > 0 {
		return detail, fmt.Errorf("%w: %s", step.ErrPartial, strings.Join(failures, ", "))
	}
	return detail, nil
}
