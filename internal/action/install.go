package action

import (
	"context"
	"fmt"

	"github.com/rigger-dev/rigger/internal/domain/facts"
	"github.com/rigger-dev/rigger/internal/ports"
	"github.com/rigger-dev/rigger/internal/validation"
)

// InstallPackage installs one system package via the host's package manager.
type InstallPackage struct {
	pkg     string
	manager Manager // empty: resolved from facts at run time
	runner  ports.CommandRunner
}

// NewInstallPackage creates an InstallPackage action.
func NewInstallPackage(pkg string, runner ports.CommandRunner) *InstallPackage {
	return &InstallPackage{pkg: pkg, runner: runner}
}

// WithManager returns a copy pinned to a specific package manager.
func (a *InstallPackage) WithManager(m Manager) *InstallPackage {
	return &InstallPackage{pkg: a.pkg, manager: m, runner: a.runner}
}

// Name returns the action description.
func (a *InstallPackage) Name() string {
	return "install " + a.pkg
}

func (a *InstallPackage) resolve(f facts.Facts) Manager {
	if a.manager != "" {
		return a.manager
	}
	return ManagerFor(f)
}

// Check determines whether the package is already installed.
func (a *InstallPackage) Check(ctx context.Context, f facts.Facts) (bool, string, error) {
	if err := validation.ValidatePackageName(a.pkg); err != nil {
		return false, "", err
	}

	var result ports.CommandResult
	var err error
	switch a.resolve(f) {
	case ManagerApt:
		result, err = a.runner.Run(ctx, "dpkg-query", "-W", "-f=${db:Status-Status}", a.pkg)
		if err != nil {
			return false, "", err
		}
		if result.Success() && result.Output() == "installed" {
			return true, a.pkg + " installed", nil
		}
	case ManagerDnf:
		result, err = a.runner.Run(ctx, "rpm", "-q", a.pkg)
		if err != nil {
			return false, "", err
		}
		if result.Success() {
			return true, a.pkg + " installed", nil
		}
	case ManagerPacman:
		result, err = a.runner.Run(ctx, "pacman", "-Qi", a.pkg)
		if err != nil {
			return false, "", err
		}
		if result.Success() {
			return true, a.pkg + " installed", nil
		}
	}
	return false, a.pkg + " not installed", nil
}

// Apply installs the package non-interactively.
func (a *InstallPackage) Apply(ctx context.Context, f facts.Facts) (string, error) {
	if err := validation.ValidatePackageName(a.pkg); err != nil {
		return "", err
	}

	var argv []string
	switch a.resolve(f) {
	case ManagerApt:
		argv = []string{"sudo", "apt-get", "install", "-y", a.pkg}
	case ManagerDnf:
		argv = []string{"sudo", "dnf", "install", "-y", a.pkg}
	case ManagerPacman:
		argv = []string{"sudo", "pacman", "-S", "--noconfirm", a.pkg}
	}

	result, err := a.runner.Run(ctx, argv[0], argv[1:]...)
	if err != nil {
		return "", err
	}
	if !result.Success() {
		return "", fmt.Errorf("install %s failed: %s", a.pkg, result.Stderr)
	}
	return "installed " + a.pkg, nil
}
