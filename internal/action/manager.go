// Package action implements the concrete step capabilities: package
// installation, archive download, file writes, command execution, and
// service toggles. Every action follows check-then-act so re-running a
// profile against an already-provisioned host is safe.
package action

import (
	"github.com/rigger-dev/rigger/internal/domain/facts"
)

// Manager identifies a system package manager.
type Manager string

const (
	// ManagerApt is Debian-family apt.
	ManagerApt Manager = "apt"
	// ManagerDnf is Fedora-family dnf.
	ManagerDnf Manager = "dnf"
	// ManagerPacman is Arch-family pacman.
	ManagerPacman Manager = "pacman"
)

// String returns the string representation of the manager.
func (m Manager) String() string {
	return string(m)
}

// ManagerFor maps the probed OS identity to its package manager.
// Unknown OS identities fall back to apt, the most common profile target.
func ManagerFor(f facts.Facts) Manager {
	switch f.OSID() {
	case "debian", "ubuntu", "raspbian", "pop", "linuxmint", "elementary":
		return ManagerApt
	case "fedora", "rhel", "centos", "rocky", "almalinux":
		return ManagerDnf
	case "arch", "manjaro", "endeavouros":
		return ManagerPacman
	default:
		return ManagerApt
	}
}
