// Package facts provides host environment detection for step parametrization.
package facts

import (
	"errors"
	"strings"
)

// ErrEnvironmentUnknown indicates the host could not be fully identified.
// Probing never aborts on it; the returned facts carry fallback values.
var ErrEnvironmentUnknown = errors.New("environment unknown")

// Arch represents the CPU architecture category.
type Arch string

const (
	// ArchX8664 is 64-bit x86.
	ArchX8664 Arch = "x86_64"
	// ArchARMv7 is 32-bit ARM (e.g., older Raspberry Pi).
	ArchARMv7 Arch = "armv7l"
	// ArchARM64 is 64-bit ARM.
	ArchARM64 Arch = "arm64"
	// ArchUnknown is an architecture outside the known categories.
	ArchUnknown Arch = "unknown"
)

// String returns the string representation of the architecture.
func (a Arch) String() string {
	return string(a)
}

// MapArch maps a machine string (uname -m or GOARCH) to an Arch category.
// The second return value is false when the string is unrecognized.
func MapArch(machine string) (Arch, bool) {
	switch strings.TrimSpace(machine) {
	case "x86_64", "amd64":
		return ArchX8664, true
	case "armv7l", "armv6l", "arm":
		return ArchARMv7, true
	case "aarch64", "arm64":
		return ArchARM64, true
	default:
		return ArchUnknown, false
	}
}

// Facts is an immutable snapshot of detected host properties.
// It is created once at engine start and only read afterward.
type Facts struct {
	osID      string
	osVersion string
	arch      Arch
}

// New creates a Facts snapshot.
func New(osID, osVersion string, arch Arch) Facts {
	return Facts{
		osID:      osID,
		osVersion: osVersion,
		arch:      arch,
	}
}

// OSID returns the OS identity (e.g., "ubuntu", "fedora", "darwin").
func (f Facts) OSID() string {
	return f.osID
}

// OSVersion returns the OS version string (e.g., "24.04").
func (f Facts) OSVersion() string {
	return f.osVersion
}

// Arch returns the CPU architecture category.
func (f Facts) Arch() Arch {
	return f.arch
}

// String returns a human-readable description.
func (f Facts) String() string {
	parts := []string{f.osID}
	if f.osVersion != "" {
		parts = append(parts, f.osVersion)
	}
	parts = append(parts, string(f.arch))
	return strings.Join(parts, "/")
}
