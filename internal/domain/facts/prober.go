package facts

import (
	"context"
	"fmt"
	"runtime"

	"gopkg.in/ini.v1"

	"github.com/rigger-dev/rigger/internal/ports"
)

const osReleasePath = "/etc/os-release"

// Prober detects host facts. It performs only read-only system queries.
type Prober struct {
	runner ports.CommandRunner
	fs     ports.FileSystem
}

// NewProber creates a new Prober.
func NewProber(runner ports.CommandRunner, fs ports.FileSystem) *Prober {
	return &Prober{runner: runner, fs: fs}
}

// Probe detects OS identity, OS version, and CPU architecture.
// The returned facts are always usable. The only possible error wraps
// ErrEnvironmentUnknown, returned when the architecture string cannot be
// mapped to a known category; callers should log it and proceed.
func (p *Prober) Probe(ctx context.Context) (Facts, error) {
	osID, osVersion := p.probeOS()

	machine := p.probeMachine(ctx)
	arch, ok := MapArch(machine)
	if !ok {
		return New(osID, osVersion, ArchUnknown),
			fmt.Errorf("%w: unrecognized architecture %q", ErrEnvironmentUnknown, machine)
	}

	return New(osID, osVersion, arch), nil
}

// probeOS reads /etc/os-release (key=value, INI-compatible) and falls back
// to the runtime OS when it is absent (e.g., macOS).
func (p *Prober) probeOS() (string, string) {
	data, err := p.fs.ReadFile(osReleasePath)
	if err != nil {
		return runtime.GOOS, ""
	}

	cfg, err := ini.Load(data)
	if err != nil {
		return runtime.GOOS, ""
	}

	section := cfg.Section("")
	osID := section.Key("ID").String()
	if osID == "" {
		osID = runtime.GOOS
	}
	return osID, section.Key("VERSION_ID").String()
}

// probeMachine returns the raw machine string, preferring uname -m over the
// compiled-in GOARCH so 32-bit userlands on 64-bit kernels are seen as-is.
func (p *Prober) probeMachine(ctx context.Context) string {
	result, err := p.runner.Run(ctx, "uname", "-m")
	if err == nil && result.Success() && result.Output() != "" {
		return result.Output()
	}
	return runtime.GOARCH
}
