// Package app provides the main application logic for rigger.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rigger-dev/rigger/internal/adapters/command"
	"github.com/rigger-dev/rigger/internal/adapters/filesystem"
	"github.com/rigger-dev/rigger/internal/adapters/report"
	"github.com/rigger-dev/rigger/internal/domain/engine"
	"github.com/rigger-dev/rigger/internal/domain/facts"
	"github.com/rigger-dev/rigger/internal/domain/ledger"
	"github.com/rigger-dev/rigger/internal/domain/profile"
	"github.com/rigger-dev/rigger/internal/domain/step"
	"github.com/rigger-dev/rigger/internal/ports"
)

// ErrPrivilege is returned when rigger is started as the superuser. Steps
// escalate individual commands with sudo instead; a root-owned process would
// write root-owned files into the user's home directory.
var ErrPrivilege = errors.New("refusing to run as root: rigger escalates individual commands with sudo as needed")

// RunOptions tunes a single provisioning run.
type RunOptions struct {
	// ReportPath, when non-empty, persists a plain-text report artifact.
	ReportPath string
	// StepTimeout bounds each step's action. Zero means no per-step timeout.
	StepTimeout time.Duration
	// Workers sets the number of steps that may run concurrently.
	// Values below 1 mean sequential execution.
	Workers int
}

// RunResult describes a completed provisioning run.
type RunResult struct {
	RunID    string
	Profile  string
	Facts    facts.Facts
	Rows     []report.Row
	Summary  ledger.Summary
	Started  time.Time
	Duration time.Duration
}

// PlanEntry describes what a run would do to one step.
type PlanEntry struct {
	ID     string
	Label  string
	State  PlanState
	Detail string
}

// PlanState classifies a plan entry.
type PlanState string

// Plan entry states.
const (
	PlanSatisfied PlanState = "satisfied"
	PlanApply     PlanState = "apply"
	PlanSkip      PlanState = "skip"
	PlanUnknown   PlanState = "unknown"
)

// Rigger is the main application orchestrator.
type Rigger struct {
	runner ports.CommandRunner
	fs     ports.FileSystem
	logger ports.Logger
	out    io.Writer
}

// New creates a new Rigger application wired to the real host.
func New(out io.Writer) *Rigger {
	return &Rigger{
		runner: command.NewRealRunner(),
		fs:     filesystem.NewRealFileSystem(),
		out:    out,
	}
}

// WithRunner replaces the command runner, primarily for tests.
func (r *Rigger) WithRunner(runner ports.CommandRunner) *Rigger {
	r.runner = runner
	return r
}

// WithFileSystem replaces the filesystem, primarily for tests.
func (r *Rigger) WithFileSystem(fs ports.FileSystem) *Rigger {
	r.fs = fs
	return r
}

// WithLogger sets a logger for step progress.
func (r *Rigger) WithLogger(logger ports.Logger) *Rigger {
	r.logger = logger
	return r
}

// CheckPrivilege refuses to proceed when running as the superuser.
func CheckPrivilege(euid int) error {
	if euid == 0 {
		return ErrPrivilege
	}
	return nil
}

// Probe gathers host facts. A partially-probed host (unrecognized
// architecture) is reported as a warning but does not stop the run:
// the remaining facts still drive step preconditions.
func (r *Rigger) Probe(ctx context.Context) (facts.Facts, error) {
	prober := facts.NewProber(r.runner, r.fs)
	f, err := prober.Probe(ctx)
	if err != nil {
		if errors.Is(err, facts.ErrEnvironmentUnknown) {
			r.warnf(ctx, "environment only partially recognized", ports.F("error", err.Error()))
			return f, nil
		}
		return facts.Facts{}, err
	}
	return f, nil
}

// userProfilesDir holds user-defined profiles. Profiles here shadow the
// built-in ones of the same name.
const userProfilesDir = "~/.config/rigger/profiles"

// LoadProfile resolves ref to a profile. A ref that names an existing file
// (or looks like a path) is loaded from disk; otherwise the user profile
// directory is consulted before the built-in profiles.
func (r *Rigger) LoadProfile(ref string) (*profile.Profile, error) {
	loader := profile.NewLoader(r.fs)
	if r.looksLikePath(ref) {
		return loader.Load(ports.ExpandPath(ref))
	}
	dir := ports.ExpandPath(userProfilesDir)
	for _, ext := range []string{".yaml", ".yml", ".toml"} {
		candidate := filepath.Join(dir, ref+ext)
		if r.fs.Exists(candidate) {
			return loader.Load(candidate)
		}
	}
	return profile.LoadDefault(ref)
}

func (r *Rigger) looksLikePath(ref string) bool {
	if strings.ContainsRune(ref, os.PathSeparator) || strings.HasPrefix(ref, "~") {
		return true
	}
	switch filepath.Ext(ref) {
	case ".yaml", ".yml", ".toml":
		return true
	}
	return r.fs.Exists(ref)
}

// Profiles returns the built-in profile names plus any found in the user
// profile directory, without duplicates.
func (r *Rigger) Profiles() []string {
	names := profile.DefaultNames()
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		seen[name] = true
	}
	loader := profile.NewLoader(r.fs)
	for _, name := range loader.List(ports.ExpandPath(userProfilesDir)) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// Apply runs the profile end to end: probe, compile, execute, report.
// Step failures are recorded in the result, not returned as an error;
// only setup problems (bad profile, unresolvable order) fail the run.
func (r *Rigger) Apply(ctx context.Context, ref string, opts RunOptions) (*RunResult, error) {
	f, err := r.Probe(ctx)
	if err != nil {
		return nil, fmt.Errorf("probing environment: %w", err)
	}

	p, err := r.LoadProfile(ref)
	if err != nil {
		return nil, err
	}

	reg, err := profile.NewBuilder(r.runner, r.fs).Build(p)
	if err != nil {
		return nil, err
	}

	order, err := reg.ResolveOrder()
	if err != nil {
		return nil, err
	}
	labels := make(map[string]string, len(order))
	for _, s := range order {
		labels[s.ID().String()] = s.Label()
	}

	led := ledger.New()
	exec := engine.NewExecutor()
	if opts.StepTimeout > 0 {
		exec = exec.WithTimeout(opts.StepTimeout)
	}
	eng := engine.New(reg, led, exec, f)
	if opts.Workers > 1 {
		eng = eng.WithWorkers(opts.Workers)
	}
	if r.logger != nil {
		eng = eng.WithLogger(r.logger)
	}

	started := time.Now()
	outcomes, err := eng.Run(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]report.Row, 0, len(outcomes))
	for _, o := range outcomes {
		rows = append(rows, report.Row{
			Label:   labels[o.StepID().String()],
			Outcome: o,
		})
	}

	result := &RunResult{
		RunID:    uuid.NewString(),
		Profile:  p.Name,
		Facts:    f,
		Rows:     rows,
		Summary:  led.Summary(),
		Started:  started,
		Duration: time.Since(started),
	}

	renderer := r.renderer(opts)
	if err := renderer.Render(r.meta(result), result.Summary, result.Rows); err != nil {
		return result, fmt.Errorf("rendering report: %w", err)
	}
	return result, nil
}

// Plan checks every step without applying anything and reports what a run
// would do on this host.
func (r *Rigger) Plan(ctx context.Context, ref string) ([]PlanEntry, facts.Facts, error) {
	f, err := r.Probe(ctx)
	if err != nil {
		return nil, facts.Facts{}, fmt.Errorf("probing environment: %w", err)
	}

	p, err := r.LoadProfile(ref)
	if err != nil {
		return nil, facts.Facts{}, err
	}

	reg, err := profile.NewBuilder(r.runner, r.fs).Build(p)
	if err != nil {
		return nil, facts.Facts{}, err
	}

	order, err := reg.ResolveOrder()
	if err != nil {
		return nil, facts.Facts{}, err
	}

	entries := make([]PlanEntry, 0, len(order))
	for _, s := range order {
		entries = append(entries, r.planStep(ctx, s, f))
	}
	return entries, f, nil
}

func (r *Rigger) planStep(ctx context.Context, s step.Step, f facts.Facts) PlanEntry {
	entry := PlanEntry{ID: s.ID().String(), Label: s.Label()}

	if !s.Applicable(f) {
		entry.State = PlanSkip
		entry.Detail = "precondition not met"
		return entry
	}

	satisfied, detail, err := s.Action().Check(ctx, f)
	switch {
	case err != nil:
		entry.State = PlanUnknown
		entry.Detail = err.Error()
	case satisfied:
		entry.State = PlanSatisfied
		entry.Detail = detail
	default:
		entry.State = PlanApply
		entry.Detail = detail
	}
	return entry
}

func (r *Rigger) renderer(opts RunOptions) report.Renderer {
	console := report.NewConsoleRenderer(r.out)
	if opts.ReportPath == "" {
		return console
	}
	return report.Multi(console, report.NewFileRenderer(opts.ReportPath, r.fs))
}

func (r *Rigger) meta(res *RunResult) report.Meta {
	return report.Meta{
		RunID:    res.RunID,
		Profile:  res.Profile,
		Facts:    res.Facts,
		Started:  res.Started,
		Duration: res.Duration,
	}
}

func (r *Rigger) warnf(ctx context.Context, msg string, fields ...ports.Field) {
	if r.logger != nil {
		r.logger.Warn(ctx, msg, fields...)
	}
}
