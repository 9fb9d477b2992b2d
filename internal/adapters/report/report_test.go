package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rigger-dev/rigger/internal/domain/facts"
	"github.com/rigger-dev/rigger/internal/domain/ledger"
	"github.com/rigger-dev/rigger/internal/domain/step"
	"github.com/rigger-dev/rigger/internal/testutil/mocks"
)

func sampleMeta() Meta {
	return Meta{
		RunID:    "0b7f9a2e",
		Profile:  "workstation",
		Facts:    facts.New("debian", "12", facts.ArchX8664),
		Started:  time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
		Duration: 1234 * time.Millisecond,
	}
}

func sampleRows() []Row {
	return []Row{
		{Label: "install git", Outcome: step.NewOutcome(step.MustNewID("pkg:git"), step.StatusSuccess, "installed git")},
		{Label: "install zsh", Outcome: step.NewOutcome(step.MustNewID("pkg:zsh"), step.StatusWarning, "package zsh not found")},
		{Label: "enable ufw", Outcome: step.NewOutcome(step.MustNewID("toggle:ufw"), step.StatusFailure, "unit not found")},
	}
}

func sampleSummary() ledger.Summary {
	return ledger.Summary{Successes: 1, Warnings: 1, Failures: 1, Rate: 1.0 / 3.0}
}

func TestConsoleRenderer_Render(t *testing.T) {
	var buf bytes.Buffer
	err := NewConsoleRenderer(&buf).Render(sampleMeta(), sampleSummary(), sampleRows())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Provisioning Report",
		"run 0b7f9a2e",
		"profile workstation",
		"debian/12/x86_64",
		"install git",
		"install zsh",
		"enable ufw",
		"unit not found",
		"1 succeeded, 1 warnings, 1 failed (33% success)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConsoleRenderer_KeepsRowOrder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewConsoleRenderer(&buf).Render(sampleMeta(), sampleSummary(), sampleRows()); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	out := buf.String()
	git := strings.Index(out, "install git")
	zsh := strings.Index(out, "install zsh")
	ufw := strings.Index(out, "enable ufw")
	if !(git < zsh && zsh < ufw) {
		t.Errorf("rows reordered: git=%d zsh=%d ufw=%d", git, zsh, ufw)
	}
}

func TestFileRenderer_Render(t *testing.T) {
	fs := mocks.NewFileSystem()
	err := NewFileRenderer("/var/log/rigger/run.txt", fs).Render(sampleMeta(), sampleSummary(), sampleRows())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	data, err := fs.ReadFile("/var/log/rigger/run.txt")
	if err != nil {
		t.Fatalf("report file not written: %v", err)
	}

	out := string(data)
	for _, want := range []string{
		"run:      0b7f9a2e",
		"profile:  workstation",
		"[SUCCESS]",
		"[WARNING]",
		"[FAILURE]",
		"1 succeeded, 1 warnings, 1 failed (33% success)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

type failingRenderer struct{ err error }

func (r failingRenderer) Render(Meta, ledger.Summary, []Row) error { return r.err }

func TestMulti_FansOutAndStopsOnError(t *testing.T) {
	var buf bytes.Buffer
	boom := errors.New("disk full")

	err := Multi(NewConsoleRenderer(&buf), failingRenderer{err: boom}).
		Render(sampleMeta(), sampleSummary(), sampleRows())
	if !errors.Is(err, boom) {
		t.Errorf("Render() error = %v, want first renderer error", err)
	}
	if buf.Len() == 0 {
		t.Error("earlier renderers should still have run")
	}
}
