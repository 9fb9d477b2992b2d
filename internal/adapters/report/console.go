package report

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rigger-dev/rigger/internal/domain/ledger"
	"github.com/rigger-dev/rigger/internal/domain/step"
)

// Status colors.
var (
	colorSuccess = lipgloss.AdaptiveColor{Light: "#40a02b", Dark: "#a6e3a1"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#df8e1d", Dark: "#f9e2af"}
	colorFailure = lipgloss.AdaptiveColor{Light: "#d20f39", Dark: "#f38ba8"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6c6f85", Dark: "#6c7086"}
)

// ConsoleRenderer writes a styled report to a writer.
type ConsoleRenderer struct {
	out          io.Writer
	titleStyle   lipgloss.Style
	successStyle lipgloss.Style
	warningStyle lipgloss.Style
	failureStyle lipgloss.Style
	mutedStyle   lipgloss.Style
}

// NewConsoleRenderer creates a ConsoleRenderer.
func NewConsoleRenderer(out io.Writer) *ConsoleRenderer {
	return &ConsoleRenderer{
		out:          out,
		titleStyle:   lipgloss.NewStyle().Bold(true),
		successStyle: lipgloss.NewStyle().Foreground(colorSuccess),
		warningStyle: lipgloss.NewStyle().Foreground(colorWarning),
		failureStyle: lipgloss.NewStyle().Foreground(colorFailure).Bold(true),
		mutedStyle:   lipgloss.NewStyle().Foreground(colorMuted),
	}
}

// Render writes the per-step rows and the summary block.
func (r *ConsoleRenderer) Render(meta Meta, summary ledger.Summary, rows []Row) error {
	r.printf("\n%s\n", r.titleStyle.Render("Provisioning Report"))
	r.printf("%s\n\n", r.mutedStyle.Render(fmt.Sprintf("run %s | %s | profile %s",
		meta.RunID, meta.Facts.String(), meta.Profile)))

	for _, row := range rows {
		switch row.Outcome.Status() {
		case step.StatusSuccess:
			r.printf("  %s %s  %s\n",
				r.successStyle.Render("✓"), row.Label,
				r.mutedStyle.Render(row.Outcome.Message()))
		case step.StatusWarning:
			r.printf("  %s %s  %s\n",
				r.warningStyle.Render("!"), row.Label,
				r.mutedStyle.Render(row.Outcome.Message()))
		case step.StatusFailure:
			r.printf("  %s %s  %s\n",
				r.failureStyle.Render("✗"), row.Label,
				r.failureStyle.Render(row.Outcome.Message()))
		}
	}

	r.printf("\n%s\n", r.titleStyle.Render("Summary"))
	r.printf("  %d succeeded, %d warnings, %d failed (%.0f%% success)\n",
		summary.Successes, summary.Warnings, summary.Failures, summary.Rate*100)
	r.printf("  %s\n", r.mutedStyle.Render(fmt.Sprintf("completed in %s", meta.Duration.Round(time.Millisecond))))
	return nil
}

func (r *ConsoleRenderer) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// Ensure ConsoleRenderer implements Renderer.
var _ Renderer = (*ConsoleRenderer)(nil)
