package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/rigger-dev/rigger/internal/domain/ledger"
	"github.com/rigger-dev/rigger/internal/ports"
)

// FileRenderer persists a plain-text report artifact.
type FileRenderer struct {
	path string
	fs   ports.FileSystem
}

// NewFileRenderer creates a FileRenderer writing to path.
func NewFileRenderer(path string, fs ports.FileSystem) *FileRenderer {
	return &FileRenderer{path: path, fs: fs}
}

// Render writes the full report to the configured file.
func (r *FileRenderer) Render(meta Meta, summary ledger.Summary, rows []Row) error {
	var b strings.Builder

	fmt.Fprintf(&b, "rigger provisioning report\n")
	fmt.Fprintf(&b, "run:      %s\n", meta.RunID)
	fmt.Fprintf(&b, "profile:  %s\n", meta.Profile)
	fmt.Fprintf(&b, "host:     %s\n", meta.Facts.String())
	fmt.Fprintf(&b, "started:  %s\n", meta.Started.Format(time.RFC3339))
	fmt.Fprintf(&b, "duration: %s\n\n", meta.Duration.Round(time.Millisecond))

	for _, row := range rows {
		fmt.Fprintf(&b, "[%s] %-40s %s\n",
			strings.ToUpper(row.Outcome.Status().String()), row.Label, row.Outcome.Message())
	}

	fmt.Fprintf(&b, "\nsummary: %d succeeded, %d warnings, %d failed (%.0f%% success)\n",
		summary.Successes, summary.Warnings, summary.Failures, summary.Rate*100)

	return r.fs.WriteFile(ports.ExpandPath(r.path), []byte(b.String()), 0o644)
}

// Ensure FileRenderer implements Renderer.
var _ Renderer = (*FileRenderer)(nil)
