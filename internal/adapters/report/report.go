// Package report renders run results to the console and to persisted files.
// Renderers receive rows already in resolved (topological) order and must
// not reorder them, so output stays reproducible across parallel runs.
package report

import (
	"time"

	"github.com/rigger-dev/rigger/internal/domain/facts"
	"github.com/rigger-dev/rigger/internal/domain/ledger"
	"github.com/rigger-dev/rigger/internal/domain/step"
)

// Row pairs a step's label with its recorded outcome.
type Row struct {
	Label   string
	Outcome step.Outcome
}

// Meta describes the run being reported.
type Meta struct {
	RunID    string
	Profile  string
	Facts    facts.Facts
	Started  time.Time
	Duration time.Duration
}

// Renderer writes a run report to some sink.
type Renderer interface {
	Render(meta Meta, summary ledger.Summary, rows []Row) error
}

// multi fans a report out to several renderers.
type multi struct {
	renderers []Renderer
}

// Multi returns a Renderer that renders to each of the given renderers,
// returning the first error.
func Multi(renderers ...Renderer) Renderer {
	return &multi{renderers: renderers}
}

func (m *multi) Render(meta Meta, summary ledger.Summary, rows []Row) error {
	for _, r := range m.renderers {
		if err := r.Render(meta, summary, rows); err != nil {
			return err
		}
	}
	return nil
}
