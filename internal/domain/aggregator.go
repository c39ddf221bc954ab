package domain

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	m "leela.dev/pkg/leela/internal/model"
	pkg "leela.dev/pkg/leela/pkg"
)

// Aggregator consumes the execution result stream incrementally, in any
// order, and maintains running counts per source unit and overall. Counts
// are reproducible regardless of worker scheduling order. Full results are
// spilled to a journal so the final report can replay them without holding
// every result in memory.
type Aggregator struct {
	mu      sync.Mutex
	overall m.StatusCounts
	units   map[m.Path]*m.StatusCounts
	total   int
	done    int
	journal pkg.Journal[m.ExecutionResult]
	onWrite func(m.RunProgress)
}

// NewAggregator creates an Aggregator expecting total results.
func NewAggregator(journal pkg.Journal[m.ExecutionResult], total int) *Aggregator {
	return &Aggregator{
		units:   make(map[m.Path]*m.StatusCounts),
		total:   total,
		journal: journal,
	}
}

// OnRecord registers a callback invoked with a fresh snapshot after every
// recorded result. Used for progress reporting; must be set before the
// scheduler starts.
func (a *Aggregator) OnRecord(fn func(m.RunProgress)) {
	a.onWrite = fn
}

// Record consumes one execution result. Safe for concurrent producers.
func (a *Aggregator) Record(result m.ExecutionResult) {
	a.mu.Lock()

	a.overall.Add(result.Status)

	unit := a.units[result.Site.File]
	if unit == nil {
		unit = &m.StatusCounts{}
		a.units[result.Site.File] = unit
	}

	unit.Add(result.Status)
	a.done++

	progress := m.RunProgress{Counts: a.overall, Done: a.done, Total: a.total}
	callback := a.onWrite

	a.mu.Unlock()

	if a.journal != nil {
		if err := a.journal.Append(result); err != nil {
			slog.Error("failed to journal execution result", "mutant", result.MutantID, "error", err)
		}
	}

	if callback != nil {
		callback(progress)
	}
}

// Snapshot returns a consistent point-in-time view of the counters without
// blocking ongoing execution.
func (a *Aggregator) Snapshot() m.RunProgress {
	a.mu.Lock()
	defer a.mu.Unlock()

	return m.RunProgress{Counts: a.overall, Done: a.done, Total: a.total}
}

// Report materializes the final report from the counters and the journaled
// result stream. Units and mutants are sorted for reproducible output.
func (a *Aggregator) Report(wallTime time.Duration, failedUnits []m.Path) (m.Report, error) {
	a.mu.Lock()

	report := m.Report{
		Overall:     a.overall,
		Score:       a.overall.Score(),
		WallTime:    wallTime,
		FailedUnits: append([]m.Path(nil), failedUnits...),
	}

	for unit, counts := range a.units {
		report.Units = append(report.Units, m.UnitReport{Unit: unit, Counts: *counts})
	}

	a.mu.Unlock()

	sort.Slice(report.Units, func(i, j int) bool {
		return report.Units[i].Unit < report.Units[j].Unit
	})

	if a.journal != nil {
		err := a.journal.Range(func(_ uint64, result m.ExecutionResult) error {
			report.Mutants = append(report.Mutants, result.Record())
			return nil
		})
		if err != nil {
			return m.Report{}, err
		}

		sort.Slice(report.Mutants, func(i, j int) bool {
			left, right := report.Mutants[i], report.Mutants[j]
			if left.File != right.File {
				return left.File < right.File
			}

			if left.Line != right.Line {
				return left.Line < right.Line
			}

			return left.ID < right.ID
		})
	}

	return report, nil
}
