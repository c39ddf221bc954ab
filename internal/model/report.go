package model

import "time"

// Status is the terminal classification of a mutant. Assigned exactly once.
type Status string

const (
	// StatusKilled indicates a mapped test failed against the mutant.
	StatusKilled Status = "killed"
	// StatusSurvived indicates every mapped test passed, or no test covered
	// the site at all.
	StatusSurvived Status = "survived"
	// StatusTimeout indicates the per-mutant timeout elapsed before the
	// mapped tests finished.
	StatusTimeout Status = "timeout"
	// StatusError indicates the harness itself failed outside normal test
	// failure.
	StatusError Status = "error"
	// StatusPruned indicates the type oracle classified the rewrite as
	// statically infeasible; the mutant was never scheduled.
	StatusPruned Status = "pruned"
	// StatusUnknown indicates the run was cancelled before the mutant was
	// scheduled. An unscheduled mutant was never disproved.
	StatusUnknown Status = "unknown"
)

// ExecutionResult is the outcome of classifying one mutant. It carries the
// site and rewrite so the aggregator can derive the full report from the
// result stream alone.
type ExecutionResult struct {
	MutantID      string
	Type          MutationType
	Site          MutationSite
	Original      string
	Replacement   string
	Status        Status
	KillingTest   string
	TestsRun      int
	Duration      time.Duration
	ReservedBytes uint64
}

// Record converts the result into its serializable report entry.
func (r ExecutionResult) Record() MutantRecord {
	return MutantRecord{
		ID:          r.MutantID,
		Type:        r.Type,
		File:        r.Site.File,
		Line:        r.Site.Line,
		Column:      r.Site.Column,
		Original:    r.Original,
		Replacement: r.Replacement,
		Status:      r.Status,
		KillingTest: r.KillingTest,
		DurationMS:  r.Duration.Milliseconds(),
	}
}

// RunProgress is a consistent point-in-time snapshot of an ongoing run,
// used for progress reporting without blocking execution.
type RunProgress struct {
	Counts StatusCounts
	Done   int
	Total  int
}

// StatusCounts holds running per-status totals.
type StatusCounts struct {
	Killed   int `yaml:"killed"`
	Survived int `yaml:"survived"`
	Timeout  int `yaml:"timeout"`
	Error    int `yaml:"error"`
	Pruned   int `yaml:"pruned"`
	Unknown  int `yaml:"unknown"`
}

// Add bumps the counter for the given status.
func (c *StatusCounts) Add(status Status) {
	switch status {
	case StatusKilled:
		c.Killed++
	case StatusSurvived:
		c.Survived++
	case StatusTimeout:
		c.Timeout++
	case StatusError:
		c.Error++
	case StatusPruned:
		c.Pruned++
	case StatusUnknown:
		c.Unknown++
	}
}

// Scheduled returns the number of mutants that reached execution (or the
// empty-coverage fast path). Pruned and Unknown mutants are excluded.
func (c StatusCounts) Scheduled() int {
	return c.Killed + c.Survived + c.Timeout + c.Error
}

// Score returns the mutation score in [0,1]: Killed over all scheduled
// mutants. A run with nothing scheduled scores 1.
func (c StatusCounts) Score() float64 {
	scheduled := c.Scheduled()
	if scheduled == 0 {
		return 1.0
	}

	return float64(c.Killed) / float64(scheduled)
}

// MutantRecord is the serializable per-mutant entry of a report.
type MutantRecord struct {
	ID          string       `yaml:"id"`
	Type        MutationType `yaml:"type"`
	File        Path         `yaml:"file"`
	Line        int          `yaml:"line"`
	Column      int          `yaml:"column"`
	Original    string       `yaml:"original"`
	Replacement string       `yaml:"replacement"`
	Status      Status       `yaml:"status"`
	KillingTest string       `yaml:"killing_test,omitempty"`
	DurationMS  int64        `yaml:"duration_ms"`
}

// UnitReport aggregates counts for a single source unit.
type UnitReport struct {
	Unit   Path         `yaml:"unit"`
	Counts StatusCounts `yaml:"counts"`
}

// Report is the stable, serializable aggregate of a run, derived solely
// from the execution result stream.
type Report struct {
	Units    []UnitReport   `yaml:"units"`
	Overall  StatusCounts   `yaml:"overall"`
	Score    float64        `yaml:"score"`
	Mutants  []MutantRecord `yaml:"mutants"`
	WallTime time.Duration  `yaml:"wall_time"`

	// FailedUnits lists source units skipped because they did not parse.
	FailedUnits []Path `yaml:"failed_units,omitempty"`
}

// Clean reports whether the run leaves nothing undetected: no survivors and
// no timeouts. Pruned and Unknown mutants do not affect this.
func (r Report) Clean() bool {
	return r.Overall.Survived == 0 && r.Overall.Timeout == 0
}
