package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"leela.dev/pkg/leela/internal/adapter"
	"leela.dev/pkg/leela/internal/controller"
	m "leela.dev/pkg/leela/internal/model"
	pkg "leela.dev/pkg/leela/pkg"
)

// RunArgs contains the settings for a mutation run.
type RunArgs struct {
	// Paths to mutate. A path ending in "..." is walked recursively.
	Paths []m.Path
	// Exclude holds regular expressions; matching file paths are skipped.
	Exclude []string
	// DiffBase restricts mutation to lines changed since this git ref.
	// Empty means no restriction.
	DiffBase string
	// Workers is the requested parallelism limit.
	Workers int
	// MemoryLimit is the aggregate memory ceiling in bytes.
	MemoryLimit uint64
	// MutantCost is the assumed per-mutant memory footprint in bytes.
	MutantCost uint64
	// Timeout bounds each mutant's test batch.
	Timeout time.Duration
	// UseTypes enables type-directed feasibility pruning.
	UseTypes bool
	// UseCoverage enables coverage-directed test selection.
	UseCoverage bool
	// Types selects mutation categories; empty means all.
	Types []m.MutationType
}

// Engine drives a full mutation run: source discovery, baseline, generation,
// pruning, scheduling, and reporting.
type Engine interface {
	// Run classifies every generated mutant and returns the final report.
	Run(ctx context.Context, args RunArgs) (m.Report, error)

	// Estimate generates mutants without executing any of them.
	Estimate(ctx context.Context, args RunArgs) ([]m.Mutant, error)
}

type engine struct {
	fs         adapter.SourceFSAdapter
	goFiles    adapter.GoFileAdapter
	baseline   adapter.BaselineRunner
	sessions   adapter.ActivationService
	lineFilter adapter.LineFilter
	ui         controller.UI
	generator  Generator
	oracle     Oracle
}

// NewEngine wires the engine from its collaborators. The line filter may be
// nil when diff mode is never used.
func NewEngine(
	fs adapter.SourceFSAdapter,
	goFiles adapter.GoFileAdapter,
	baseline adapter.BaselineRunner,
	sessions adapter.ActivationService,
	lineFilter adapter.LineFilter,
	ui controller.UI,
) Engine {
	return &engine{
		fs:         fs,
		goFiles:    goFiles,
		baseline:   baseline,
		sessions:   sessions,
		lineFilter: lineFilter,
		ui:         ui,
		generator:  NewGenerator(goFiles),
		oracle:     NewOracle(),
	}
}

func (e *engine) Run(ctx context.Context, args RunArgs) (m.Report, error) {
	start := time.Now()

	scheduler, err := NewScheduler(e.sessions, SchedulerConfig{
		Workers:     args.Workers,
		MemoryLimit: args.MemoryLimit,
		MutantCost:  args.MutantCost,
		Timeout:     args.Timeout,
		UseCoverage: args.UseCoverage,
	})
	if err != nil {
		return m.Report{}, err
	}

	units, err := e.collectUnits(ctx, args)
	if err != nil {
		return m.Report{}, err
	}

	if len(units) == 0 {
		return m.Report{Score: 1.0}, nil
	}

	root, err := e.fs.FindProjectRoot(ctx, units[0].Origin)
	if err != nil {
		return m.Report{}, fmt.Errorf("find project root: %w", err)
	}

	allowed, err := e.allowedLines(ctx, args)
	if err != nil {
		return m.Report{}, err
	}

	slog.Info("running baseline suite", "root", root, "units", len(units))

	baseline, err := e.baseline.Run(ctx, root, units)
	if err != nil {
		return m.Report{}, fmt.Errorf("baseline run: %w", err)
	}

	coverage, err := BuildCoverageIndex(baseline)
	if err != nil {
		return m.Report{}, err
	}

	mutants, failedUnits := e.generateAll(ctx, units, allowed, args.Types)
	feasible, pruned := Partition(e.oracle, mutants, args.UseTypes)

	slog.Info("mutants generated",
		"total", len(mutants), "feasible", len(feasible), "pruned", len(pruned))

	journal, err := pkg.NewJournal[m.ExecutionResult]()
	if err != nil {
		return m.Report{}, fmt.Errorf("create result journal: %w", err)
	}

	defer func() {
		if err := journal.Close(); err != nil {
			slog.Warn("failed to close result journal", "error", err)
		}
	}()

	aggregator := NewAggregator(journal, len(mutants))
	aggregator.OnRecord(func(progress m.RunProgress) {
		e.ui.Progress(ctx, progress)
	})

	if err := e.ui.Start(ctx, len(mutants)); err != nil {
		return m.Report{}, fmt.Errorf("start ui: %w", err)
	}

	defer e.ui.Close(ctx)

	for _, mutant := range pruned {
		aggregator.Record(prunedResult(mutant))
	}

	if err := scheduler.Run(ctx, feasible, coverage, aggregator); err != nil {
		return m.Report{}, err
	}

	report, err := aggregator.Report(time.Since(start), failedUnits)
	if err != nil {
		return m.Report{}, fmt.Errorf("build report: %w", err)
	}

	if err := e.ui.DisplayReport(ctx, report); err != nil {
		return m.Report{}, fmt.Errorf("display report: %w", err)
	}

	return report, nil
}

func (e *engine) Estimate(ctx context.Context, args RunArgs) ([]m.Mutant, error) {
	units, err := e.collectUnits(ctx, args)
	if err != nil {
		return nil, err
	}

	allowed, err := e.allowedLines(ctx, args)
	if err != nil {
		return nil, err
	}

	mutants, _ := e.generateAll(ctx, units, allowed, args.Types)
	feasible, _ := Partition(e.oracle, mutants, args.UseTypes)

	if err := e.ui.DisplayEstimation(ctx, feasible); err != nil {
		return nil, fmt.Errorf("display estimation: %w", err)
	}

	return feasible, nil
}

// collectUnits walks the requested paths and loads every eligible Go source
// file. Test files and excluded paths are never mutated.
func (e *engine) collectUnits(ctx context.Context, args RunArgs) ([]m.SourceUnit, error) {
	exclude, err := compileExcludes(args.Exclude)
	if err != nil {
		return nil, err
	}

	var units []m.SourceUnit

	seen := make(map[m.Path]bool)

	for _, path := range args.Paths {
		root, recursive := splitRecursive(path)

		err := e.fs.Walk(ctx, root, recursive, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if info.IsDir() || !eligibleSource(file, exclude) {
				return nil
			}

			origin := m.Path(file)
			if seen[origin] {
				return nil
			}

			seen[origin] = true

			unit, err := e.loadUnit(ctx, origin)
			if err != nil {
				return err
			}

			units = append(units, unit)

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", root, err)
		}
	}

	return units, nil
}

func (e *engine) loadUnit(ctx context.Context, origin m.Path) (m.SourceUnit, error) {
	content, err := e.fs.ReadFile(ctx, origin)
	if err != nil {
		return m.SourceUnit{}, fmt.Errorf("read %s: %w", origin, err)
	}

	hash, err := e.fs.HashFile(ctx, origin)
	if err != nil {
		return m.SourceUnit{}, fmt.Errorf("hash %s: %w", origin, err)
	}

	return m.SourceUnit{Origin: origin, Hash: hash, Content: content}, nil
}

func (e *engine) allowedLines(ctx context.Context, args RunArgs) (m.AllowedLines, error) {
	if args.DiffBase == "" {
		return nil, nil
	}

	if e.lineFilter == nil {
		return nil, &ConfigError{Reason: "diff mode requested but no line filter is configured"}
	}

	allowed, err := e.lineFilter.ChangedLines(ctx, args.DiffBase)
	if err != nil {
		return nil, fmt.Errorf("diff against %s: %w", args.DiffBase, err)
	}

	return allowed, nil
}

// generateAll produces mutants for every unit. Units that fail to parse are
// reported and skipped; the run continues over the rest.
func (e *engine) generateAll(ctx context.Context, units []m.SourceUnit, allowed m.AllowedLines, types []m.MutationType) ([]m.Mutant, []m.Path) {
	var (
		mutants     []m.Mutant
		failedUnits []m.Path
	)

	for _, unit := range units {
		generated, err := e.generator.Generate(ctx, unit, allowed, types...)
		if err != nil {
			var parseErr *ParseError
			if errors.As(err, &parseErr) {
				slog.Warn("skipping unparsable source unit", "unit", unit.Origin, "error", parseErr.Err)
				failedUnits = append(failedUnits, unit.Origin)

				continue
			}

			slog.Error("mutant generation failed", "unit", unit.Origin, "error", err)
			failedUnits = append(failedUnits, unit.Origin)

			continue
		}

		mutants = append(mutants, generated...)
	}

	return mutants, failedUnits
}

func prunedResult(mutant m.Mutant) m.ExecutionResult {
	return m.ExecutionResult{
		MutantID:    mutant.ID,
		Type:        mutant.Type,
		Site:        mutant.Site,
		Original:    mutant.Original,
		Replacement: mutant.Replacement,
		Status:      m.StatusPruned,
	}
}

func compileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))

	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, &ConfigError{Reason: fmt.Sprintf("invalid exclude pattern %q: %v", pattern, err)}
		}

		compiled = append(compiled, re)
	}

	return compiled, nil
}

func splitRecursive(path m.Path) (m.Path, bool) {
	p := string(path)

	if strings.HasSuffix(p, "...") {
		trimmed := filepath.Clean(strings.TrimSuffix(p, "..."))
		if trimmed == "" {
			trimmed = "."
		}

		return m.Path(trimmed), true
	}

	return path, false
}

func eligibleSource(file string, exclude []*regexp.Regexp) bool {
	if filepath.Ext(file) != ".go" || strings.HasSuffix(file, "_test.go") {
		return false
	}

	for _, re := range exclude {
		if re.MatchString(file) {
			return false
		}
	}

	return true
}
