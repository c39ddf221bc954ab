package domain

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"leela.dev/pkg/leela/internal/adapter"
	m "leela.dev/pkg/leela/internal/model"
)

// ResultSink consumes the scheduler's outcome stream. Implementations must
// tolerate concurrent calls from multiple workers.
type ResultSink interface {
	Record(result m.ExecutionResult)
}

// SchedulerConfig bounds the worker pool and its resources.
type SchedulerConfig struct {
	// Workers is the requested parallelism limit. The effective pool size
	// is min(Workers, available hardware parallelism).
	Workers int
	// MemoryLimit is the aggregate memory ceiling in bytes.
	MemoryLimit uint64
	// MutantCost is the memory reserved per in-flight mutant, in bytes.
	// Clamped to MemoryLimit so a single worker can always run.
	MutantCost uint64
	// Timeout bounds each mutant's whole test batch.
	Timeout time.Duration
	// UseCoverage selects mapped tests from the coverage index. When
	// false, every mutant runs the full baseline suite.
	UseCoverage bool
}

// Scheduler runs feasible mutants on a bounded worker pool with mutation
// isolation, per-mutant timeouts, and memory backpressure.
type Scheduler struct {
	sessions adapter.ActivationService
	cfg      SchedulerConfig
	workers  int
	cost     int64
}

// NewScheduler validates the configuration and builds a Scheduler. Invalid
// parallelism or memory settings yield a *ConfigError before run start.
func NewScheduler(sessions adapter.ActivationService, cfg SchedulerConfig) (*Scheduler, error) {
	if cfg.Workers <= 0 {
		return nil, &ConfigError{Reason: "parallelism limit must be a positive integer"}
	}

	if cfg.MemoryLimit == 0 {
		return nil, &ConfigError{Reason: "memory ceiling must be a positive integer"}
	}

	if cfg.Timeout <= 0 {
		return nil, &ConfigError{Reason: "mutation timeout must be positive"}
	}

	workers := cfg.Workers
	if hw := runtime.NumCPU(); workers > hw {
		workers = hw
	}

	cost := cfg.MutantCost
	if cost == 0 || cost > cfg.MemoryLimit {
		cost = cfg.MemoryLimit
	}

	return &Scheduler{
		sessions: sessions,
		cfg:      cfg,
		workers:  workers,
		cost:     int64(cost),
	}, nil
}

// Run classifies every mutant exactly once and streams outcomes to the
// sink, in completion order. Cancelling ctx stops new admissions; in-flight
// executions finish naturally or time out, and never-started mutants are
// reported as Unknown.
func (s *Scheduler) Run(ctx context.Context, mutants []m.Mutant, coverage *m.CoverageMap, sink ResultSink) error {
	memory := semaphore.NewWeighted(int64(s.cfg.MemoryLimit))

	var group errgroup.Group

	group.SetLimit(s.workers)

	admitted := 0

	for _, mutant := range mutants {
		if ctx.Err() != nil {
			break
		}

		testIDs := s.mappedTests(mutant, coverage)

		// A mutant nothing covers cannot possibly be detected; running it
		// would waste resources.
		if len(testIDs) == 0 {
			sink.Record(resultFor(mutant, m.StatusSurvived, "", 0, 0, 0))
			admitted++

			continue
		}

		// Admission gate: reserve memory before handing the mutant to the
		// pool. Blocks while aggregate reservations would exceed the
		// ceiling; in-flight work is never aborted to reclaim memory.
		if err := memory.Acquire(ctx, s.cost); err != nil {
			break
		}

		group.Go(func() error {
			defer memory.Release(s.cost)

			sink.Record(s.execute(mutant, testIDs))

			return nil
		})

		admitted++
	}

	// Unscheduled mutants were never disproved; they must not be counted
	// as undetected.
	for _, mutant := range mutants[admitted:] {
		sink.Record(resultFor(mutant, m.StatusUnknown, "", 0, 0, 0))
	}

	if err := group.Wait(); err != nil {
		return err
	}

	if ctx.Err() != nil {
		slog.Info("scheduler cancelled", "admitted", admitted, "unknown", len(mutants)-admitted)
	}

	return nil
}

func (s *Scheduler) mappedTests(mutant m.Mutant, coverage *m.CoverageMap) []string {
	if s.cfg.UseCoverage {
		return coverage.TestsFor(mutant.Site.Key())
	}

	tests := coverage.Tests()
	ids := make([]string, len(tests))

	for i, test := range tests {
		ids[i] = test.ID
	}

	return ids
}

// execute activates the mutant for the duration of exactly one test batch,
// confined to this worker. The batch context derives from Background, not
// the run context: cancellation is cooperative and must not kill work in
// flight, only the per-mutant timeout may.
func (s *Scheduler) execute(mutant m.Mutant, testIDs []string) m.ExecutionResult {
	start := time.Now()

	runCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
	defer cancel()

	session, err := s.sessions.Acquire(runCtx, mutant)
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return resultFor(mutant, m.StatusTimeout, "", 0, time.Since(start), uint64(s.cost))
		}

		slog.Error("failed to acquire activation session", "mutant", mutant.ID, "error", err)

		return resultFor(mutant, m.StatusError, "", 0, time.Since(start), uint64(s.cost))
	}

	defer func() {
		// Release is the reversal guarantee: no residual alteration state
		// may survive this worker's batch.
		if err := session.Release(context.Background()); err != nil {
			slog.Error("failed to release activation session", "mutant", mutant.ID, "error", err)
		}
	}()

	testsRun := 0

	for _, testID := range testIDs {
		outcome, err := session.RunTest(runCtx, testID)
		if err != nil {
			if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
				return resultFor(mutant, m.StatusTimeout, "", testsRun, time.Since(start), uint64(s.cost))
			}

			slog.Warn("harness fault while testing mutant", "mutant", mutant.ID, "test", testID, "error", err)

			return resultFor(mutant, m.StatusError, "", testsRun, time.Since(start), uint64(s.cost))
		}

		testsRun++

		// Mapped tests run in baseline order; the first failure kills the
		// mutant and ends the batch.
		if !outcome.Passed {
			return resultFor(mutant, m.StatusKilled, testID, testsRun, time.Since(start), uint64(s.cost))
		}
	}

	return resultFor(mutant, m.StatusSurvived, "", testsRun, time.Since(start), uint64(s.cost))
}

func resultFor(mutant m.Mutant, status m.Status, killingTest string, testsRun int, duration time.Duration, reserved uint64) m.ExecutionResult {
	return m.ExecutionResult{
		MutantID:      mutant.ID,
		Type:          mutant.Type,
		Site:          mutant.Site,
		Original:      mutant.Original,
		Replacement:   mutant.Replacement,
		Status:        status,
		KillingTest:   killingTest,
		TestsRun:      testsRun,
		Duration:      duration,
		ReservedBytes: reserved,
	}
}
