package domain

import (
	"log/slog"

	m "leela.dev/pkg/leela/internal/model"
)

// BuildCoverageIndex turns the raw baseline outcome into the frozen
// coverage map. It is the single construction point: after it returns, the
// map is only ever read. A baseline with failing tests aborts the run with
// a *BaselineFailure before any mutant is generated or scheduled.
func BuildCoverageIndex(baseline m.Baseline) (*m.CoverageMap, error) {
	if len(baseline.Failed) > 0 {
		return nil, &BaselineFailure{FailedTests: baseline.Failed}
	}

	order := make(map[string]int, len(baseline.Tests))
	for i, test := range baseline.Tests {
		order[test.ID] = i
	}

	lineTests := make(map[m.SiteKey][]string, len(baseline.CoveredBy))

	for key, ids := range baseline.CoveredBy {
		ordered := append([]string(nil), ids...)
		sortByBaselineOrder(ordered, order)
		lineTests[key] = ordered
	}

	index := m.NewCoverageMap(lineTests, baseline.Tests)

	slog.Debug("coverage index built", "sites", index.Sites(), "tests", len(baseline.Tests))

	return index, nil
}

// sortByBaselineOrder sorts test ids by their baseline execution position.
// Ids missing from the baseline (should not happen) sort last, stably.
func sortByBaselineOrder(ids []string, order map[string]int) {
	position := func(id string) int {
		if p, ok := order[id]; ok {
			return p
		}

		return len(order)
	}

	// Insertion sort: covering sets are small and mostly ordered already.
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && position(ids[j]) < position(ids[j-1]); j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
}
