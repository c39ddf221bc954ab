package model

// CoverageMap maps mutation sites to the tests that exercise them. It is
// built exactly once from the instrumented baseline run and frozen; after
// construction it is safe for unsynchronized concurrent reads.
type CoverageMap struct {
	lineTests map[SiteKey][]string
	tests     []TestCase
}

// NewCoverageMap freezes the provided site-to-tests index. Test id slices
// are copied so later writes by the caller cannot leak in. The tests slice
// preserves baseline execution order.
func NewCoverageMap(lineTests map[SiteKey][]string, tests []TestCase) *CoverageMap {
	frozen := make(map[SiteKey][]string, len(lineTests))
	for key, ids := range lineTests {
		frozen[key] = append([]string(nil), ids...)
	}

	return &CoverageMap{
		lineTests: frozen,
		tests:     append([]TestCase(nil), tests...),
	}
}

// TestsFor returns the ids of tests covering the given site key, in
// baseline order. The returned slice must not be modified.
func (c *CoverageMap) TestsFor(key SiteKey) []string {
	return c.lineTests[key]
}

// Tests returns all baseline tests in their original execution order.
func (c *CoverageMap) Tests() []TestCase {
	return c.tests
}

// Sites returns the number of indexed site keys.
func (c *CoverageMap) Sites() int {
	return len(c.lineTests)
}

// Baseline is the raw outcome of the single instrumented baseline run,
// supplied by the host test-execution service.
type Baseline struct {
	// Tests in their original execution order.
	Tests []TestCase
	// Failed test ids. Any entry makes the whole run abort.
	Failed []string
	// CoveredBy records which tests executed each source location.
	CoveredBy map[SiteKey][]string
}

// AllowedLines restricts mutation generation to an allowed set of source
// lines (diff mode). A nil map permits everything; a file absent from a
// non-nil map permits nothing in that file.
type AllowedLines map[Path]map[int]bool

// Permits reports whether a location may be mutated under the filter.
func (a AllowedLines) Permits(file Path, line int) bool {
	if a == nil {
		return true
	}

	return a[file][line]
}
