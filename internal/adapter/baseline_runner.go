package adapter

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	m "leela.dev/pkg/leela/internal/model"
)

// BaselineRunner is the host test-execution service: one instrumented run of
// the whole suite over the unmutated source, returning pass/fail per test
// plus per-location coverage. Invoked exactly once before mutation begins.
type BaselineRunner interface {
	Run(ctx context.Context, root m.Path, units []m.SourceUnit) (m.Baseline, error)
}

// GoTestBaselineRunner implements BaselineRunner on top of `go test -json`
// for the pass/fail pass and per-test cover profiles for the coverage pass.
type GoTestBaselineRunner struct{}

// NewGoTestBaselineRunner constructs a GoTestBaselineRunner.
func NewGoTestBaselineRunner() *GoTestBaselineRunner {
	return &GoTestBaselineRunner{}
}

// testEvent is the subset of `go test -json` output the runner consumes.
type testEvent struct {
	Action  string `json:"Action"`
	Package string `json:"Package"`
	Test    string `json:"Test"`
}

// Run executes the suite once, then replays each test individually with a
// cover profile to attribute covered lines to that test.
func (r *GoTestBaselineRunner) Run(ctx context.Context, root m.Path, units []m.SourceUnit) (m.Baseline, error) {
	modulePath, err := readModulePath(root)
	if err != nil {
		return m.Baseline{}, fmt.Errorf("read module path: %w", err)
	}

	cmd := exec.CommandContext(ctx, "go", "test", "-count=1", "-json", "./...")
	cmd.Dir = string(root)

	var stdout bytes.Buffer

	cmd.Stdout = &stdout
	// A failing suite still produces parseable JSON; the per-test and
	// per-package fail actions carry the signal, so the exit status alone
	// is not an error.
	runErr := cmd.Run()

	tests, failed, parseErr := ParseTestEvents(&stdout, modulePath, root)
	if parseErr != nil {
		return m.Baseline{}, fmt.Errorf("parse baseline output: %w", parseErr)
	}

	// A non-zero exit that no recorded failure explains means the run
	// itself broke; proceeding would fabricate a green baseline.
	if runErr != nil && len(failed) == 0 {
		return m.Baseline{}, fmt.Errorf("baseline run failed: %w", runErr)
	}

	baseline := m.Baseline{
		Tests:     tests,
		Failed:    failed,
		CoveredBy: make(map[m.SiteKey][]string),
	}

	if len(failed) > 0 {
		// No point attributing coverage to a red suite; the engine aborts.
		return baseline, nil
	}

	unitPaths := make(map[m.Path]bool, len(units))
	for _, unit := range units {
		unitPaths[unit.Origin] = true
	}

	for _, test := range tests {
		keys, err := r.coverageForTest(ctx, root, modulePath, test, unitPaths)
		if err != nil {
			slog.Warn("per-test coverage collection failed", "test", test.ID, "error", err)
			continue
		}

		for key := range keys {
			baseline.CoveredBy[key] = append(baseline.CoveredBy[key], test.ID)
		}
	}

	return baseline, nil
}

func (r *GoTestBaselineRunner) coverageForTest(ctx context.Context, root m.Path, modulePath string, test m.TestCase, unitPaths map[m.Path]bool) (map[m.SiteKey]bool, error) {
	profile, err := os.CreateTemp("", "leela-cover-*.out")
	if err != nil {
		return nil, err
	}

	profilePath := profile.Name()

	_ = profile.Close()

	defer func() { _ = os.Remove(profilePath) }()

	pkgDir, testName, err := SplitTestID(test.ID)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, "go", "test", "-count=1",
		"-run", "^"+testName+"$",
		"-coverprofile="+profilePath,
		"-coverpkg=./...",
		pkgDir,
	)
	cmd.Dir = string(root)

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(profilePath)
	if err != nil {
		return nil, err
	}

	keys, err := ParseCoverProfile(data, modulePath, root)
	if err != nil {
		return nil, err
	}

	for key := range keys {
		if !unitPaths[key.File] {
			delete(keys, key)
		}
	}

	return keys, nil
}

// ParseTestEvents consumes a `go test -json` stream and returns the tests
// in execution order plus the ids of failing tests. A package-level fail
// with no failing test of its own (a package that did not build) is
// reported as a failure under its package dir.
func ParseTestEvents(stream *bytes.Buffer, modulePath string, root m.Path) ([]m.TestCase, []string, error) {
	var (
		tests      []m.TestCase
		failed     []string
		failedPkgs []string
	)

	seen := make(map[string]bool)
	testFailures := make(map[string]bool)
	seenFailedPkg := make(map[string]bool)

	scanner := bufio.NewScanner(stream)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] != '{' {
			continue
		}

		var event testEvent
		if err := json.Unmarshal(line, &event); err != nil {
			continue
		}

		if event.Test == "" {
			if event.Action == "fail" {
				pkgDir := packageDir(event.Package, modulePath)
				if !seenFailedPkg[pkgDir] {
					seenFailedPkg[pkgDir] = true
					failedPkgs = append(failedPkgs, pkgDir)
				}
			}

			continue
		}

		if strings.Contains(event.Test, "/") {
			// Subtests are exercised through their parent.
			continue
		}

		pkgDir := packageDir(event.Package, modulePath)
		id := JoinTestID(pkgDir, event.Test)

		switch event.Action {
		case "run":
			if !seen[id] {
				seen[id] = true

				tests = append(tests, m.TestCase{
					ID:       id,
					Location: m.Path(filepath.Join(string(root), strings.TrimPrefix(pkgDir, "./"))),
				})
			}
		case "fail":
			failed = append(failed, id)
			testFailures[pkgDir] = true
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}

	// A package fail already explained by one of its tests adds nothing;
	// an unexplained one is a build failure and must turn the baseline red.
	for _, pkgDir := range failedPkgs {
		if !testFailures[pkgDir] {
			failed = append(failed, pkgDir)
		}
	}

	return tests, failed, nil
}

// ParseCoverProfile extracts covered source lines from a Go cover profile.
// Profile entries name files by import path; they are resolved back to
// absolute paths under root.
func ParseCoverProfile(data []byte, modulePath string, root m.Path) (map[m.SiteKey]bool, error) {
	keys := make(map[m.SiteKey]bool)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "mode:") {
			continue
		}

		var (
			file                          string
			startLine, startCol           int
			endLine, endCol, stmts, count int
		)

		colon := strings.LastIndex(line, ":")
		if colon < 0 {
			continue
		}

		file = line[:colon]

		if _, err := fmt.Sscanf(line[colon+1:], "%d.%d,%d.%d %d %d",
			&startLine, &startCol, &endLine, &endCol, &stmts, &count); err != nil {
			continue
		}

		if count == 0 {
			continue
		}

		rel := strings.TrimPrefix(strings.TrimPrefix(file, modulePath), "/")
		abs := m.Path(filepath.Join(string(root), rel))

		for l := startLine; l <= endLine; l++ {
			keys[m.SiteKey{File: abs, Line: l}] = true
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return keys, nil
}

func packageDir(importPath, modulePath string) string {
	if importPath == modulePath {
		return "./."
	}

	rel := strings.TrimPrefix(importPath, modulePath+"/")

	return "./" + rel
}

func readModulePath(root m.Path) (string, error) {
	data, err := os.ReadFile(filepath.Join(string(root), "go.mod"))
	if err != nil {
		return "", err
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "module ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "module ")), nil
		}
	}

	return "", fmt.Errorf("no module directive in %s/go.mod", root)
}
