package adapter

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// TestRunnerAdapter abstracts single-test execution for mutation testing.
type TestRunnerAdapter interface {
	// RunTest runs exactly one named test of one package, from the given
	// working directory. Returns the combined stdout/stderr output; the
	// error is non-nil when the test failed or could not be run.
	RunTest(ctx context.Context, workDir, pkgDir, testName string) (string, error)
}

// LocalTestRunnerAdapter provides a concrete implementation using os/exec.
type LocalTestRunnerAdapter struct{}

// NewLocalTestRunnerAdapter constructs a LocalTestRunnerAdapter.
func NewLocalTestRunnerAdapter() *LocalTestRunnerAdapter {
	return &LocalTestRunnerAdapter{}
}

// RunTest runs 'go test -run ^name$' for a single package.
func (a *LocalTestRunnerAdapter) RunTest(ctx context.Context, workDir, pkgDir, testName string) (string, error) {
	cmd := exec.CommandContext(ctx, "go", "test", "-count=1", "-run", "^"+testName+"$", pkgDir)
	cmd.Dir = workDir

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	return stdout.String() + stderr.String(), err
}

// SplitTestID splits a "pkgDir:TestName" test id into its parts.
func SplitTestID(id string) (pkgDir, testName string, err error) {
	idx := strings.LastIndex(id, ":")
	if idx <= 0 || idx == len(id)-1 {
		return "", "", fmt.Errorf("malformed test id %q", id)
	}

	return id[:idx], id[idx+1:], nil
}

// JoinTestID builds the canonical "pkgDir:TestName" test id.
func JoinTestID(pkgDir, testName string) string {
	return pkgDir + ":" + testName
}
