package adapter

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	m "leela.dev/pkg/leela/internal/model"
)

// fakeRunner records test invocations and answers with a scripted result.
type fakeRunner struct {
	calls  []string
	dirs   []string
	output string
	err    error
}

func (r *fakeRunner) RunTest(_ context.Context, workDir, pkgDir, testName string) (string, error) {
	r.calls = append(r.calls, JoinTestID(pkgDir, testName))
	r.dirs = append(r.dirs, workDir)

	return r.output, r.err
}

func stageProject(t *testing.T) (m.Path, m.Mutant) {
	t.Helper()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"go.mod":       "module example.com/proj\n",
		"calc/calc.go": "package calc\n\nfunc Add(a, b int) int { return a + b }\n",
	})

	mutant := m.Mutant{
		ID: "deadbeefdeadbeef",
		Site: m.MutationSite{
			File: m.Path(filepath.Join(root, "calc", "calc.go")),
			Line: 3,
		},
		Original:    "+",
		Replacement: "-",
		MutatedCode: []byte("package calc\n\nfunc Add(a, b int) int { return a - b }\n"),
	}

	return m.Path(root), mutant
}

func TestLocalActivationService_AcquireStagesMutatedWorkspace(t *testing.T) {
	_, mutant := stageProject(t)

	runner := &fakeRunner{}
	service := NewLocalActivationService(NewLocalSourceFSAdapter(), runner, nil)

	session, err := service.Acquire(context.Background(), mutant)
	require.NoError(t, err)

	defer func() { require.NoError(t, session.Release(context.Background())) }()

	outcome, err := session.RunTest(context.Background(), "./calc:TestAdd")
	require.NoError(t, err)
	require.True(t, outcome.Passed)

	require.Equal(t, []string{"./calc:TestAdd"}, runner.calls)
	require.Len(t, runner.dirs, 1)

	staged, err := os.ReadFile(filepath.Join(runner.dirs[0], "calc", "calc.go"))
	require.NoError(t, err)
	require.Equal(t, mutant.MutatedCode, staged)
}

func TestLocalActivationService_OriginalSourceUntouched(t *testing.T) {
	root, mutant := stageProject(t)

	service := NewLocalActivationService(NewLocalSourceFSAdapter(), &fakeRunner{}, nil)

	session, err := service.Acquire(context.Background(), mutant)
	require.NoError(t, err)
	require.NoError(t, session.Release(context.Background()))

	original, err := os.ReadFile(filepath.Join(string(root), "calc", "calc.go"))
	require.NoError(t, err)
	require.Contains(t, string(original), "a + b")
}

func TestLocalSession_ExitErrorIsTestFailure(t *testing.T) {
	_, mutant := stageProject(t)

	// A real non-zero process exit, so errors.As finds an *exec.ExitError.
	cmd := exec.Command("sh", "-c", "exit 1")
	exitErr := cmd.Run()
	require.Error(t, exitErr)

	runner := &fakeRunner{output: "--- FAIL: TestAdd", err: exitErr}
	service := NewLocalActivationService(NewLocalSourceFSAdapter(), runner, nil)

	session, err := service.Acquire(context.Background(), mutant)
	require.NoError(t, err)

	defer func() { require.NoError(t, session.Release(context.Background())) }()

	outcome, err := session.RunTest(context.Background(), "./calc:TestAdd")
	require.NoError(t, err)
	require.False(t, outcome.Passed)
	require.Contains(t, outcome.Output, "FAIL")
}

func TestLocalSession_ContextErrorIsHarnessFault(t *testing.T) {
	_, mutant := stageProject(t)

	runner := &fakeRunner{err: errors.New("signal: killed")}
	service := NewLocalActivationService(NewLocalSourceFSAdapter(), runner, nil)

	session, err := service.Acquire(context.Background(), mutant)
	require.NoError(t, err)

	defer func() { require.NoError(t, session.Release(context.Background())) }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = session.RunTest(ctx, "./calc:TestAdd")
	require.ErrorIs(t, err, context.Canceled)
}

func TestLocalSession_ReleaseRemovesWorkspaceAndIsIdempotent(t *testing.T) {
	_, mutant := stageProject(t)

	runner := &fakeRunner{}
	service := NewLocalActivationService(NewLocalSourceFSAdapter(), runner, nil)

	session, err := service.Acquire(context.Background(), mutant)
	require.NoError(t, err)

	_, err = session.RunTest(context.Background(), "./calc:TestAdd")
	require.NoError(t, err)

	workDir := runner.dirs[0]

	require.NoError(t, session.Release(context.Background()))

	_, statErr := os.Stat(workDir)
	require.True(t, os.IsNotExist(statErr))

	require.NoError(t, session.Release(context.Background()))

	_, err = session.RunTest(context.Background(), "./calc:TestAdd")
	require.Error(t, err)
}

func TestLocalSession_ResetHookRunsOncePerRelease(t *testing.T) {
	_, mutant := stageProject(t)

	resets := 0
	service := NewLocalActivationService(NewLocalSourceFSAdapter(), &fakeRunner{}, func(context.Context) error {
		resets++
		return nil
	})

	session, err := service.Acquire(context.Background(), mutant)
	require.NoError(t, err)

	require.NoError(t, session.Release(context.Background()))
	require.NoError(t, session.Release(context.Background()))
	require.Equal(t, 1, resets)
}

func TestLocalActivationService_AcquireFailsOutsideProject(t *testing.T) {
	mutant := m.Mutant{
		ID:          "deadbeefdeadbeef",
		Site:        m.MutationSite{File: m.Path(filepath.Join(t.TempDir(), "orphan.go"))},
		MutatedCode: []byte("package p\n"),
	}

	service := NewLocalActivationService(NewLocalSourceFSAdapter(), &fakeRunner{}, nil)

	_, err := service.Acquire(context.Background(), mutant)
	require.Error(t, err)
}
