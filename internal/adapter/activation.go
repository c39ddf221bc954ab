package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"

	m "leela.dev/pkg/leela/internal/model"
)

// ActivationSession holds exactly one installed mutant for the duration of
// one test batch. Sessions are confined to the worker that acquired them;
// Release must fully reverse the installation, leaving no residual state.
type ActivationSession interface {
	// RunTest runs one test against the installed mutant. The returned
	// error is non-nil only for harness faults (including context
	// deadline); an ordinary test failure is reported via TestOutcome.
	RunTest(ctx context.Context, testID string) (TestOutcome, error)

	// Release tears the session down and reverses the installation.
	// Always safe to call, exactly once.
	Release(ctx context.Context) error
}

// TestOutcome is the result of running one test inside a session.
type TestOutcome struct {
	Passed bool
	Output string
}

// ActivationService installs mutants for execution. Each Acquire yields an
// isolated session; two live sessions never observe each other's mutant.
type ActivationService interface {
	Acquire(ctx context.Context, mutant m.Mutant) (ActivationSession, error)
}

// ResetHook is invoked after every session release, for host integrations
// that cache state across runs (route tables, code caches). Optional.
type ResetHook func(ctx context.Context) error

// LocalActivationService implements activation through per-mutant workspace
// copies: the project is copied to a temp dir, the mutated file replaces
// the original there, and tests run inside the copy. Isolation comes from
// the process and filesystem boundary; reversal is deleting the copy.
type LocalActivationService struct {
	fs     SourceFSAdapter
	runner TestRunnerAdapter
	reset  ResetHook
}

// NewLocalActivationService constructs a LocalActivationService.
func NewLocalActivationService(fs SourceFSAdapter, runner TestRunnerAdapter, reset ResetHook) *LocalActivationService {
	return &LocalActivationService{fs: fs, runner: runner, reset: reset}
}

// Acquire stages an isolated workspace with the mutant installed.
func (s *LocalActivationService) Acquire(ctx context.Context, mutant m.Mutant) (ActivationSession, error) {
	projectRoot, err := s.fs.FindProjectRoot(ctx, mutant.Site.File)
	if err != nil {
		return nil, fmt.Errorf("find project root: %w", err)
	}

	workDir, err := s.fs.CreateTempDir(ctx, "leela-mutant-*")
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	if err := s.fs.CopyDir(ctx, projectRoot, workDir); err != nil {
		s.cleanup(ctx, workDir)
		return nil, fmt.Errorf("copy project: %w", err)
	}

	relSource, err := s.fs.RelPath(ctx, projectRoot, mutant.Site.File)
	if err != nil {
		s.cleanup(ctx, workDir)
		return nil, fmt.Errorf("relativize source path: %w", err)
	}

	target := s.fs.JoinPath(ctx, string(workDir), string(relSource))
	if err := s.fs.WriteFile(ctx, target, mutant.MutatedCode, 0o600); err != nil {
		s.cleanup(ctx, workDir)
		return nil, fmt.Errorf("install mutant: %w", err)
	}

	return &localSession{service: s, workDir: workDir, mutantID: mutant.ID}, nil
}

func (s *LocalActivationService) cleanup(ctx context.Context, workDir m.Path) {
	if err := s.fs.RemoveAll(ctx, workDir); err != nil {
		slog.Error("failed to remove mutant workspace", "workDir", workDir, "error", err)
	}
}

type localSession struct {
	service  *LocalActivationService
	workDir  m.Path
	mutantID string
	released bool
}

func (s *localSession) RunTest(ctx context.Context, testID string) (TestOutcome, error) {
	if s.released {
		return TestOutcome{}, errors.New("session already released")
	}

	pkgDir, testName, err := SplitTestID(testID)
	if err != nil {
		return TestOutcome{}, err
	}

	output, runErr := s.service.runner.RunTest(ctx, string(s.workDir), pkgDir, testName)
	if runErr == nil {
		return TestOutcome{Passed: true, Output: output}, nil
	}

	if ctx.Err() != nil {
		return TestOutcome{}, ctx.Err()
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		// Non-zero exit with a clean context is a genuine test failure.
		return TestOutcome{Passed: false, Output: output}, nil
	}

	return TestOutcome{}, fmt.Errorf("run test %s: %w", testID, runErr)
}

func (s *localSession) Release(ctx context.Context) error {
	if s.released {
		return nil
	}

	s.released = true
	s.service.cleanup(ctx, s.workDir)

	if s.service.reset != nil {
		if err := s.service.reset(ctx); err != nil {
			return fmt.Errorf("reset hook after mutant %s: %w", s.mutantID, err)
		}
	}

	return nil
}
