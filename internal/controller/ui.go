// Package controller defines the presentation boundary for the Leela CLI.
package controller

import (
	"context"
	"os"

	m "leela.dev/pkg/leela/internal/model"
)

// UI is the presentation surface the engine reports through.
// Implementations can use different output methods (plain text, TUI).
type UI interface {
	// Start is called once before mutants begin executing; total is the
	// number of mutants the run will classify (pruned included).
	Start(ctx context.Context, total int) error

	// Progress publishes a consistent snapshot of the ongoing run. Called
	// from the execution path; implementations must not block it.
	Progress(ctx context.Context, progress m.RunProgress)

	// DisplayEstimation renders mutation counts per file (list command).
	DisplayEstimation(ctx context.Context, mutants []m.Mutant) error

	// DisplayReport renders the final run report.
	DisplayReport(ctx context.Context, report m.Report) error

	// Close releases any terminal state the UI holds.
	Close(ctx context.Context)
}

// IsTTY reports whether the writer is an interactive terminal.
func IsTTY(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeCharDevice != 0
}
