package controller

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	m "leela.dev/pkg/leela/internal/model"
)

// PlainUI implements UI using cobra Command's output stream. It is the
// non-interactive fallback for pipes and CI logs.
type PlainUI struct {
	cmd *cobra.Command
}

// NewPlainUI creates a new PlainUI.
func NewPlainUI(cmd *cobra.Command) *PlainUI {
	return &PlainUI{cmd: cmd}
}

// NewUI picks the interactive TUI on a terminal and PlainUI otherwise.
func NewUI(cmd *cobra.Command, interactive bool) UI {
	if interactive {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewPlainUI(cmd)
}

// Start announces the run.
func (p *PlainUI) Start(ctx context.Context, total int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.printf("Executing %d mutant(s)\n", total)

	return nil
}

// Progress is a no-op for plain output; per-result detail goes to the log.
func (p *PlainUI) Progress(ctx context.Context, _ m.RunProgress) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// DisplayEstimation prints a per-file mutant count table.
func (p *PlainUI) DisplayEstimation(ctx context.Context, mutants []m.Mutant) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.printf("\n%s", renderEstimationTable(mutants))

	return nil
}

// DisplayReport prints the per-unit table, undetected mutants, and the score.
func (p *PlainUI) DisplayReport(ctx context.Context, report m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.printf("\n%s", renderReportTable(report))

	if survivors := renderSurvivors(report); survivors != "" {
		p.printf("\nUndetected mutants:\n%s", survivors)
	}

	for _, unit := range report.FailedUnits {
		p.printf("skipped (parse failure): %s\n", unit)
	}

	p.printf("\nMutation score: %.2f%% (%s)\n", report.Score*100, report.WallTime.Round(time.Millisecond))

	return nil
}

// Close finalizes the UI.
func (p *PlainUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

func (p *PlainUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(p.cmd.OutOrStdout(), format, args...)
}
