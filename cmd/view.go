package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"leela.dev/pkg/leela/internal/controller"
	m "leela.dev/pkg/leela/internal/model"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "View a previously generated mutation report",
		Long:  "View a previously generated mutation report from the reports directory, with a diff for every undetected mutant.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := context.Background()
			reportsPath := m.Path(viper.GetString(outputFlagName))

			report, err := reportStore.Load(ctx, reportsPath)
			if err != nil {
				return err
			}

			if err := ui.DisplayReport(ctx, report); err != nil {
				return err
			}

			return displaySurvivorDiffs(ctx, cmd, report)
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

// displaySurvivorDiffs prints a unified diff for each undetected mutant.
// Sources may have changed since the run; unreadable or shifted files are
// skipped rather than failing the whole view.
func displaySurvivorDiffs(ctx context.Context, cmd *cobra.Command, report m.Report) error {
	for _, record := range report.Mutants {
		if record.Status != m.StatusSurvived && record.Status != m.StatusTimeout {
			continue
		}

		line, ok := sourceLine(ctx, record.File, record.Line)
		if !ok {
			continue
		}

		diff, err := controller.RenderMutantDiff(record, line)
		if err != nil {
			continue
		}

		cmd.Printf("\n%s", diff)
	}

	return nil
}

func sourceLine(ctx context.Context, file m.Path, lineNumber int) (string, bool) {
	content, err := fsAdapter.ReadFile(ctx, file)
	if err != nil {
		return "", false
	}

	lines := strings.Split(string(content), "\n")
	if lineNumber < 1 || lineNumber > len(lines) {
		return "", false
	}

	return lines[lineNumber-1], true
}
