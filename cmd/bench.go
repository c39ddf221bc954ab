package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// benchConfig is one optimization combination measured by the bench command.
type benchConfig struct {
	name        string
	useCoverage bool
	useTypes    bool
}

var benchConfigs = []benchConfig{
	{name: "none", useCoverage: false, useTypes: false},
	{name: "coverage", useCoverage: true, useTypes: false},
	{name: "type pruning", useCoverage: false, useTypes: true},
	{name: "all", useCoverage: true, useTypes: true},
}

// benchCmd represents the bench command.
var benchCmd = newBenchCmd()

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "bench [paths...]",
		Short:        "Measure the impact of each optimization",
		Long:         "Run the same mutation workload under every optimization combination and report the speedup attributable to each.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			times := make([]time.Duration, 0, len(benchConfigs))

			for _, config := range benchConfigs {
				runArgs := runArgsFromConfig(args)
				runArgs.UseCoverage = config.useCoverage
				runArgs.UseTypes = config.useTypes

				report, err := engine.Run(ctx, runArgs)
				if err != nil {
					return fmt.Errorf("bench config %q: %w", config.name, err)
				}

				times = append(times, report.WallTime)
			}

			renderBenchTable(cmd, times)

			return nil
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(benchCmd)
}

func renderBenchTable(cmd *cobra.Command, times []time.Duration) {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Optimizations", "Wall Time", "Speedup"})
	table.SetBorder(false)
	table.SetCenterSeparator("")

	reference := times[0]

	for i, config := range benchConfigs {
		speedup := 1.0
		if times[i] > 0 {
			speedup = float64(reference) / float64(times[i])
		}

		table.Append([]string{
			config.name,
			times[i].Round(time.Millisecond).String(),
			fmt.Sprintf("%.2fx", speedup),
		})
	}

	table.Render()
}
