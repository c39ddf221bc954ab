package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"leela.dev/pkg/leela/internal/domain"
	m "leela.dev/pkg/leela/internal/model"
)

var runParallelFlag int
var runMemoryFlag int
var runMutantCostFlag int
var runTimeoutFlag int64
var runDiffBaseFlag string
var runNoTypePruningFlag bool
var runNoCoverageFlag bool
var runMutationTypesFlag []string

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "run [paths...]",
		Short:        "Run mutation testing",
		Long:         runLongDescription,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			ctx := context.Background()
			reportsPath := m.Path(viper.GetString(outputFlagName))

			report, err := engine.Run(ctx, runArgsFromConfig(args))
			if err != nil {
				return err
			}

			if err := reportStore.Save(ctx, reportsPath, report); err != nil {
				return err
			}

			if !report.Clean() {
				return errMutantsSurvived
			}

			return nil
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runArgsFromConfig(args []string) domain.RunArgs {
	return domain.RunArgs{
		Paths:       parsePaths(args),
		Exclude:     viper.GetStringSlice(excludeConfigKey),
		DiffBase:    viper.GetString(diffBaseConfigKey),
		Workers:     viper.GetInt(runParallelConfigKey),
		MemoryLimit: uint64(viper.GetInt(memoryLimitConfigKey)) * megabyte,
		MutantCost:  uint64(viper.GetInt(mutantCostConfigKey)) * megabyte,
		Timeout:     time.Duration(viper.GetInt64(mutationTimeoutKey)) * time.Second,
		UseTypes:    !viper.GetBool(noTypePruningConfigKey),
		UseCoverage: !viper.GetBool(noCoverageConfigKey),
		Types:       parseMutationTypes(viper.GetStringSlice(mutationTypesConfigKey)),
	}
}

func parseMutationTypes(names []string) []m.MutationType {
	types := make([]m.MutationType, 0, len(names))
	for _, name := range names {
		types = append(types, m.MutationType(name))
	}

	return types
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&runParallelFlag, runParallelFlagName, "p", viper.GetInt(runParallelConfigKey), "number of parallel workers for mutation testing")
	bindFlagToConfig(cmd.Flags().Lookup(runParallelFlagName), runParallelConfigKey)

	cmd.Flags().IntVar(&runMemoryFlag, memoryLimitFlagName, viper.GetInt(memoryLimitConfigKey), "aggregate memory ceiling for mutant execution, in MB")
	bindFlagToConfig(cmd.Flags().Lookup(memoryLimitFlagName), memoryLimitConfigKey)

	cmd.Flags().IntVar(&runMutantCostFlag, mutantCostFlagName, viper.GetInt(mutantCostConfigKey), "assumed memory footprint per in-flight mutant, in MB")
	bindFlagToConfig(cmd.Flags().Lookup(mutantCostFlagName), mutantCostConfigKey)

	cmd.Flags().Int64VarP(&runTimeoutFlag, mutationTimeoutFlagName, "t", viper.GetInt64(mutationTimeoutKey), "per-mutant timeout in seconds")
	bindFlagToConfig(cmd.Flags().Lookup(mutationTimeoutFlagName), mutationTimeoutKey)

	cmd.Flags().StringVar(&runDiffBaseFlag, diffBaseFlagName, viper.GetString(diffBaseConfigKey), "mutate only lines changed since this git ref")
	bindFlagToConfig(cmd.Flags().Lookup(diffBaseFlagName), diffBaseConfigKey)

	cmd.Flags().BoolVar(&runNoTypePruningFlag, noTypePruningFlagName, viper.GetBool(noTypePruningConfigKey), "disable type-directed feasibility pruning")
	bindFlagToConfig(cmd.Flags().Lookup(noTypePruningFlagName), noTypePruningConfigKey)

	cmd.Flags().BoolVar(&runNoCoverageFlag, noCoverageFlagName, viper.GetBool(noCoverageConfigKey), "disable coverage-directed test selection (run the full suite per mutant)")
	bindFlagToConfig(cmd.Flags().Lookup(noCoverageFlagName), noCoverageConfigKey)

	cmd.Flags().StringSliceVar(&runMutationTypesFlag, mutationTypesFlagName, viper.GetStringSlice(mutationTypesConfigKey), "mutation types to apply (default: all)")
	bindFlagToConfig(cmd.Flags().Lookup(mutationTypesFlagName), mutationTypesConfigKey)
}
