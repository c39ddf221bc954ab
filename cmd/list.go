package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [paths...]",
		Short: "List source files and mutant counts",
		Long:  listLongDescription,
		RunE: func(_ *cobra.Command, args []string) error {
			_, err := engine.Estimate(context.Background(), runArgsFromConfig(args))

			return err
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
