package cmd

import (
	"runtime/debug"

	"github.com/spf13/cobra"
)

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version and build information",
		Long:  "Displays the build version, module path, Go version, and the commit this binary was built from.",
		Run: func(cmd *cobra.Command, _ []string) {
			info, ok := debug.ReadBuildInfo()
			if !ok {
				cmd.Println("leela (unknown build)")
				return
			}

			version := info.Main.Version
			if version == "" {
				version = "(devel)"
			}

			cmd.Printf("leela %s\n", version)
			cmd.Printf("  module  %s\n", info.Main.Path)
			cmd.Printf("  go      %s\n", info.GoVersion)

			for _, setting := range info.Settings {
				switch setting.Key {
				case "vcs.revision":
					cmd.Printf("  commit  %s\n", setting.Value)
				case "vcs.time":
					cmd.Printf("  built   %s\n", setting.Value)
				}
			}
		},
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
