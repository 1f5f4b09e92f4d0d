package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LeonardoBeccarini/smartagri/pkg/version"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.BinaryName, version.VersionString())
	},
}
