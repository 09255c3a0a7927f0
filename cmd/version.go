package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roverkit/robolog/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of robolog",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.CliVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
