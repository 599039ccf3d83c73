// Package cmd implements tilesim's command-line entry points, following
// the teacher's cobra layout (a root.go defining rootCmd and Execute,
// subcommands registered from init).
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tilesim",
	Short: "Distributed multi-tile architectural simulator",
}

// Execute runs the CLI root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
}
