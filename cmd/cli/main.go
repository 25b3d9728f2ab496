package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/myrjola/lastalibi/cmd/cli/opponent"
	"github.com/myrjola/lastalibi/cmd/cli/scenarios"
	"github.com/spf13/cobra"
)

func init() {
	// Missing .env is fine, the environment may be configured directly.
	_ = godotenv.Load()
	rootCmd.AddGroup(scenarios.Group)
	rootCmd.AddCommand(scenarios.List, scenarios.Prune, scenarios.Seed)
	rootCmd.AddGroup(opponent.Group)
	rootCmd.AddCommand(opponent.Simulate)
}

var rootCmd = &cobra.Command{ //nolint:exhaustruct
	Use:  "lastalibi-cli",
	Long: `Command line utilities for Last Alibi`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
