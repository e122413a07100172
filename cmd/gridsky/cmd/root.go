package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gridsky",
	Short: "A grid of the accounts you follow on Bluesky",
	Long: `gridsky signs you in with AT Protocol OAuth and shows every account you
follow as a card with its latest post.

Configuration is read from the environment and an optional .env file.

Use "gridsky [command] --help" for more information about a command.`,
	SilenceUsage: true,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
