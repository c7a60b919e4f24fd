// Package cli implements the lingo command-line interface using Cobra.
// "serve" runs the daemon; every other command opens the local profile
// directly, applies one operation and exits.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lingo",
	Short: "lingo: language-learning progression engine",
	Long: `lingo tracks a learner's progression: XP and levels, heart and star
pools that refill over time, and the status allocation that steers which
skills get practiced.

Run 'lingo serve' to expose the engine over HTTP, or use the subcommands
to inspect and change the local profile directly.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
