// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "github-streak",
	Short: "A CLI tool to compute GitHub contribution streaks.",
	Long: `github-streak fetches a user's per-year GitHub contribution activity,
merges it into one chronological ledger, and reports the total contribution
count plus the longest and current streaks, with a configurable grace period
for missed days.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")

	// Environment variables override nothing set explicitly on the command
	// line: GHSTREAK_GRACE_DAYS, GHSTREAK_FORMAT, and so on. The API token is
	// read from GITHUB_TOKEN (or GHSTREAK_TOKEN) and never taken as a flag.
	viper.SetEnvPrefix("GHSTREAK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	cobra.CheckErr(viper.BindEnv("token", "GITHUB_TOKEN", "GHSTREAK_TOKEN"))
}
