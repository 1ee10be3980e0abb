package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kaz-takahashi/github-streak/internal/domain"
	"github.com/kaz-takahashi/github-streak/internal/gateway"
	"github.com/kaz-takahashi/github-streak/internal/outwriter"
	"github.com/kaz-takahashi/github-streak/internal/usecase"
)

// exitCodeNoActivity is returned when the merged ledger is empty: every
// requested year failed to fetch, or the user has no recorded activity.
const exitCodeNoActivity = 4

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Computes contribution streak statistics for a GitHub user",
	Long: `Fetches per-year contribution activity for the given user, merges all
years into one ledger, and reports total contributions plus the longest and
current streaks. Years that fail to fetch are skipped rather than failing
the run. Exits with code 4 when no activity at all could be gathered.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		// Get the verbose flag from the root command to set up the logger.
		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := log.New(io.Discard, "", log.LstdFlags) // Default: discard all logs.
		if verbose {
			logger.SetOutput(os.Stderr) // If verbose, log to standard error.
		}

		user := viper.GetString("user")
		graceDays := viper.GetInt("grace-days")
		startingYear := viper.GetInt("starting-year")
		sinceJoined := viper.GetBool("since-joined")
		format := viper.GetString("format")
		token := viper.GetString("token")
		if token == "" {
			fmt.Fprintln(os.Stderr, "Error: GITHUB_TOKEN environment variable is not set.")
			os.Exit(1)
		}
		if graceDays < 0 {
			fmt.Fprintln(os.Stderr, "Error: --grace-days must be non-negative.")
			os.Exit(1)
		}
		if sinceJoined && startingYear != 0 {
			fmt.Fprintln(os.Stderr, "Error: --starting-year and --since-joined are mutually exclusive.")
			os.Exit(1)
		}

		// Inject dependencies and run the main business logic.
		githubGateway, err := gateway.NewGitHubGateway(token, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}
		if sinceJoined {
			startingYear, err = githubGateway.FetchAccountCreatedYear(ctx, user)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to resolve account creation year: %v\n", err)
				os.Exit(1)
			}
		}
		aggregator := usecase.NewAggregator(githubGateway, logger)

		report, err := aggregator.Aggregate(ctx, user, startingYear, graceDays)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to compute streak statistics: %v\n", err)
			if errors.Is(err, domain.ErrEmptyLedger) {
				os.Exit(exitCodeNoActivity)
			}
			os.Exit(1)
		}

		if err := outwriter.WriteReport(os.Stdout, report, format); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write report: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(streakCmd)
	streakCmd.Flags().StringP("user", "u", "", "Target GitHub user name (required)")
	streakCmd.MarkFlagRequired("user")
	streakCmd.Flags().Int("grace-days", 1, "Consecutive wholly-missing days tolerated before a streak breaks")
	streakCmd.Flags().Int("starting-year", 0, "First year to fetch, inclusive (default: current year)")
	streakCmd.Flags().Bool("since-joined", false, "Fetch every year since the account was created")
	streakCmd.Flags().String("format", outwriter.TableOut, "Output format: table or json")
	cobra.CheckErr(viper.BindPFlags(streakCmd.Flags()))
}
