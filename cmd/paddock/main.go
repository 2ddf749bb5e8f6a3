package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teranos/paddock/cmd/paddock/commands"
	"github.com/teranos/paddock/logger"
)

var rootCmd = &cobra.Command{
	Use:   "paddock",
	Short: "paddock - Formula 1 season data collector",
	Long: `paddock - Formula 1 season data collector.

paddock walks the championship events of a range of seasons, fetches race,
qualifying and practice sessions from the data provider and consolidates them
into one table per category.

Available commands:
  collect  - Collect seasons and write the consolidated tables
  schedule - List a season's events and whether they would be collected
  runs     - Show the history of collect runs
  cache    - Inspect or clear the provider response cache
  am       - Manage paddock configuration ("I am")
  version  - Show version information

Examples:
  paddock collect                        # Collect the configured season range
  paddock collect --start 2023 --end 2023
  paddock schedule 2024                  # Show the 2024 calendar
  paddock runs ls                        # List recent runs
  paddock am show                        # Show current configuration`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonOutput, _ := cmd.Flags().GetBool("json")
		if err := logger.InitializeWithVerbosity(jsonOutput, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json", false, "Output JSON (logs and command results)")

	rootCmd.AddCommand(commands.CollectCmd)
	rootCmd.AddCommand(commands.ScheduleCmd)
	rootCmd.AddCommand(commands.RunsCmd)
	rootCmd.AddCommand(commands.CacheCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
