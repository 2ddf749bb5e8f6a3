package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/paddock/display"
	"github.com/teranos/paddock/errors"
	"github.com/teranos/paddock/runlog"
)

// RunsCmd shows collect run history
var RunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show the history of collect runs",
	Long: `Every collect run is recorded in the paddock database with its season
range, status, counters and per-category results.

Examples:
  paddock runs ls
  paddock runs ls --limit 5
  paddock runs show <run-id>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var runsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List recent runs",
	RunE:  runRunsLs,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run with its category results",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var runsLimit int

func init() {
	runsLsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum number of runs to display")

	RunsCmd.AddCommand(runsLsCmd)
	RunsCmd.AddCommand(runsShowCmd)
}

func openRuns() (*runlog.Store, func() error, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	database, err := openDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}
	return runlog.NewStore(database), database.Close, nil
}

func runRunsLs(cmd *cobra.Command, args []string) error {
	store, closeDB, err := openRuns()
	if err != nil {
		return err
	}
	defer closeDB()

	runs, err := store.List(cmd.Context(), runsLimit)
	if err != nil {
		return err
	}
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(cmd, runs)
	}
	return display.RenderRuns(cmd.OutOrStdout(), runs)
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	store, closeDB, err := openRuns()
	if err != nil {
		return err
	}
	defer closeDB()

	run, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		if errors.IsNotFound(err) {
			return errors.WithHint(err, "list run ids with: paddock runs ls")
		}
		return err
	}
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(cmd, run)
	}
	return display.RenderRun(cmd.OutOrStdout(), run)
}
