package commands

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/teranos/paddock/display"
	"github.com/teranos/paddock/errors"
	"github.com/teranos/paddock/provider"
)

// ScheduleCmd lists a season's events
var ScheduleCmd = &cobra.Command{
	Use:   "schedule <season>",
	Short: "List a season's events and whether they would be collected",
	Long: `List every event of a season in schedule order. Testing events (round 0)
and events that have not yet concluded are marked; they are never collected.

Use the round numbers to scope a manual re-run.

Examples:
  paddock schedule 2024
  paddock schedule 2024 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runSchedule,
}

// scheduledEvent is the JSON form of one schedule row.
type scheduledEvent struct {
	provider.Event
	Eligible bool `json:"eligible"`
}

func runSchedule(cmd *cobra.Command, args []string) error {
	season, err := strconv.Atoi(args[0])
	if err != nil {
		return errors.WithHint(errors.Newf("invalid season %q", args[0]), "pass a year, e.g. 2024")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	events, err := newProvider(cfg, database, true).Schedule(cmd.Context(), season)
	if err != nil {
		return err
	}

	now := time.Now()
	if display.ShouldOutputJSON(cmd) {
		rows := make([]scheduledEvent, len(events))
		for i, ev := range events {
			rows[i] = scheduledEvent{Event: ev, Eligible: ev.Eligible(now)}
		}
		return display.OutputJSON(cmd, rows)
	}
	return display.RenderSchedule(cmd.OutOrStdout(), events, now)
}
