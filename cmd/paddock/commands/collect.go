package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/paddock/am"
	"github.com/teranos/paddock/collect"
	"github.com/teranos/paddock/display"
	"github.com/teranos/paddock/errors"
	"github.com/teranos/paddock/logger"
	"github.com/teranos/paddock/runlog"
)

// CollectCmd runs the season traversal and writes the consolidated tables
var CollectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect seasons and write the consolidated tables",
	Long: `Walk every concluded championship event of the season range, fetch its
race, qualifying and practice sessions and write one table per category:

  race_results, laps_data, qualifying_results, practice_laps, pit_stops, weather_data

Each table is named {category}_{start}_to_{end}. Session failures are logged
and skipped; the run still completes.

Examples:
  paddock collect                          # configured range (default 2018..current year)
  paddock collect --start 2023 --end 2023  # a single season
  paddock collect --format sqlite          # tables in data/processed/paddock_tables.db
  paddock collect --dry-run                # list eligible events without fetching sessions`,
	RunE: runCollect,
}

var (
	collectStart   int
	collectEnd     int
	collectOutput  string
	collectFormat  string
	collectDryRun  bool
	collectNoCache bool
	collectDelay   time.Duration
)

func init() {
	CollectCmd.Flags().IntVar(&collectStart, "start", 0, "First season (default: collect.start_season)")
	CollectCmd.Flags().IntVar(&collectEnd, "end", 0, "Last season (default: collect.end_season, 0 = current year)")
	CollectCmd.Flags().StringVarP(&collectOutput, "output", "o", "", "Output directory (default: output.dir)")
	CollectCmd.Flags().StringVar(&collectFormat, "format", "", "Output format: csv or sqlite (default: output.format)")
	CollectCmd.Flags().BoolVar(&collectDryRun, "dry-run", false, "Only list the events that would be collected")
	CollectCmd.Flags().BoolVar(&collectNoCache, "no-cache", false, "Bypass the provider response cache for this run")
	CollectCmd.Flags().DurationVar(&collectDelay, "delay", -1, "Pause after each event (default: collect.event_delay_ms)")
}

// collectOptions is the resolved configuration of one collect invocation.
type collectOptions struct {
	start, end int
	dir        string
	format     string
	delay      time.Duration
}

// location is where the tables end up: the CSV directory or the sqlite file.
func (o collectOptions) location() string {
	if o.format == am.FormatSQLite {
		return filepath.Join(o.dir, sqliteOutputFile)
	}
	return o.dir
}

func resolveCollectOptions(cmd *cobra.Command, cfg *am.Config, now time.Time) (collectOptions, error) {
	start, end := cfg.SeasonRange(now)
	opts := collectOptions{
		start:  start,
		end:    end,
		dir:    cfg.Output.Dir,
		format: cfg.Output.Format,
		delay:  cfg.EventDelay(),
	}
	if cmd.Flags().Changed("start") {
		opts.start = collectStart
	}
	if cmd.Flags().Changed("end") {
		opts.end = collectEnd
	}
	if collectOutput != "" {
		opts.dir = collectOutput
	}
	if collectFormat != "" {
		opts.format = collectFormat
	}
	if collectDelay >= 0 {
		opts.delay = collectDelay
	}

	if opts.start < am.FirstChampionshipSeason {
		return opts, errors.Mark(errors.Newf("start season must be >= %d, got %d", am.FirstChampionshipSeason, opts.start), errors.ErrInvalidConfig)
	}
	if opts.start > opts.end {
		return opts, errors.Mark(errors.Newf("start season %d is after end season %d", opts.start, opts.end), errors.ErrInvalidConfig)
	}
	if opts.format != am.FormatCSV && opts.format != am.FormatSQLite {
		return opts, errors.Mark(errors.Newf("format must be %q or %q, got %q", am.FormatCSV, am.FormatSQLite, opts.format), errors.ErrInvalidConfig)
	}
	return opts, nil
}

func newProgress(cmd *cobra.Command, w io.Writer) collect.Progress {
	if display.ShouldOutputJSON(cmd) {
		return display.NewJSONProgress(w)
	}
	return display.NewCLIProgress(w)
}

func runCollect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts, err := resolveCollectOptions(cmd, cfg, time.Now())
	if err != nil {
		return err
	}

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	client := newProvider(cfg, database, !collectNoCache)
	processor := collect.NewEventProcessor(client,
		collect.ProcessorOptions{RaceGatesEvent: cfg.Collect.RaceGatesEvent},
		logger.ComponentLogger("collect.event"))
	walker := collect.NewSeasonWalker(client, processor, collect.FixedDelay(opts.delay), time.Now,
		logger.ComponentLogger("collect.season")).WithProgress(newProgress(cmd, out))

	if collectDryRun {
		return dryRun(ctx, cmd, walker, opts)
	}

	target, closeSink, err := openSink(opts.format, opts.dir, cfg.Output.Delimiter)
	if err != nil {
		return err
	}
	defer closeSink()

	pipeline := collect.NewPipeline(
		collect.PipelineConfig{Start: opts.start, End: opts.end, AbortOnScheduleError: cfg.Collect.AbortOnScheduleError},
		walker,
		collect.NewConsolidator(target, opts.start, opts.end, logger.ComponentLogger("collect.consolidate")),
		logger.ComponentLogger("collect"),
	)

	runs := runlog.NewStore(database)
	run, err := runs.Begin(ctx, opts.start, opts.end)
	if err != nil {
		return err
	}
	log := logger.Logger.With(logger.FieldRunID, run.ID)
	log.Infow("Run started", "start", opts.start, "end", opts.end, "format", opts.format, logger.FieldPath, opts.dir)

	sum, runErr := pipeline.Run(ctx)

	// record the outcome even when ctx was cancelled
	if err := runs.Finish(context.WithoutCancel(ctx), run, sum, runErr); err != nil {
		log.Errorw("Failed to record run", logger.FieldError, err)
	}
	if runErr != nil {
		return runErr
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(cmd, run)
	}
	fmt.Fprintln(out)
	if err := display.RenderSummary(out, sum); err != nil {
		return err
	}

	if errs := sum.WriteErrors(); len(errs) > 0 {
		return errors.Newf("%d of %d tables failed to save: %v", len(errs), len(sum.Outcomes), errs[0])
	}
	fmt.Fprintln(out, pterm.Green("all data saved to "+opts.location()))
	return nil
}

// dryRun lists each season's eligible events without fetching any session.
func dryRun(ctx context.Context, cmd *cobra.Command, walker *collect.SeasonWalker, opts collectOptions) error {
	out := cmd.OutOrStdout()
	type seasonPlan struct {
		Season   int    `json:"season"`
		Eligible int    `json:"eligible"`
		Testing  int    `json:"testing"`
		Future   int    `json:"future"`
		Error    string `json:"error,omitempty"`
	}
	var plans []seasonPlan
	total := 0

	for season := opts.start; season <= opts.end; season++ {
		events, report, err := walker.Plan(ctx, season)
		p := seasonPlan{Season: season, Eligible: len(events), Testing: report.Testing, Future: report.Future}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.Error = err.Error()
		}
		plans = append(plans, p)
		total += len(events)

		if !display.ShouldOutputJSON(cmd) {
			fmt.Fprintf(out, "%s %d eligible, %d testing, %d upcoming\n",
				pterm.LightCyan(fmt.Sprintf("Season %d:", season)), p.Eligible, p.Testing, p.Future)
			if p.Error != "" {
				fmt.Fprintf(out, "  %s\n", pterm.Red(p.Error))
			}
			for _, ev := range events {
				fmt.Fprintf(out, "  %s %s\n", pterm.Gray(fmt.Sprintf("R%02d", ev.Round)), ev.Name)
			}
		}
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(cmd, plans)
	}
	fmt.Fprintf(out, "\n%d events would be collected into %s\n", total, opts.dir)
	return nil
}
