package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/teranos/paddock/collect"
	"github.com/teranos/paddock/provider"
	"github.com/teranos/paddock/runlog"
)

func renderTable(w io.Writer, data pterm.TableData) error {
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// RenderSummary prints the per-category outcome table of a run and its counters.
func RenderSummary(w io.Writer, sum *collect.Summary) error {
	data := pterm.TableData{{"Category", "Sets", "Rows", "Target"}}
	for _, o := range sum.Outcomes {
		target := o.Target
		switch {
		case o.Empty:
			target = pterm.Gray("no data")
		case o.Err != nil:
			target = pterm.Red("failed: " + o.Err.Error())
		}
		data = append(data, []string{o.Category.Stem(), strconv.Itoa(o.Sets), strconv.Itoa(o.Rows), target})
	}
	if err := renderTable(w, data); err != nil {
		return err
	}

	fmt.Fprintf(w, "Seasons %d..%d: %d events processed, %d skipped, %d session failures in %s\n",
		sum.Start, sum.End, sum.EventsProcessed, sum.EventsSkipped, sum.SessionFailures,
		sum.Duration.Round(time.Millisecond))
	if len(sum.FailedSeasons) > 0 {
		fmt.Fprintf(w, "%s %s\n", pterm.Yellow("Seasons without schedule:"), joinInts(sum.FailedSeasons))
	}
	return nil
}

// RenderSchedule prints a season's events with their eligibility.
func RenderSchedule(w io.Writer, events []provider.Event, now time.Time) error {
	data := pterm.TableData{{"Round", "Event", "Date", "Location", "Status"}}
	for _, ev := range events {
		st := pterm.Green("eligible")
		switch {
		case !ev.Championship():
			st = pterm.Gray("testing")
		case !ev.Concluded(now):
			st = pterm.Yellow("upcoming")
		}
		data = append(data, []string{
			strconv.Itoa(ev.Round),
			ev.Name,
			ev.Date.Format("2006-01-02"),
			place(ev),
			st,
		})
	}
	return renderTable(w, data)
}

// RenderRuns prints recorded runs, newest first.
func RenderRuns(w io.Writer, runs []runlog.Run) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded yet")
		return err
	}
	data := pterm.TableData{{"ID", "Started", "Seasons", "Status", "Events", "Skipped", "Failures"}}
	for _, r := range runs {
		data = append(data, []string{
			r.ID,
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d..%d", r.Start, r.End),
			runStatus(r.Status),
			strconv.Itoa(r.EventsProcessed),
			strconv.Itoa(r.EventsSkipped),
			strconv.Itoa(r.SessionFailures),
		})
	}
	return renderTable(w, data)
}

// RenderRun prints one run with its category results.
func RenderRun(w io.Writer, r *runlog.Run) error {
	fmt.Fprintf(w, "Run %s\n", r.ID)
	fmt.Fprintf(w, "  Status:   %s\n", runStatus(r.Status))
	fmt.Fprintf(w, "  Seasons:  %d..%d\n", r.Start, r.End)
	fmt.Fprintf(w, "  Started:  %s\n", r.StartedAt.Local().Format(time.RFC3339))
	if r.FinishedAt != nil {
		fmt.Fprintf(w, "  Duration: %s\n", r.Duration().Round(time.Millisecond))
	}
	fmt.Fprintf(w, "  Events:   %d processed, %d skipped, %d session failures\n",
		r.EventsProcessed, r.EventsSkipped, r.SessionFailures)
	if len(r.FailedSeasons) > 0 {
		fmt.Fprintf(w, "  Failed seasons: %s\n", joinInts(r.FailedSeasons))
	}
	if r.Error != "" {
		fmt.Fprintf(w, "  Error:    %s\n", pterm.Red(r.Error))
	}
	if len(r.Categories) == 0 {
		return nil
	}

	data := pterm.TableData{{"Category", "Sets", "Rows", "Target"}}
	for _, c := range r.Categories {
		target := c.Target
		if c.Error != "" {
			target = pterm.Red("failed: " + c.Error)
		} else if !c.Written {
			target = pterm.Gray("no data")
		}
		data = append(data, []string{c.Category, strconv.Itoa(c.Sets), strconv.Itoa(c.Rows), target})
	}
	fmt.Fprintln(w)
	return renderTable(w, data)
}

func place(ev provider.Event) string {
	var parts []string
	for _, p := range []string{ev.Location, ev.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func runStatus(s string) string {
	switch s {
	case runlog.StatusCompleted:
		return pterm.Green(s)
	case runlog.StatusFailed:
		return pterm.Red(s)
	case runlog.StatusCancelled:
		return pterm.Yellow(s)
	default:
		return pterm.LightCyan(s)
	}
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
