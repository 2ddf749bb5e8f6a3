package collect

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/paddock/errors"
	"github.com/teranos/paddock/logger"
	"github.com/teranos/paddock/provider"
)

// EventRunner processes one event. *EventProcessor implements it.
type EventRunner interface {
	Process(ctx context.Context, season int, event provider.Event) *Yield
}

// SeasonReport counts what happened to one season's schedule.
type SeasonReport struct {
	Season          int
	Scheduled       int
	Testing         int // round 0, excluded
	Future          int // not yet concluded, excluded
	Processed       int
	RaceSkipped     int
	SessionFailures int
	Err             error // schedule failure
}

// Eligible is the number of events that qualified for processing.
func (r SeasonReport) Eligible() int {
	return r.Scheduled - r.Testing - r.Future
}

// Progress observes a walk. Callbacks run on the walking goroutine.
type Progress interface {
	SeasonStarted(season int, events []provider.Event)
	EventDone(y *Yield)
}

// SeasonWalker drives the event processor over one season's concluded
// championship events.
type SeasonWalker struct {
	scheduler provider.Scheduler
	runner    EventRunner
	pacer     Pacer
	now       func() time.Time
	progress  Progress
	logger    *zap.SugaredLogger
}

// NewSeasonWalker creates a walker. now is read once per season.
func NewSeasonWalker(scheduler provider.Scheduler, runner EventRunner, pacer Pacer, now func() time.Time, log *zap.SugaredLogger) *SeasonWalker {
	if pacer == nil {
		pacer = NoDelay{}
	}
	if now == nil {
		now = time.Now
	}
	return &SeasonWalker{scheduler: scheduler, runner: runner, pacer: pacer, now: now, logger: log}
}

// WithProgress attaches an observer and returns the walker.
func (w *SeasonWalker) WithProgress(p Progress) *SeasonWalker {
	w.progress = p
	return w
}

// Plan returns the season's eligible events in schedule order without fetching
// any session.
func (w *SeasonWalker) Plan(ctx context.Context, season int) ([]provider.Event, SeasonReport, error) {
	report := SeasonReport{Season: season}

	events, err := w.scheduler.Schedule(ctx, season)
	if err != nil {
		if !errors.IsScheduleUnavailable(err) {
			err = errors.ScheduleUnavailable(err, season)
		}
		report.Err = err
		return nil, report, err
	}
	report.Scheduled = len(events)

	now := w.now()
	eligible := make([]provider.Event, 0, len(events))
	for _, ev := range events {
		switch {
		case !ev.Championship():
			report.Testing++
		case !ev.Concluded(now):
			report.Future++
		default:
			eligible = append(eligible, ev)
		}
	}
	return eligible, report, nil
}

// Walk processes every eligible event of season in schedule order, appends
// each event's yield to acc and paces after every processed event. Only a
// schedule failure or cancellation is returned as an error.
func (w *SeasonWalker) Walk(ctx context.Context, season int, acc *Accumulators) (SeasonReport, error) {
	events, report, err := w.Plan(ctx, season)
	if err != nil {
		return report, err
	}

	w.logger.Infow("Season started",
		logger.FieldSeason, season,
		logger.FieldEvents, len(events),
		"testing", report.Testing,
		"future", report.Future,
	)
	if w.progress != nil {
		w.progress.SeasonStarted(season, events)
	}

	for _, ev := range events {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		y := w.runner.Process(ctx, season, ev)
		acc.Merge(y)

		report.Processed++
		report.SessionFailures += y.SessionFailures()
		if y.RaceSkipped() {
			report.RaceSkipped++
		}
		if w.progress != nil {
			w.progress.EventDone(y)
		}

		if err := w.pacer.Pace(ctx); err != nil {
			return report, err
		}
	}

	w.logger.Infow("Season done",
		logger.FieldSeason, season,
		"processed", report.Processed,
		"race_skipped", report.RaceSkipped,
		"session_failures", report.SessionFailures,
	)
	return report, nil
}
