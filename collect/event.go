package collect

import (
	"context"

	"go.uber.org/zap"

	"github.com/teranos/paddock/logger"
	"github.com/teranos/paddock/provider"
	"github.com/teranos/paddock/recordset"
)

// Tag columns injected into every collected row.
const (
	ColumnYear      = "year"
	ColumnEventName = "event_name"
	ColumnSession   = "session" // practice rows only
)

// PracticeOutcome is the result of one optional practice fetch: laps on
// success, the reason on skip.
type PracticeOutcome struct {
	Kind provider.SessionKind
	Laps *recordset.Set
	Err  error
}

// Skipped reports whether the practice session produced no data.
func (o PracticeOutcome) Skipped() bool {
	return o.Err != nil
}

// Yield is everything one event contributed.
type Yield struct {
	Season        int
	Event         provider.Event
	RaceErr       error
	QualifyingErr error
	Practice      []PracticeOutcome

	sets map[Category]*recordset.Set
}

func newYield(season int, event provider.Event) *Yield {
	return &Yield{Season: season, Event: event, sets: make(map[Category]*recordset.Set)}
}

// Get returns the set for category, or nil when the category is absent.
func (y *Yield) Get(c Category) *recordset.Set {
	return y.sets[c]
}

func (y *Yield) put(c Category, set *recordset.Set) {
	if set.Empty() {
		return
	}
	y.sets[c] = set
}

// RaceSkipped reports whether the mandatory race session failed.
func (y *Yield) RaceSkipped() bool {
	return y.RaceErr != nil
}

// SessionFailures counts failed session fetches of the event.
func (y *Yield) SessionFailures() int {
	n := 0
	if y.RaceErr != nil {
		n++
	}
	if y.QualifyingErr != nil {
		n++
	}
	for _, p := range y.Practice {
		if p.Skipped() {
			n++
		}
	}
	return n
}

// ProcessorOptions tunes failure coupling between sessions.
type ProcessorOptions struct {
	// RaceGatesEvent skips qualifying and practice when the race fetch fails.
	RaceGatesEvent bool
}

// EventProcessor fetches the sessions of one event and turns them into
// tagged per-category record sets.
type EventProcessor struct {
	fetcher provider.SessionFetcher
	opts    ProcessorOptions
	logger  *zap.SugaredLogger
}

// NewEventProcessor creates an event processor.
func NewEventProcessor(fetcher provider.SessionFetcher, opts ProcessorOptions, log *zap.SugaredLogger) *EventProcessor {
	return &EventProcessor{fetcher: fetcher, opts: opts, logger: log}
}

// Process fetches race, qualifying and practice sessions of event. It never
// fails as a whole: each session failure is logged and recorded in the yield.
func (p *EventProcessor) Process(ctx context.Context, season int, event provider.Event) *Yield {
	y := newYield(season, event)
	log := logger.EventLogger(p.logger, season, event.Round, event.Name)
	tag := func(set *recordset.Set) *recordset.Set {
		if set.Empty() {
			return nil
		}
		return set.Tag(ColumnYear, season).Tag(ColumnEventName, event.Name)
	}

	race, err := p.fetch(ctx, season, event, provider.Race)
	if err != nil {
		y.RaceErr = err
		if p.opts.RaceGatesEvent {
			log.Warnw("Event skipped",
				logger.FieldSession, provider.Race.Label(),
				logger.FieldError, err,
			)
			return y
		}
		log.Warnw("Race unavailable, race data skipped",
			logger.FieldSession, provider.Race.Label(),
			logger.FieldError, err,
		)
	} else {
		laps := tag(race.Laps)
		y.put(RaceResults, tag(race.Results))
		y.put(Laps, laps)
		if laps.HasColumn(provider.PitInColumn) {
			y.put(PitStops, laps.Filter(recordset.NotNull(provider.PitInColumn)))
		}
		y.put(Weather, tag(race.Weather))
	}

	if ctx.Err() != nil {
		return y
	}
	quali, err := p.fetch(ctx, season, event, provider.Qualifying)
	if err != nil {
		y.QualifyingErr = err
		log.Warnw("Qualifying unavailable",
			logger.FieldSession, provider.Qualifying.Label(),
			logger.FieldError, err,
		)
	} else {
		y.put(Qualifying, tag(quali.Results))
	}

	var practice []*recordset.Set
	for _, kind := range provider.PracticeKinds {
		if ctx.Err() != nil {
			break
		}
		out := p.practice(ctx, season, event, kind)
		y.Practice = append(y.Practice, out)
		if out.Skipped() {
			log.Warnw("Practice session skipped",
				logger.FieldSession, kind.Label(),
				logger.FieldError, out.Err,
			)
			continue
		}
		if out.Laps.Empty() {
			continue
		}
		practice = append(practice, tag(out.Laps).Tag(ColumnSession, kind.Label()))
	}
	if len(practice) > 0 {
		y.put(Practice, recordset.Concat(practice...))
	}

	log.Infow("Event processed",
		"results", y.Get(RaceResults).Len(),
		"laps", y.Get(Laps).Len(),
		"practice_laps", y.Get(Practice).Len(),
		"failures", y.SessionFailures(),
	)
	return y
}

func (p *EventProcessor) fetch(ctx context.Context, season int, event provider.Event, kind provider.SessionKind) (*provider.Bundle, error) {
	return p.fetcher.FetchSession(ctx, season, event, kind, kind.DefaultDetail())
}

func (p *EventProcessor) practice(ctx context.Context, season int, event provider.Event, kind provider.SessionKind) PracticeOutcome {
	b, err := p.fetch(ctx, season, event, kind)
	if err != nil {
		return PracticeOutcome{Kind: kind, Err: err}
	}
	return PracticeOutcome{Kind: kind, Laps: b.Laps}
}
