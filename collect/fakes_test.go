package collect

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/paddock/errors"
	"github.com/teranos/paddock/provider"
	"github.com/teranos/paddock/recordset"
	"github.com/teranos/paddock/sink"
)

var testNow = time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

func past(days int) time.Time   { return testNow.AddDate(0, 0, -days) }
func future(days int) time.Time { return testNow.AddDate(0, 0, days) }

type sessionKey struct {
	season int
	round  int
	kind   provider.SessionKind
}

// fakeProvider serves canned schedules and bundles and records every fetch.
type fakeProvider struct {
	mu          sync.Mutex
	schedules   map[int][]provider.Event
	scheduleErr map[int]error
	bundles     map[sessionKey]*provider.Bundle
	fetches     []sessionKey
	details     map[sessionKey]provider.Detail
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		schedules:   map[int][]provider.Event{},
		scheduleErr: map[int]error{},
		bundles:     map[sessionKey]*provider.Bundle{},
		details:     map[sessionKey]provider.Detail{},
	}
}

func (f *fakeProvider) Schedule(ctx context.Context, season int) ([]provider.Event, error) {
	if err := f.scheduleErr[season]; err != nil {
		return nil, errors.ScheduleUnavailable(err, season)
	}
	return f.schedules[season], nil
}

func (f *fakeProvider) FetchSession(ctx context.Context, season int, event provider.Event, kind provider.SessionKind, detail provider.Detail) (*provider.Bundle, error) {
	key := sessionKey{season, event.Round, kind}
	f.mu.Lock()
	f.fetches = append(f.fetches, key)
	f.details[key] = detail
	b, ok := f.bundles[key]
	f.mu.Unlock()

	if !ok {
		return nil, errors.SessionUnavailable(errors.New("no results found"), season, event.Round, kind.Label())
	}
	return b, nil
}

func (f *fakeProvider) fetched(season, round int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range f.fetches {
		if k.season == season && k.round == round {
			return true
		}
	}
	return false
}

// raceBundle builds a race with one result and one lap per driver, the given
// drivers pitting on their lap.
func raceBundle(drivers []int, pitting map[int]bool, weatherRows int) *provider.Bundle {
	results := recordset.New([]string{"position", "driver_number"})
	laps := recordset.New([]string{"driver_number", "lap_number", "lap_duration", provider.PitInColumn})
	for i, d := range drivers {
		results.Append(recordset.Row{"position": json.Number(itoa(i + 1)), "driver_number": json.Number(itoa(d))})
		var pit any
		if pitting[d] {
			pit = "2023-05-07T20:31:02+00:00"
		}
		laps.Append(recordset.Row{
			"driver_number":      json.Number(itoa(d)),
			"lap_number":         json.Number("1"),
			"lap_duration":       json.Number("92.5"),
			provider.PitInColumn: pit,
		})
	}
	weather := recordset.New([]string{"air_temperature", "rainfall"})
	for i := 0; i < weatherRows; i++ {
		weather.Append(recordset.Row{"air_temperature": json.Number("28.1"), "rainfall": json.Number("0")})
	}
	return &provider.Bundle{Results: results, Laps: laps, Weather: weather}
}

func qualifyingBundle(drivers ...int) *provider.Bundle {
	results := recordset.New([]string{"position", "driver_number"})
	for i, d := range drivers {
		results.Append(recordset.Row{"position": json.Number(itoa(i + 1)), "driver_number": json.Number(itoa(d))})
	}
	return &provider.Bundle{Results: results}
}

func practiceBundle(laps int) *provider.Bundle {
	set := recordset.New([]string{"driver_number", "lap_number"})
	for i := 1; i <= laps; i++ {
		set.Append(recordset.Row{"driver_number": json.Number("1"), "lap_number": json.Number(itoa(i))})
	}
	return &provider.Bundle{Results: recordset.New([]string{"position"}), Laps: set}
}

func itoa(i int) string {
	return strconv.Itoa(i)
}

type harness struct {
	provider *fakeProvider
	sink     *sink.Memory
	pacer    Pacer
	opts     ProcessorOptions
	cfg      PipelineConfig
	log      *zap.SugaredLogger
}

func newHarness(t *testing.T, start, end int) *harness {
	return &harness{
		provider: newFakeProvider(),
		sink:     sink.NewMemory(),
		pacer:    NoDelay{},
		cfg:      PipelineConfig{Start: start, End: end},
		log:      zaptest.NewLogger(t).Sugar(),
	}
}

func (h *harness) pipeline() *Pipeline {
	return h.pipelineWith(h.sink)
}

func (h *harness) pipelineWith(out sink.Sink) *Pipeline {
	proc := NewEventProcessor(h.provider, h.opts, h.log)
	walker := NewSeasonWalker(h.provider, proc, h.pacer, func() time.Time { return testNow }, h.log)
	cons := NewConsolidator(out, h.cfg.Start, h.cfg.End, h.log)
	return NewPipeline(h.cfg, walker, cons, h.log)
}

func (h *harness) table(t *testing.T, c Category) *recordset.Set {
	t.Helper()
	set, _ := h.sink.Table(c.OutputName(h.cfg.Start, h.cfg.End))
	return set
}
