package collect

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/paddock/provider"
	"github.com/teranos/paddock/recordset"
)

func TestProcessRequestsOnlyNeededDetail(t *testing.T) {
	fp := newFakeProvider()
	ev := provider.Event{Round: 3, Name: "Australian Grand Prix", Date: past(10)}
	fp.bundles[sessionKey{2024, 3, provider.Race}] = raceBundle([]int{1}, nil, 1)

	NewEventProcessor(fp, ProcessorOptions{}, zaptest.NewLogger(t).Sugar()).Process(context.Background(), 2024, ev)

	assert.Equal(t, provider.Detail{Laps: true, Weather: true}, fp.details[sessionKey{2024, 3, provider.Race}])
	assert.Equal(t, provider.Detail{}, fp.details[sessionKey{2024, 3, provider.Qualifying}])
	for _, k := range provider.PracticeKinds {
		assert.Equal(t, provider.Detail{Laps: true}, fp.details[sessionKey{2024, 3, k}], k.Label())
	}
	assert.Len(t, fp.fetches, 5)
}

func TestProcessYield(t *testing.T) {
	fp := newFakeProvider()
	ev := provider.Event{Round: 5, Name: "Miami Grand Prix", Date: past(30)}
	race := raceBundle([]int{1, 11}, map[int]bool{11: true}, 2)
	fp.bundles[sessionKey{2023, 5, provider.Race}] = race
	fp.bundles[sessionKey{2023, 5, provider.Qualifying}] = qualifyingBundle(11, 1)
	fp.bundles[sessionKey{2023, 5, provider.Practice1}] = practiceBundle(3)

	y := NewEventProcessor(fp, ProcessorOptions{}, zaptest.NewLogger(t).Sugar()).Process(context.Background(), 2023, ev)

	assert.False(t, y.RaceSkipped())
	assert.NoError(t, y.QualifyingErr)
	require.Len(t, y.Practice, 3)
	assert.False(t, y.Practice[0].Skipped())
	assert.True(t, y.Practice[1].Skipped())
	assert.Equal(t, provider.Practice2, y.Practice[1].Kind)
	assert.Equal(t, 2, y.SessionFailures())

	assert.Equal(t, 2, y.Get(RaceResults).Len())
	assert.Equal(t, 1, y.Get(PitStops).Len())
	assert.Equal(t, 2, y.Get(Qualifying).Len())

	practice := y.Get(Practice)
	require.Equal(t, 3, practice.Len())
	assert.Equal(t, []string{"driver_number", "lap_number", ColumnYear, ColumnEventName, ColumnSession}, practice.Columns())
	assert.Equal(t, "FP1", practice.Get(2, ColumnSession))
	assert.Equal(t, 2023, practice.Get(0, ColumnYear))

	// the provider's sets are left untouched
	assert.False(t, race.Laps.HasColumn(ColumnYear))
}

func TestProcessWithoutPitStops(t *testing.T) {
	fp := newFakeProvider()
	ev := provider.Event{Round: 2, Name: "Saudi Arabian Grand Prix", Date: past(30)}
	fp.bundles[sessionKey{2023, 2, provider.Race}] = raceBundle([]int{1, 11}, nil, 1)

	y := NewEventProcessor(fp, ProcessorOptions{}, zaptest.NewLogger(t).Sugar()).Process(context.Background(), 2023, ev)

	assert.Equal(t, 2, y.Get(Laps).Len())
	assert.Nil(t, y.Get(PitStops), "no pit laps means the category is absent")
}

func TestProcessStopsOnCancel(t *testing.T) {
	fp := newFakeProvider()
	ev := provider.Event{Round: 2, Name: "Saudi Arabian Grand Prix", Date: past(30)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	NewEventProcessor(fp, ProcessorOptions{}, zaptest.NewLogger(t).Sugar()).Process(ctx, 2023, ev)
	assert.Len(t, fp.fetches, 1, "only the race is attempted once cancelled")
}

func TestAccumulatorsSkipAbsentSets(t *testing.T) {
	acc := NewAccumulators()
	acc.Add(Laps, nil)
	acc.Add(Laps, recordset.New([]string{"lap_number"}))
	acc.Add(Laps, recordset.New(nil, recordset.Row{"lap_number": 1}))
	acc.Add(Laps, recordset.New(nil, recordset.Row{"lap_number": 2}, recordset.Row{"lap_number": 3}))

	assert.Len(t, acc.Sets(Laps), 2)
	assert.Equal(t, 3, acc.Rows(Laps))
	assert.Empty(t, acc.Sets(Weather))
}

func TestConsolidatorUnionsColumns(t *testing.T) {
	out := newHarness(t, 2018, 2019)
	c := NewConsolidator(out.sink, 2018, 2019, out.log)

	a := recordset.New([]string{"driver_number", "lap_duration"}, recordset.Row{"driver_number": 1, "lap_duration": 90.1})
	b := recordset.New([]string{"driver_number", "i1_speed"}, recordset.Row{"driver_number": 44, "i1_speed": 301})

	o := c.Consolidate(context.Background(), Laps, []*recordset.Set{a, b})
	require.True(t, o.Written())
	assert.Equal(t, "laps_data_2018_to_2019", o.Name)
	assert.Equal(t, "memory:laps_data_2018_to_2019", o.Target)
	assert.Equal(t, 2, o.Rows)
	assert.Equal(t, 2, o.Sets)

	table, ok := out.sink.Table("laps_data_2018_to_2019")
	require.True(t, ok)
	assert.Equal(t, []string{"driver_number", "lap_duration", "i1_speed"}, table.Columns())
	assert.True(t, table.Rows()[0].IsNull("i1_speed"))
	assert.True(t, table.Rows()[1].IsNull("lap_duration"))

	empty := c.Consolidate(context.Background(), Weather, nil)
	assert.True(t, empty.Empty)
	assert.NoError(t, empty.Err)
	_, ok = out.sink.Table("weather_data_2018_to_2019")
	assert.False(t, ok)
}

func TestCategoryNames(t *testing.T) {
	want := []string{"race_results", "laps_data", "qualifying_results", "practice_laps", "pit_stops", "weather_data"}
	for i, c := range Categories {
		assert.Equal(t, want[i], c.Stem())
	}
	assert.Equal(t, "pit_stops_2018_to_2026", PitStops.OutputName(2018, 2026))
}

func TestFixedDelay(t *testing.T) {
	start := time.Now()
	require.NoError(t, FixedDelay(10*time.Millisecond).Pace(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start = time.Now()
	err := FixedDelay(time.Hour).Pace(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)

	assert.NoError(t, FixedDelay(0).Pace(context.Background()))
	assert.NoError(t, NoDelay{}.Pace(context.Background()))
}

func TestSeasonPlan(t *testing.T) {
	fp := newFakeProvider()
	fp.schedules[2024] = []provider.Event{
		{Round: 0, Name: "Pre-Season Testing", Date: past(120)},
		{Round: 1, Name: "Bahrain Grand Prix", Date: past(110)},
		{Round: 2, Name: "Saudi Arabian Grand Prix", Date: past(100)},
		{Round: 14, Name: "Belgian Grand Prix", Date: future(20)},
	}
	log := zaptest.NewLogger(t).Sugar()
	w := NewSeasonWalker(fp, NewEventProcessor(fp, ProcessorOptions{}, log), NoDelay{}, func() time.Time { return testNow }, log)

	events, report, err := w.Plan(context.Background(), 2024)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Bahrain Grand Prix", events[0].Name)
	assert.Equal(t, 4, report.Scheduled)
	assert.Equal(t, 2, report.Eligible())
	assert.Empty(t, fp.fetches)
}

type recordingProgress struct {
	seasons map[int]int
	events  []string
}

func (p *recordingProgress) SeasonStarted(season int, events []provider.Event) {
	p.seasons[season] = len(events)
}

func (p *recordingProgress) EventDone(y *Yield) {
	p.events = append(p.events, y.Event.Name)
}

func TestWalkReportsProgress(t *testing.T) {
	fp := newFakeProvider()
	fp.schedules[2024] = []provider.Event{
		{Round: 1, Name: "Bahrain Grand Prix", Date: past(110)},
		{Round: 2, Name: "Saudi Arabian Grand Prix", Date: past(100)},
	}
	log := zaptest.NewLogger(t).Sugar()
	progress := &recordingProgress{seasons: map[int]int{}}
	w := NewSeasonWalker(fp, NewEventProcessor(fp, ProcessorOptions{}, log), NoDelay{}, func() time.Time { return testNow }, log).
		WithProgress(progress)

	_, err := w.Walk(context.Background(), 2024, NewAccumulators())
	require.NoError(t, err)

	assert.Equal(t, map[int]int{2024: 2}, progress.seasons)
	assert.Equal(t, []string{"Bahrain Grand Prix", "Saudi Arabian Grand Prix"}, progress.events)
}
