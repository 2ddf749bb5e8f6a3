package commands

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/paddock/am"
	"github.com/teranos/paddock/errors"
	"github.com/teranos/paddock/runlog"
	"github.com/teranos/paddock/sink"
)

func init() {
	pterm.DisableColor()
}

// openF1Bodies is one concluded 2023 event with a race and nothing else.
var openF1Bodies = map[string]string{
	"/v1/meetings?year=2023": `[
		{"meeting_key": 1141, "meeting_name": "Bahrain Grand Prix", "country_name": "Bahrain", "location": "Sakhir", "date_start": "2023-03-03T11:30:00+00:00"}
	]`,
	"/v1/sessions?session_name=Race&year=2023": `[
		{"meeting_key": 1141, "session_key": 7953, "session_name": "Race", "date_start": "2023-03-05T15:00:00+00:00"}
	]`,
	"/v1/sessions?meeting_key=1141&session_name=Race": `[
		{"meeting_key": 1141, "session_key": 7953, "session_name": "Race"}
	]`,
	"/v1/session_result?session_key=7953": `[
		{"position": 1, "driver_number": 1},
		{"position": 2, "driver_number": 11}
	]`,
	"/v1/laps?session_key=7953": `[
		{"driver_number": 1, "lap_number": 1, "lap_duration": 97.284},
		{"driver_number": 1, "lap_number": 2, "lap_duration": 99.031}
	]`,
	"/v1/pit?session_key=7953": `[
		{"driver_number": 1, "lap_number": 2, "date": "2023-03-05T15:40:00+00:00"}
	]`,
	"/v1/weather?session_key=7953": `[
		{"air_temperature": 27.1, "rainfall": 0}
	]`,
}

// setupEnv points the configuration at a fake provider and a temp workspace.
func setupEnv(t *testing.T) (outDir string) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Path
		if q := r.URL.Query().Encode(); q != "" {
			key += "?" + q
		}
		body, ok := openF1Bodies[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"detail": "No results found."}`))
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	outDir = filepath.Join(dir, "processed")
	t.Setenv("PADDOCK_DATABASE_PATH", filepath.Join(dir, "paddock.db"))
	t.Setenv("PADDOCK_OUTPUT_DIR", outDir)
	t.Setenv("PADDOCK_PROVIDER_BASE_URL", srv.URL+"/v1")
	t.Setenv("PADDOCK_PROVIDER_ALLOW_PRIVATE", "true")
	t.Setenv("PADDOCK_PROVIDER_REQUESTS_PER_MINUTE", "0")
	t.Setenv("PADDOCK_COLLECT_EVENT_DELAY_MS", "0")

	am.Reset()
	t.Cleanup(am.Reset)
	return outDir
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "paddock", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().CountP("verbose", "v", "")
	root.PersistentFlags().Bool("json", false, "")
	root.AddCommand(cmd)

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(append([]string{cmd.Name()}, args...))
	err := root.Execute()
	return buf.String(), err
}

func TestCollectWritesTablesAndRecordsRun(t *testing.T) {
	outDir := setupEnv(t)

	out, err := execute(t, CollectCmd, "--start", "2023", "--end", "2023")
	require.NoError(t, err, out)

	assert.Contains(t, out, "Season 2023")
	assert.Contains(t, out, "Bahrain Grand Prix")
	assert.Contains(t, out, "all data saved to "+outDir)

	results, err := os.ReadFile(filepath.Join(outDir, "race_results_2023_to_2023.csv"))
	require.NoError(t, err)
	assert.Equal(t, "position,driver_number,year,event_name\n1,1,2023,Bahrain Grand Prix\n2,11,2023,Bahrain Grand Prix\n", string(results))

	pits, err := os.ReadFile(filepath.Join(outDir, "pit_stops_2023_to_2023.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(pits), "2023-03-05T15:40:00+00:00")

	for _, name := range []string{"laps_data", "weather_data"} {
		assert.FileExists(t, filepath.Join(outDir, name+"_2023_to_2023.csv"))
	}
	for _, name := range []string{"qualifying_results", "practice_laps"} {
		assert.NoFileExists(t, filepath.Join(outDir, name+"_2023_to_2023.csv"))
	}

	out, err = execute(t, RunsCmd, "ls", "--json")
	require.NoError(t, err, out)
	var runs []runlog.Run
	require.NoError(t, json.Unmarshal([]byte(out), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, runlog.StatusCompleted, runs[0].Status)
	assert.Equal(t, 1, runs[0].EventsProcessed)
	assert.Equal(t, 2023, runs[0].Start)
}

func TestScheduleCommand(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, ScheduleCmd, "2023")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Bahrain Grand Prix")
	assert.Contains(t, out, "Sakhir, Bahrain")
	assert.Contains(t, out, "eligible")

	_, err = execute(t, ScheduleCmd, "twenty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid season")
}

func TestResolveCollectOptions(t *testing.T) {
	cfg := &am.Config{
		Collect: am.CollectConfig{StartSeason: 2018, EventDelayMS: 2000},
		Output:  am.OutputConfig{Dir: "data/processed", Format: am.FormatCSV},
	}
	now := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

	newCmd := func() *cobra.Command {
		c := &cobra.Command{}
		c.Flags().IntVar(&collectStart, "start", 0, "")
		c.Flags().IntVar(&collectEnd, "end", 0, "")
		c.Flags().StringVar(&collectOutput, "output", "", "")
		c.Flags().StringVar(&collectFormat, "format", "", "")
		c.Flags().DurationVar(&collectDelay, "delay", -1, "")
		return c
	}

	opts, err := resolveCollectOptions(newCmd(), cfg, now)
	require.NoError(t, err)
	assert.Equal(t, collectOptions{start: 2018, end: 2026, dir: "data/processed", format: am.FormatCSV, delay: 2 * time.Second}, opts)
	assert.Equal(t, "data/processed", opts.location())

	c := newCmd()
	require.NoError(t, c.Flags().Set("start", "2021"))
	require.NoError(t, c.Flags().Set("end", "2022"))
	require.NoError(t, c.Flags().Set("format", "sqlite"))
	require.NoError(t, c.Flags().Set("delay", "0s"))
	opts, err = resolveCollectOptions(c, cfg, now)
	require.NoError(t, err)
	assert.Equal(t, 2021, opts.start)
	assert.Equal(t, 2022, opts.end)
	assert.Equal(t, time.Duration(0), opts.delay)
	assert.Equal(t, filepath.Join("data/processed", sqliteOutputFile), opts.location())

	c = newCmd()
	require.NoError(t, c.Flags().Set("start", "2024"))
	require.NoError(t, c.Flags().Set("end", "2020"))
	_, err = resolveCollectOptions(c, cfg, now)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestOpenSink(t *testing.T) {
	dir := t.TempDir()

	s, closeSink, err := openSink(am.FormatCSV, dir, ";")
	require.NoError(t, err)
	require.NoError(t, closeSink())
	assert.IsType(t, &sink.CSV{}, s)

	s, closeSink, err = openSink(am.FormatSQLite, dir, "")
	require.NoError(t, err)
	defer closeSink()
	assert.Equal(t, filepath.Join(dir, sqliteOutputFile)+"#laps", s.Target("laps"))

	_, _, err = openSink("parquet", dir, ",")
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}
