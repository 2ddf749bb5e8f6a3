package collect

import "fmt"

// Category is one of the six output tables.
type Category int

const (
	RaceResults Category = iota
	Laps
	Qualifying
	Practice
	PitStops
	Weather
)

// Categories is the fixed consolidation order.
var Categories = []Category{RaceResults, Laps, Qualifying, Practice, PitStops, Weather}

var stems = map[Category]string{
	RaceResults: "race_results",
	Laps:        "laps_data",
	Qualifying:  "qualifying_results",
	Practice:    "practice_laps",
	PitStops:    "pit_stops",
	Weather:     "weather_data",
}

// Stem is the output name prefix, e.g. "laps_data".
func (c Category) Stem() string {
	if s, ok := stems[c]; ok {
		return s
	}
	return fmt.Sprintf("category_%d", int(c))
}

func (c Category) String() string {
	return c.Stem()
}

// OutputName is the table name for a run over seasons start..end.
func (c Category) OutputName(start, end int) string {
	return fmt.Sprintf("%s_%d_to_%d", c.Stem(), start, end)
}
