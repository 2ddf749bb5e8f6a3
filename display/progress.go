package display

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pterm/pterm"

	"github.com/teranos/paddock/collect"
	"github.com/teranos/paddock/provider"
)

// CLIProgress prints one line per season and per processed event.
type CLIProgress struct {
	w io.Writer
}

// NewCLIProgress creates a terminal progress printer writing to w.
func NewCLIProgress(w io.Writer) *CLIProgress {
	return &CLIProgress{w: w}
}

// SeasonStarted announces a season and its eligible event count.
func (p *CLIProgress) SeasonStarted(season int, events []provider.Event) {
	fmt.Fprintf(p.w, "%s %s\n", pterm.LightCyan(fmt.Sprintf("Season %d", season)),
		pterm.Gray(fmt.Sprintf("%d events", len(events))))
}

// EventDone prints the event with a mark per session.
func (p *CLIProgress) EventDone(y *collect.Yield) {
	fmt.Fprintf(p.w, "  %s %-28s %s %s %s\n",
		pterm.Gray(fmt.Sprintf("R%02d", y.Event.Round)),
		y.Event.Name,
		sessionMark("R", y.RaceErr),
		sessionMark("Q", y.QualifyingErr),
		practiceMarks(y.Practice),
	)
}

func sessionMark(label string, err error) string {
	if err != nil {
		return pterm.Red(label + "✗")
	}
	return pterm.Green(label + "✓")
}

func practiceMarks(outcomes []collect.PracticeOutcome) string {
	s := ""
	for i, o := range outcomes {
		if i > 0 {
			s += " "
		}
		s += sessionMark(o.Kind.Label(), o.Err)
	}
	return s
}

// ProgressEvent is one JSON line emitted by JSONProgress.
type ProgressEvent struct {
	Type      string                 `json:"type"` // "season" or "event"
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// JSONProgress writes structured progress events, one JSON object per line.
type JSONProgress struct {
	encoder *json.Encoder
	now     func() time.Time
}

// NewJSONProgress creates a JSON progress emitter writing to w.
func NewJSONProgress(w io.Writer) *JSONProgress {
	return &JSONProgress{encoder: json.NewEncoder(w), now: time.Now}
}

// SeasonStarted emits a season event.
func (p *JSONProgress) SeasonStarted(season int, events []provider.Event) {
	p.emit("season", map[string]interface{}{
		"season": season,
		"events": len(events),
	})
}

// EventDone emits an event outcome with per-session status.
func (p *JSONProgress) EventDone(y *collect.Yield) {
	sessions := map[string]string{
		provider.Race.Label():       status(y.RaceErr),
		provider.Qualifying.Label(): status(y.QualifyingErr),
	}
	for _, o := range y.Practice {
		sessions[o.Kind.Label()] = status(o.Err)
	}
	p.emit("event", map[string]interface{}{
		"season":   y.Season,
		"round":    y.Event.Round,
		"event":    y.Event.Name,
		"sessions": sessions,
	})
}

func (p *JSONProgress) emit(kind string, data map[string]interface{}) {
	_ = p.encoder.Encode(ProgressEvent{Type: kind, Timestamp: p.now().UTC(), Data: data})
}

func status(err error) string {
	if err != nil {
		return "failed"
	}
	return "ok"
}

var (
	_ collect.Progress = (*CLIProgress)(nil)
	_ collect.Progress = (*JSONProgress)(nil)
)
