// Package provider defines the capabilities the collector needs from a data
// provider: a season schedule and per-session record fetching.
package provider

import (
	"context"
	"time"

	"github.com/teranos/paddock/recordset"
)

// Event is one scheduled round of a season.
type Event struct {
	Round    int       `json:"round"`
	Name     string    `json:"name"`
	Date     time.Time `json:"date"`
	Country  string    `json:"country,omitempty"`
	Location string    `json:"location,omitempty"`
	Key      int       `json:"key,omitempty"` // provider meeting key
}

// Championship reports whether the event counts toward the championship.
// Round 0 is reserved for testing and other non-championship meetings.
func (e Event) Championship() bool {
	return e.Round != 0
}

// Concluded reports whether the event date lies strictly before now.
func (e Event) Concluded(now time.Time) bool {
	return e.Date.Before(now)
}

// Eligible reports whether the event should be collected at time now.
func (e Event) Eligible(now time.Time) bool {
	return e.Championship() && e.Concluded(now)
}

// PitInColumn is the lap column holding the pit entry time for laps that
// ended in the pit lane, null otherwise.
const PitInColumn = "pit_in_time"

// Detail selects the sub-resources fetched alongside session results.
type Detail struct {
	Laps     bool
	Weather  bool
	Messages bool
}

// Bundle is the complete result of one session fetch. Sub-resources that were
// not requested are nil.
type Bundle struct {
	Results  *recordset.Set
	Laps     *recordset.Set
	Weather  *recordset.Set
	Messages *recordset.Set
}

// Scheduler lists the events of a season in schedule order.
type Scheduler interface {
	Schedule(ctx context.Context, season int) ([]Event, error)
}

// SessionFetcher fetches one session. The call is atomic: either a complete
// bundle or an error is returned, never both.
type SessionFetcher interface {
	FetchSession(ctx context.Context, season int, event Event, kind SessionKind, detail Detail) (*Bundle, error)
}

// Provider is a Scheduler and SessionFetcher backed by the same source.
type Provider interface {
	Scheduler
	SessionFetcher
}
