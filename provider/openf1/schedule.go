package openf1

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/teranos/paddock/errors"
	"github.com/teranos/paddock/logger"
	"github.com/teranos/paddock/provider"
)

// Schedule lists the meetings of a season in date order. Testing meetings get
// round 0; championship meetings are numbered from 1. An event's date is its
// race start, or the meeting start when the race session is not published yet.
func (c *Client) Schedule(ctx context.Context, season int) ([]provider.Event, error) {
	// the current season's calendar still changes
	cacheable := season < c.now().Year()
	year := url.Values{"year": {strconv.Itoa(season)}}

	meetings, err := c.getOptional(ctx, "meetings", year, cacheable)
	if err != nil {
		return nil, errors.ScheduleUnavailable(err, season)
	}

	races, err := c.getOptional(ctx, "sessions", url.Values{
		"year":         {strconv.Itoa(season)},
		"session_name": {provider.Race.Name()},
	}, cacheable)
	if err != nil {
		return nil, errors.ScheduleUnavailable(err, season)
	}

	raceStart := make(map[int]time.Time, races.Len())
	for _, r := range races.Rows() {
		key, ok := intField(r, "meeting_key")
		if !ok {
			continue
		}
		if start, ok := timeField(r, "date_start"); ok {
			raceStart[key] = start
		}
	}

	events := make([]provider.Event, 0, meetings.Len())
	for _, m := range meetings.Rows() {
		key, ok := intField(m, "meeting_key")
		if !ok {
			c.logger.Warnw("Meeting without key skipped", logger.FieldSeason, season, "meeting", m["meeting_name"])
			continue
		}
		ev := provider.Event{
			Key:      key,
			Name:     stringField(m, "meeting_name"),
			Country:  stringField(m, "country_name"),
			Location: stringField(m, "location"),
		}
		if start, ok := timeField(m, "date_start"); ok {
			ev.Date = start
		}
		if start, ok := raceStart[key]; ok {
			ev.Date = start
		}
		events = append(events, ev)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})

	round := 0
	for i := range events {
		if isTesting(events[i].Name) {
			events[i].Round = 0
			continue
		}
		round++
		events[i].Round = round
	}

	c.logger.Debugw("Schedule loaded", logger.FieldSeason, season, logger.FieldEvents, len(events))
	return events, nil
}

func isTesting(name string) bool {
	return strings.Contains(strings.ToLower(name), "testing")
}
