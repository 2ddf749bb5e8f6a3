package openf1

import (
	"context"
	"net/url"
	"strconv"

	"github.com/teranos/paddock/errors"
	"github.com/teranos/paddock/logger"
	"github.com/teranos/paddock/provider"
	"github.com/teranos/paddock/recordset"
)

// FetchSession resolves the session of event and fetches its results plus the
// requested sub-resources. Any failure yields no bundle.
func (c *Client) FetchSession(ctx context.Context, season int, event provider.Event, kind provider.SessionKind, detail provider.Detail) (*provider.Bundle, error) {
	b, err := c.fetchSession(ctx, event, kind, detail)
	if err != nil {
		return nil, errors.SessionUnavailable(err, season, event.Round, kind.Label())
	}
	return b, nil
}

func (c *Client) fetchSession(ctx context.Context, event provider.Event, kind provider.SessionKind, detail provider.Detail) (*provider.Bundle, error) {
	if event.Key == 0 {
		return nil, errors.Newf("event %q has no meeting key", event.Name)
	}

	sessions, err := c.get(ctx, "sessions", url.Values{
		"meeting_key":  {strconv.Itoa(event.Key)},
		"session_name": {kind.Name()},
	}, true)
	if err != nil {
		return nil, errors.Wrapf(err, "look up %s", kind.Name())
	}
	if sessions.Empty() {
		return nil, errors.Newf("no %s session published", kind.Name())
	}
	sessionKey, ok := intField(sessions.Rows()[0], "session_key")
	if !ok {
		return nil, errors.Newf("%s session has no session key", kind.Name())
	}
	bySession := url.Values{"session_key": {strconv.Itoa(sessionKey)}}

	b := &provider.Bundle{}
	if b.Results, err = c.get(ctx, "session_result", bySession, true); err != nil {
		return nil, errors.Wrap(err, "results")
	}

	if detail.Laps {
		laps, err := c.get(ctx, "laps", bySession, true)
		if err != nil {
			return nil, errors.Wrap(err, "laps")
		}
		pits, err := c.getOptional(ctx, "pit", bySession, true)
		if err != nil {
			return nil, errors.Wrap(err, "pit stops")
		}
		b.Laps = stampPitIn(laps, pits)
	}

	if detail.Weather {
		if b.Weather, err = c.get(ctx, "weather", bySession, true); err != nil {
			return nil, errors.Wrap(err, "weather")
		}
	}

	if detail.Messages {
		if b.Messages, err = c.getOptional(ctx, "race_control", bySession, true); err != nil {
			return nil, errors.Wrap(err, "race control")
		}
	}

	c.logger.Debugw("Session fetched",
		logger.FieldEvent, event.Name,
		logger.FieldSession, kind.Label(),
		logger.FieldRows, b.Results.Len(),
	)
	return b, nil
}

// stampPitIn adds provider.PitInColumn to laps from the pit entries of the same driver
// and lap number.
func stampPitIn(laps, pits *recordset.Set) *recordset.Set {
	entries := make(map[string]any, pits.Len())
	for _, p := range pits.Rows() {
		if p.IsNull("date") {
			continue
		}
		entries[lapKey(p)] = p["date"]
	}
	return laps.Derive(provider.PitInColumn, func(r recordset.Row) any {
		return entries[lapKey(r)]
	})
}

func lapKey(r recordset.Row) string {
	return recordset.Format(r["driver_number"]) + "/" + recordset.Format(r["lap_number"])
}
