package am

import (
	"net/url"
	"unicode/utf8"

	"github.com/teranos/paddock/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return invalid("database.path cannot be empty")
	}

	if c.Collect.StartSeason < FirstChampionshipSeason {
		return invalid("collect.start_season must be >= %d, got %d", FirstChampionshipSeason, c.Collect.StartSeason)
	}
	// end_season: 0 = current year
	if c.Collect.EndSeason != 0 && c.Collect.EndSeason < c.Collect.StartSeason {
		return invalid("collect.end_season %d is before collect.start_season %d", c.Collect.EndSeason, c.Collect.StartSeason)
	}
	if c.Collect.EventDelayMS < 0 {
		return invalid("collect.event_delay_ms must be >= 0, got %d", c.Collect.EventDelayMS)
	}

	if c.Output.Dir == "" {
		return invalid("output.dir cannot be empty")
	}
	switch c.Output.Format {
	case FormatCSV, FormatSQLite:
	default:
		return invalid("output.format must be %q or %q, got %q", FormatCSV, FormatSQLite, c.Output.Format)
	}
	if c.Output.Format == FormatCSV && utf8.RuneCountInString(c.Output.Delimiter) != 1 {
		return invalid("output.delimiter must be a single character, got %q", c.Output.Delimiter)
	}

	u, err := url.Parse(c.Provider.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalid("provider.base_url must be an http(s) URL, got %q", c.Provider.BaseURL)
	}
	if c.Provider.TimeoutSeconds <= 0 {
		return invalid("provider.timeout_seconds must be > 0, got %d", c.Provider.TimeoutSeconds)
	}
	// requests_per_minute: 0 = unthrottled
	if c.Provider.RequestsPerMinute < 0 {
		return invalid("provider.requests_per_minute must be >= 0, got %d", c.Provider.RequestsPerMinute)
	}

	return nil
}

func invalid(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), errors.ErrInvalidConfig)
}
