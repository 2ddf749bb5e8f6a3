// Package am loads paddock configuration from defaults, TOML files and
// PADDOCK_* environment variables.
package am

import "time"

// Config represents the paddock configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Collect  CollectConfig  `mapstructure:"collect"`
	Output   OutputConfig   `mapstructure:"output"`
	Provider ProviderConfig `mapstructure:"provider"`
	Log      LogConfig      `mapstructure:"log"`
}

// DatabaseConfig configures the SQLite database holding the response cache and run history
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// CollectConfig configures the season traversal
type CollectConfig struct {
	StartSeason          int  `mapstructure:"start_season"`            // first season collected (default: 2018)
	EndSeason            int  `mapstructure:"end_season"`              // last season, 0 = current year
	EventDelayMS         int  `mapstructure:"event_delay_ms"`          // pause after each event (default: 2000)
	RaceGatesEvent       bool `mapstructure:"race_gates_event"`        // skip qualifying/practice when the race fails
	AbortOnScheduleError bool `mapstructure:"abort_on_schedule_error"` // abort the run when a season schedule fails
}

// OutputConfig configures where consolidated tables go
type OutputConfig struct {
	Dir       string `mapstructure:"dir"`
	Format    string `mapstructure:"format"`    // csv or sqlite
	Delimiter string `mapstructure:"delimiter"` // csv only
}

// ProviderConfig configures the OpenF1 client
type ProviderConfig struct {
	BaseURL           string `mapstructure:"base_url"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute"` // 0 = unthrottled
	CacheEnabled      bool   `mapstructure:"cache_enabled"`
	UserAgent         string `mapstructure:"user_agent"`
	AllowPrivate      bool   `mapstructure:"allow_private"` // allow a self-hosted mirror on a private address
}

// LogConfig configures console logging
type LogConfig struct {
	Theme string `mapstructure:"theme"` // gruvbox, everforest
}

// Output formats
const (
	FormatCSV    = "csv"
	FormatSQLite = "sqlite"
)

// FirstChampionshipSeason is the earliest season accepted as a start season.
const FirstChampionshipSeason = 1950

// File system constants
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)

// SeasonRange resolves the configured range; an end season of 0 means the
// year of now.
func (c *Config) SeasonRange(now time.Time) (start, end int) {
	end = c.Collect.EndSeason
	if end == 0 {
		end = now.Year()
	}
	return c.Collect.StartSeason, end
}

// EventDelay is the pause applied after each processed event.
func (c *Config) EventDelay() time.Duration {
	return time.Duration(c.Collect.EventDelayMS) * time.Millisecond
}

// ProviderTimeout is the per-request provider timeout.
func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.Provider.TimeoutSeconds) * time.Second
}
