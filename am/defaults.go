package am

import (
	"github.com/spf13/viper"

	"github.com/teranos/paddock/version"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", "data/paddock.db")

	v.SetDefault("collect.start_season", 2018)
	v.SetDefault("collect.end_season", 0)        // current year
	v.SetDefault("collect.event_delay_ms", 2000) // polite pause between events
	v.SetDefault("collect.race_gates_event", false)
	v.SetDefault("collect.abort_on_schedule_error", false)

	v.SetDefault("output.dir", "data/processed")
	v.SetDefault("output.format", FormatCSV)
	v.SetDefault("output.delimiter", ",")

	v.SetDefault("provider.base_url", "https://api.openf1.org/v1")
	v.SetDefault("provider.timeout_seconds", 30)
	v.SetDefault("provider.requests_per_minute", 30)
	v.SetDefault("provider.cache_enabled", true)
	v.SetDefault("provider.user_agent", version.UserAgent())
	v.SetDefault("provider.allow_private", false)

	v.SetDefault("log.theme", "everforest")
}
