package am

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSourceTrackingIntegration runs the real load path (home directory,
// project search, environment) and checks where each setting came from.
func TestSourceTrackingIntegration(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".paddock"), 0755))
	userFile := filepath.Join(home, ".paddock", "am.toml")
	require.NoError(t, os.WriteFile(userFile, []byte(`
[database]
path = "user.db"

[collect]
start_season = 2014
event_delay_ms = 750
`), 0644))

	project := filepath.Join(home, "season-work")
	nested := filepath.Join(project, "notebooks")
	require.NoError(t, os.MkdirAll(nested, 0755))
	projectFile := filepath.Join(project, "am.toml")
	require.NoError(t, os.WriteFile(projectFile, []byte(`
[collect]
start_season = 2021

[output]
format = "sqlite"
`), 0644))

	t.Setenv("HOME", home)
	t.Chdir(nested)

	t.Run("project wins over user", func(t *testing.T) {
		Reset()
		defer Reset()

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 2021, cfg.Collect.StartSeason)
		assert.Equal(t, 750, cfg.Collect.EventDelayMS)
		assert.Equal(t, "user.db", cfg.Database.Path)
		assert.Equal(t, FormatSQLite, cfg.Output.Format)

		settings := indexSettings(Introspect())
		assert.Equal(t, SourceProject, settings["collect.start_season"].Source)
		assert.Equal(t, projectFile, settings["collect.start_season"].SourcePath)
		assert.Equal(t, SourceUser, settings["collect.event_delay_ms"].Source)
		assert.Equal(t, userFile, settings["database.path"].SourcePath)
		assert.Equal(t, SourceDefault, settings["output.dir"].Source)
	})

	t.Run("environment overrides files", func(t *testing.T) {
		Reset()
		defer Reset()
		t.Setenv("PADDOCK_DATABASE_PATH", "env.db")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "env.db", cfg.Database.Path)

		dbPath := indexSettings(Introspect())["database.path"]
		assert.Equal(t, SourceEnvironment, dbPath.Source)
		assert.Equal(t, "PADDOCK_DATABASE_PATH", dbPath.SourcePath)
		assert.Equal(t, "env.db", dbPath.Value)
	})
}

func indexSettings(settings []SettingInfo) map[string]SettingInfo {
	out := make(map[string]SettingInfo, len(settings))
	for _, s := range settings {
		out[s.Key] = s
	}
	return out
}
