package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "paddock.db"), nil)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(db, nil))
	require.NoError(t, Migrate(db, nil))

	var versions []string
	rows, err := db.Query("SELECT version FROM schema_migrations ORDER BY version")
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var v string
		require.NoError(t, rows.Scan(&v))
		versions = append(versions, v)
	}
	require.NoError(t, rows.Err())

	assert.Equal(t, []string{"000", "001", "002"}, versions)
}

func TestMigrateFailsWhenHistoryLost(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "paddock.db"), nil)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(db, nil))
	_, err = db.Exec("DROP TABLE schema_migrations")
	require.NoError(t, err)

	// 000 re-creates the table, then 001 is attempted against an existing table.
	err = Migrate(db, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "001")
}
