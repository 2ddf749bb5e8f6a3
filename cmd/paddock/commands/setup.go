package commands

import (
	"database/sql"
	"path/filepath"

	"github.com/teranos/paddock/am"
	"github.com/teranos/paddock/db"
	"github.com/teranos/paddock/errors"
	"github.com/teranos/paddock/logger"
	"github.com/teranos/paddock/provider/cache"
	"github.com/teranos/paddock/provider/openf1"
	"github.com/teranos/paddock/sink"
)

// sqliteOutputFile is the database written by output.format = "sqlite",
// inside output.dir.
const sqliteOutputFile = "paddock_tables.db"

// loadConfig loads and validates configuration and applies the log theme.
func loadConfig() (*am.Config, error) {
	cfg, err := am.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	logger.SetTheme(cfg.Log.Theme)
	return cfg, nil
}

// openDatabase opens and migrates the paddock database.
func openDatabase(cfg *am.Config) (*sql.DB, error) {
	database, err := db.OpenWithMigrations(cfg.Database.Path, logger.ComponentLogger("db"))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database at %s", cfg.Database.Path)
	}
	return database, nil
}

// newProvider builds the OpenF1 client, backed by the response cache unless
// caching is off.
func newProvider(cfg *am.Config, database *sql.DB, useCache bool) *openf1.Client {
	var store openf1.ResponseCache
	if useCache && cfg.Provider.CacheEnabled {
		store = cache.NewStore(database)
	}
	return openf1.New(openf1.Config{
		BaseURL:           cfg.Provider.BaseURL,
		Timeout:           cfg.ProviderTimeout(),
		RequestsPerMinute: cfg.Provider.RequestsPerMinute,
		UserAgent:         cfg.Provider.UserAgent,
		AllowPrivate:      cfg.Provider.AllowPrivate,
	}, store, logger.ComponentLogger("openf1"))
}

// openSink creates the output sink for format in dir. The returned close
// function releases the sqlite output database, if any.
func openSink(format, dir, delimiter string) (sink.Sink, func() error, error) {
	noop := func() error { return nil }
	switch format {
	case am.FormatCSV:
		s, err := sink.NewCSV(dir).WithDelimiter(delimiter)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil
	case am.FormatSQLite:
		path := filepath.Join(dir, sqliteOutputFile)
		out, err := db.Open(path, logger.ComponentLogger("sink"))
		if err != nil {
			return nil, noop, errors.Wrapf(err, "failed to open output database %s", path)
		}
		return sink.NewSQLite(out, path), out.Close, nil
	default:
		return nil, noop, errors.Mark(errors.Newf("unknown output format %q", format), errors.ErrInvalidConfig)
	}
}
