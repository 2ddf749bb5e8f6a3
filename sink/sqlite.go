package sink

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/teranos/paddock/errors"
	"github.com/teranos/paddock/recordset"
)

// SQLite writes each table as a SQLite table of the same name, replacing any
// previous contents. Columns are untyped; values keep their JSON type
// (integers, reals, text, NULL).
type SQLite struct {
	db   *sql.DB
	path string
}

// NewSQLite wraps an open database. path is informational.
func NewSQLite(db *sql.DB, path string) *SQLite {
	return &SQLite{db: db, path: path}
}

func (s *SQLite) Target(name string) string {
	return s.path + "#" + name
}

func (s *SQLite) Write(ctx context.Context, name string, table *recordset.Set) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	columns := table.Columns()
	if len(columns) == 0 {
		return errors.Newf("table %s has no columns", name)
	}

	quoted := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(c)
		marks[i] = "?"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrapf(err, "begin tx for %s", name)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(name)); err != nil {
		return errors.Wrapf(err, "drop %s", name)
	}
	if _, err := tx.ExecContext(ctx, "CREATE TABLE "+quoteIdent(name)+" ("+strings.Join(quoted, ", ")+")"); err != nil {
		return errors.Wrapf(err, "create %s", name)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO "+quoteIdent(name)+" ("+strings.Join(quoted, ", ")+") VALUES ("+strings.Join(marks, ", ")+")")
	if err != nil {
		return errors.Wrapf(err, "prepare insert into %s", name)
	}
	defer stmt.Close()

	args := make([]any, len(columns))
	for n, row := range table.Rows() {
		for i, c := range columns {
			args[i] = sqlValue(row[c])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return errors.Wrapf(err, "insert row %d into %s", n, name)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrapf(err, "commit %s", name)
	}
	return nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// sqlValue maps a cell to a driver value keeping numbers numeric.
func sqlValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case json.Number:
		if i, err := strconv.ParseInt(val.String(), 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(val.String(), 64); err == nil {
			return f
		}
		return val.String()
	case bool:
		if val {
			return int64(1)
		}
		return int64(0)
	case string, int, int64, float64:
		return val
	default:
		return recordset.Format(val)
	}
}
