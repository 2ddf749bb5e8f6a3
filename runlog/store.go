// Package runlog records collection runs in the paddock database.
package runlog

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/teranos/paddock/collect"
	"github.com/teranos/paddock/errors"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// Run is one recorded collect invocation.
type Run struct {
	ID              string           `json:"id"`
	StartedAt       time.Time        `json:"started_at"`
	FinishedAt      *time.Time       `json:"finished_at,omitempty"`
	Start           int              `json:"start_season"`
	End             int              `json:"end_season"`
	Status          string           `json:"status"`
	EventsProcessed int              `json:"events_processed"`
	EventsSkipped   int              `json:"events_skipped"`
	SessionFailures int              `json:"session_failures"`
	FailedSeasons   []int            `json:"failed_seasons,omitempty"`
	Error           string           `json:"error,omitempty"`
	Categories      []CategoryResult `json:"categories,omitempty"`
}

// CategoryResult is the consolidation outcome of one category in a run.
type CategoryResult struct {
	Category string `json:"category"`
	Sets     int    `json:"sets"`
	Rows     int    `json:"rows"`
	Written  bool   `json:"written"`
	Target   string `json:"target,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Store handles persistence of run history
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore creates a new run store
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Begin records a new running run over seasons start..end.
func (s *Store) Begin(ctx context.Context, start, end int) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		StartedAt: s.now().UTC(),
		Start:     start,
		End:       end,
		Status:    StatusRunning,
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, start_season, end_season, status)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.StartedAt, run.Start, run.End, run.Status)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create run")
	}
	return run, nil
}

// Finish stores the outcome of run. sum may be nil when the run failed before
// traversal; runErr decides between completed, cancelled and failed.
func (s *Store) Finish(ctx context.Context, run *Run, sum *collect.Summary, runErr error) error {
	finished := s.now().UTC()
	run.FinishedAt = &finished
	run.Status = statusOf(runErr)
	if runErr != nil {
		run.Error = runErr.Error()
	}
	if sum != nil {
		run.EventsProcessed = sum.EventsProcessed
		run.EventsSkipped = sum.EventsSkipped
		run.SessionFailures = sum.SessionFailures
		run.FailedSeasons = sum.FailedSeasons
		run.Categories = run.Categories[:0]
		for _, o := range sum.Outcomes {
			cr := CategoryResult{
				Category: o.Category.Stem(),
				Sets:     o.Sets,
				Rows:     o.Rows,
				Written:  o.Written(),
				Target:   o.Target,
			}
			if o.Err != nil {
				cr.Error = o.Err.Error()
			}
			run.Categories = append(run.Categories, cr)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE runs
		SET finished_at = ?,
		    status = ?,
		    events_processed = ?,
		    events_skipped = ?,
		    session_failures = ?,
		    failed_seasons = ?,
		    error = ?
		WHERE id = ?
	`, finished, run.Status, run.EventsProcessed, run.EventsSkipped, run.SessionFailures,
		joinSeasons(run.FailedSeasons), run.Error, run.ID)
	if err != nil {
		return errors.Wrap(err, "failed to update run")
	}
	n, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to check rows affected")
	}
	if n == 0 {
		return errors.Mark(errors.Newf("run not found: %s", run.ID), errors.ErrNotFound)
	}

	for i, c := range run.Categories {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO run_categories (run_id, category, position, sets, rows, written, target, error)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, run.ID, c.Category, i, c.Sets, c.Rows, c.Written, c.Target, c.Error)
		if err != nil {
			return errors.Wrapf(err, "failed to record category %s", c.Category)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit run")
	}
	return nil
}

// List returns the most recent runs, newest first, without category detail.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, start_season, end_season, status,
		       events_processed, events_skipped, session_failures, failed_seasons, error
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate runs")
	}
	return runs, nil
}

// Get returns one run with its category results.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, start_season, end_season, status,
		       events_processed, events_skipped, session_failures, failed_seasons, error
		FROM runs
		WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Mark(errors.Newf("run not found: %s", id), errors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT category, sets, rows, written, target, error
		FROM run_categories
		WHERE run_id = ?
		ORDER BY position
	`, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read run categories")
	}
	defer rows.Close()

	for rows.Next() {
		var c CategoryResult
		if err := rows.Scan(&c.Category, &c.Sets, &c.Rows, &c.Written, &c.Target, &c.Error); err != nil {
			return nil, errors.Wrap(err, "failed to scan run category")
		}
		run.Categories = append(run.Categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate run categories")
	}
	return run, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var run Run
	var finished sql.NullTime
	var failed string
	err := sc.Scan(&run.ID, &run.StartedAt, &finished, &run.Start, &run.End, &run.Status,
		&run.EventsProcessed, &run.EventsSkipped, &run.SessionFailures, &failed, &run.Error)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan run")
	}
	if finished.Valid {
		t := finished.Time.UTC()
		run.FinishedAt = &t
	}
	run.StartedAt = run.StartedAt.UTC()
	run.FailedSeasons = splitSeasons(failed)
	return &run, nil
}

// Duration is the wall time of a finished run, zero while running.
func (r Run) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return StatusCompleted
	case errors.Is(err, context.Canceled):
		return StatusCancelled
	default:
		return StatusFailed
	}
}

func joinSeasons(seasons []int) string {
	parts := make([]string, len(seasons))
	for i, s := range seasons {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, ",")
}

func splitSeasons(s string) []int {
	if s == "" {
		return nil
	}
	var out []int
	for _, p := range strings.Split(s, ",") {
		if n, err := strconv.Atoi(p); err == nil {
			out = append(out, n)
		}
	}
	return out
}
