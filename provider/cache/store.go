// Package cache stores raw provider responses in SQLite, keyed by request URL.
package cache

import (
	"context"
	"database/sql"
	"time"

	"github.com/teranos/paddock/errors"
)

// Entry is one stored response.
type Entry struct {
	URL       string
	Status    int
	Body      []byte
	FetchedAt time.Time
}

// Stats summarises the cache contents.
type Stats struct {
	Entries int64     `json:"entries"`
	Bytes   int64     `json:"bytes"`
	Oldest  time.Time `json:"oldest,omitempty"`
	Newest  time.Time `json:"newest,omitempty"`
}

// Store handles persistence of provider responses.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore creates a new response store
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Get returns the stored response for url, or an error marked
// errors.ErrNotFound when there is none.
func (s *Store) Get(ctx context.Context, url string) (*Entry, error) {
	e := &Entry{URL: url}
	var fetched int64
	err := s.db.QueryRowContext(ctx,
		`SELECT status, body, fetched_at FROM provider_responses WHERE url = ?`, url,
	).Scan(&e.Status, &e.Body, &fetched)
	if err == sql.ErrNoRows {
		return nil, errors.Mark(errors.Newf("no cached response for %s", url), errors.ErrNotFound)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read cached response")
	}
	e.FetchedAt = time.Unix(fetched, 0).UTC()
	return e, nil
}

// Put stores a response, replacing any previous one for the same url.
func (s *Store) Put(ctx context.Context, url string, status int, body []byte) error {
	if body == nil {
		body = []byte{}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO provider_responses (url, status, body, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			status = excluded.status,
			body = excluded.body,
			fetched_at = excluded.fetched_at
	`, url, status, body, s.now().Unix())
	if err != nil {
		return errors.Wrap(err, "failed to store response")
	}
	return nil
}

// Stats reports the number of entries, their total body size and age range.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	var oldest, newest sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(LENGTH(body)), 0), MIN(fetched_at), MAX(fetched_at)
		FROM provider_responses
	`).Scan(&st.Entries, &st.Bytes, &oldest, &newest)
	if err != nil {
		return Stats{}, errors.Wrap(err, "failed to read cache stats")
	}
	if oldest.Valid {
		st.Oldest = time.Unix(oldest.Int64, 0).UTC()
	}
	if newest.Valid {
		st.Newest = time.Unix(newest.Int64, 0).UTC()
	}
	return st, nil
}

// Clear deletes every stored response and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM provider_responses`)
	if err != nil {
		return 0, errors.Wrap(err, "failed to clear cache")
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "failed to check rows affected")
	}
	return n, nil
}
