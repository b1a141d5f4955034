package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS search_history (
	id          TEXT PRIMARY KEY,
	filters     TEXT NOT NULL,
	url         TEXT NOT NULL,
	title       TEXT NOT NULL,
	is_favorite INTEGER NOT NULL DEFAULT 0,
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_search_history_created_at ON search_history (created_at DESC);
`

const (
	upsertItemSQL = `INSERT INTO search_history (id, filters, url, title, is_favorite, created_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	filters = excluded.filters,
	url = excluded.url,
	title = excluded.title,
	is_favorite = excluded.is_favorite,
	created_at = excluded.created_at`

	selectColumns  = `SELECT id, filters, url, title, is_favorite, created_at FROM search_history`
	selectItemSQL  = selectColumns + ` WHERE id = ?`
	selectItemsSQL = selectColumns + ` ORDER BY created_at DESC, id DESC`
	deleteItemSQL  = `DELETE FROM search_history WHERE id = ?`
	deleteAllSQL   = `DELETE FROM search_history`
)

// SQLiteStore keeps history in the search_history table of a local SQLite database.
type SQLiteStore struct {
	*service
	db *sql.DB
}

// NewSQLiteStore wraps an open database. Call Migrate before first use.
func NewSQLiteStore(db *sql.DB, opts ...Option) *SQLiteStore {
	s := &SQLiteStore{db: db}
	s.service = newService(s, opts...)
	return s
}

// Migrate creates the history table if it does not exist.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("migrate search_history: %w", err)
	}
	return nil
}

func (s *SQLiteStore) name() string { return "sqlite" }

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (Item, error) {
	var (
		item      Item
		rawFilter string
		favorite  int
		createdAt int64
	)
	if err := row.Scan(&item.ID, &rawFilter, &item.URL, &item.Title, &favorite, &createdAt); err != nil {
		return Item{}, err
	}
	if err := json.Unmarshal([]byte(rawFilter), &item.Filters); err != nil {
		return Item{}, fmt.Errorf("decode filters of %s: %w", item.ID, err)
	}
	item.IsFavorite = favorite != 0
	item.Timestamp = time.UnixMicro(createdAt).UTC()
	return item, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func upsert(ctx context.Context, db execer, item Item) error {
	rawFilters, err := json.Marshal(item.Filters)
	if err != nil {
		return fmt.Errorf("encode filters: %w", err)
	}
	favorite := 0
	if item.IsFavorite {
		favorite = 1
	}
	_, err = db.ExecContext(ctx, upsertItemSQL,
		item.ID, string(rawFilters), item.URL, item.Title, favorite, item.Timestamp.UnixMicro())
	return err
}

func (s *SQLiteStore) save(ctx context.Context, item Item) error {
	return upsert(ctx, s.db, item)
}

func (s *SQLiteStore) load(ctx context.Context, id string) (*Item, error) {
	item, err := scanItem(s.db.QueryRowContext(ctx, selectItemSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *SQLiteStore) loadAll(ctx context.Context) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, selectItemsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *SQLiteStore) remove(ctx context.Context, ids ...string) (int, error) {
	removed := 0
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		for _, id := range ids {
			res, err := tx.ExecContext(ctx, deleteItemSQL, id)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			removed += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (s *SQLiteStore) replace(ctx context.Context, items []Item) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, deleteAllSQL); err != nil {
			return err
		}
		for _, item := range items {
			if err := upsert(ctx, tx, item); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) close() error {
	return s.db.Close()
}
