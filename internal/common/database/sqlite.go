// internal/common/database/sqlite.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"twitter-search-builder/internal/common/config"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database (tests, --ephemeral runs).
const MemoryPath = ":memory:"

// SQLiteClient wraps the local history database connection.
type SQLiteClient struct {
	DB   *sql.DB
	Path string
}

// NewSQLite opens (and creates, if needed) the SQLite database at cfg.Path.
func NewSQLite(cfg config.SQLiteConfig) (*SQLiteClient, error) {
	path := cfg.Path
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	if path != MemoryPath {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	// Single writer; an in-memory database also vanishes per connection, so one connection total.
	db.SetMaxOpenConns(1)

	pragmas := []string{"PRAGMA busy_timeout=5000"}
	if path != MemoryPath {
		pragmas = append(pragmas, "PRAGMA journal_mode=WAL")
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}

	return &SQLiteClient{DB: db, Path: path}, nil
}

func (c *SQLiteClient) Ping(ctx context.Context) error {
	if err := c.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite ping failed: %w", err)
	}
	return nil
}

func (c *SQLiteClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
