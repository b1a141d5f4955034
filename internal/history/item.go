// Package history persists recent and favourite searches. It stores the filters and URL the
// search builder produced without interpreting them.
package history

import (
	"context"
	"time"

	"twitter-search-builder/internal/filters"
)

const (
	DefaultTitle    = "Twitter Search"
	DefaultMaxItems = 50
	ExportVersion   = 1
)

// Item is one saved search.
type Item struct {
	ID         string              `json:"id"`
	Filters    filters.FilterInput `json:"filters"`
	URL        string              `json:"url"`
	Timestamp  time.Time           `json:"timestamp"`
	Title      string              `json:"title"`
	IsFavorite bool                `json:"isFavorite"`
}

type ListOptions struct {
	FavoritesOnly bool
	// Limit caps the result; zero or less means no limit.
	Limit int
}

// ItemUpdate carries the fields to change; nil fields are left alone.
type ItemUpdate struct {
	Title   *string
	Filters filters.FilterInput
	URL     *string
}

// ExportData is the portable export document.
type ExportData struct {
	Version    int       `json:"version"`
	History    []Item    `json:"history"`
	Favorites  []Item    `json:"favorites"`
	ExportDate time.Time `json:"exportDate"`
}

// Store is the history persistence contract. Lists are always newest first.
type Store interface {
	Add(ctx context.Context, f filters.FilterInput, url, title string) (*Item, error)
	Get(ctx context.Context, id string) (*Item, error)
	List(ctx context.Context, opts ListOptions) ([]Item, error)
	Delete(ctx context.Context, id string) (bool, error)
	// ToggleFavorite returns the new favourite state.
	ToggleFavorite(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, id string, update ItemUpdate) (bool, error)
	Clear(ctx context.Context, keepFavorites bool) error
	Export(ctx context.Context) (*ExportData, error)
	// Import replaces the stored history with a validated export document.
	Import(ctx context.Context, raw []byte) error
	Close() error
}
