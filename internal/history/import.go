package history

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	apperrors "twitter-search-builder/internal/common/errors"
	"twitter-search-builder/internal/common/validation"
	"twitter-search-builder/internal/filters"
)

var importSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["history", "favorites"],
	"properties": {
		"version": {"type": "integer", "minimum": 1},
		"exportDate": {"type": "string"},
		"history": {"type": "array", "items": {"$ref": "#/definitions/entry"}},
		"favorites": {"type": "array", "items": {"$ref": "#/definitions/entry"}}
	},
	"definitions": {
		"entry": {
			"type": "object",
			"required": ["id", "filters"],
			"properties": {
				"id": {"type": "string", "minLength": 1},
				"filters": {"type": "object"},
				"url": {"type": "string"},
				"title": {"type": "string"},
				"timestamp": {"type": ["string", "number"]},
				"isFavorite": {"type": "boolean"}
			}
		}
	}
}`)

type importEntry struct {
	ID         string              `json:"id"`
	Filters    filters.FilterInput `json:"filters"`
	URL        string              `json:"url"`
	Title      string              `json:"title"`
	Timestamp  json.RawMessage     `json:"timestamp"`
	IsFavorite bool                `json:"isFavorite"`
}

type importDocument struct {
	History   []importEntry `json:"history"`
	Favorites []importEntry `json:"favorites"`
}

// decodeImport validates raw against the import schema and flattens history and favourites into
// one item list keyed by id. Entries listed under favorites are marked favourite.
func decodeImport(raw []byte, now time.Time) ([]Item, error) {
	result, err := importSchema.ValidateBytes(raw)
	if err != nil {
		return nil, apperrors.NewImportDataInvalidError([]string{"document is not valid JSON"})
	}
	if !result.Valid {
		return nil, apperrors.NewImportDataInvalidError(result.GetErrorMessages())
	}

	var doc importDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, apperrors.NewImportDataInvalidError([]string{err.Error()})
	}

	var (
		items    []Item
		index    = map[string]int{}
		problems []string
	)
	add := func(entry importEntry, favorite bool) {
		ts, err := parseTimestamp(entry.Timestamp, now)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", entry.ID, err))
			return
		}

		if i, seen := index[entry.ID]; seen {
			items[i].IsFavorite = items[i].IsFavorite || favorite || entry.IsFavorite
			return
		}

		title := strings.TrimSpace(entry.Title)
		if title == "" {
			title = DefaultTitle
		}
		index[entry.ID] = len(items)
		items = append(items, Item{
			ID:         entry.ID,
			Filters:    filters.Merge(nil, entry.Filters),
			URL:        entry.URL,
			Timestamp:  ts,
			Title:      title,
			IsFavorite: favorite || entry.IsFavorite,
		})
	}

	for _, entry := range doc.History {
		add(entry, false)
	}
	for _, entry := range doc.Favorites {
		add(entry, true)
	}

	if len(problems) > 0 {
		return nil, apperrors.NewImportDataInvalidError(problems)
	}
	return items, nil
}

// parseTimestamp accepts RFC 3339 strings and epoch milliseconds. A missing value means now.
func parseTimestamp(raw json.RawMessage, now time.Time) (time.Time, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return now, nil
	}

	var ms float64
	if err := json.Unmarshal(raw, &ms); err == nil {
		return time.UnixMilli(int64(ms)).UTC(), nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, fmt.Errorf("unreadable timestamp")
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp must be RFC 3339 or epoch milliseconds")
	}
	return t.UTC().Truncate(time.Microsecond), nil
}
