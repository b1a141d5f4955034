package history

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"twitter-search-builder/internal/common/config"
	"twitter-search-builder/internal/common/database"
	apperrors "twitter-search-builder/internal/common/errors"
	"twitter-search-builder/internal/filters"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

// stepClock advances one second on every call so insertion order is observable.
type stepClock struct {
	t time.Time
}

func newStepClock() *stepClock {
	return &stepClock{t: time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

type storeFactory func(t *testing.T, opts ...Option) Store

func newTestSQLiteStore(t *testing.T, opts ...Option) Store {
	t.Helper()

	client, err := database.NewSQLite(config.SQLiteConfig{Path: database.MemoryPath})
	require.NoError(t, err)

	store := NewSQLiteStore(client.DB, append([]Option{WithClock(newStepClock().Now)}, opts...)...)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestRedisStore(t *testing.T, opts ...Option) Store {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	store := NewRedisStore(client, "test", append([]Option{WithClock(newStepClock().Now)}, opts...)...)
	t.Cleanup(func() { store.Close() })
	return store
}

var backends = map[string]storeFactory{
	"sqlite": newTestSQLiteStore,
	"redis":  newTestRedisStore,
}

func forEachBackend(t *testing.T, fn func(t *testing.T, newStore storeFactory)) {
	for name, factory := range backends {
		t.Run(name, func(t *testing.T) {
			fn(t, factory)
		})
	}
}

func ids(items []Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func mustAdd(t *testing.T, s Store, text string) *Item {
	t.Helper()
	item, err := s.Add(context.Background(), filters.FilterInput{"textSearch": text}, "https://twitter.com/search?q="+text, "")
	require.NoError(t, err)
	return item
}

// ==========================
// Store Behaviour
// ==========================

func TestStore_AddAndGet(t *testing.T) {
	forEachBackend(t, func(t *testing.T, newStore storeFactory) {
		ctx := context.Background()
		s := newStore(t)

		added, err := s.Add(ctx, filters.FilterInput{
			"textSearch": "golang",
			"likesMin":   100,
			"__proto__":  "ignored",
		}, "https://twitter.com/search?q=golang%20min_faves%3A100", "")
		require.NoError(t, err)

		assert.NotEmpty(t, added.ID)
		assert.Equal(t, DefaultTitle, added.Title)
		assert.False(t, added.IsFavorite)
		assert.NotContains(t, added.Filters, "__proto__")

		got, err := s.Get(ctx, added.ID)
		require.NoError(t, err)
		assert.Equal(t, added.ID, got.ID)
		assert.Equal(t, added.URL, got.URL)
		assert.Equal(t, "golang", got.Filters["textSearch"])
		assert.Equal(t, float64(100), got.Filters["likesMin"])
		assert.True(t, added.Timestamp.Equal(got.Timestamp))

		_, err = s.Get(ctx, "missing")
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeHistoryItemNotFound))
	})
}

func TestStore_ListNewestFirst(t *testing.T) {
	forEachBackend(t, func(t *testing.T, newStore storeFactory) {
		ctx := context.Background()
		s := newStore(t)

		a := mustAdd(t, s, "a")
		b := mustAdd(t, s, "b")
		c := mustAdd(t, s, "c")

		_, err := s.ToggleFavorite(ctx, a.ID)
		require.NoError(t, err)

		all, err := s.List(ctx, ListOptions{})
		require.NoError(t, err)
		assert.Equal(t, []string{c.ID, b.ID, a.ID}, ids(all))

		limited, err := s.List(ctx, ListOptions{Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, []string{c.ID, b.ID}, ids(limited))

		favorites, err := s.List(ctx, ListOptions{FavoritesOnly: true})
		require.NoError(t, err)
		assert.Equal(t, []string{a.ID}, ids(favorites))
	})
}

func TestStore_ListEmpty(t *testing.T) {
	forEachBackend(t, func(t *testing.T, newStore storeFactory) {
		items, err := newStore(t).List(context.Background(), ListOptions{})
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})
}

func TestStore_PruneKeepsFavorites(t *testing.T) {
	forEachBackend(t, func(t *testing.T, newStore storeFactory) {
		ctx := context.Background()
		s := newStore(t, WithMaxItems(3))

		fav := mustAdd(t, s, "fav")
		_, err := s.ToggleFavorite(ctx, fav.ID)
		require.NoError(t, err)

		b := mustAdd(t, s, "b")
		c := mustAdd(t, s, "c")
		d := mustAdd(t, s, "d")
		e := mustAdd(t, s, "e")

		all, err := s.List(ctx, ListOptions{})
		require.NoError(t, err)
		assert.Equal(t, []string{e.ID, d.ID, c.ID, fav.ID}, ids(all))

		_, err = s.Get(ctx, b.ID)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeHistoryItemNotFound))
	})
}

func TestStore_Delete(t *testing.T) {
	forEachBackend(t, func(t *testing.T, newStore storeFactory) {
		ctx := context.Background()
		s := newStore(t)
		item := mustAdd(t, s, "x")

		deleted, err := s.Delete(ctx, item.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = s.Delete(ctx, item.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}

func TestStore_ToggleFavorite(t *testing.T) {
	forEachBackend(t, func(t *testing.T, newStore storeFactory) {
		ctx := context.Background()
		s := newStore(t)
		item := mustAdd(t, s, "x")

		state, err := s.ToggleFavorite(ctx, item.ID)
		require.NoError(t, err)
		assert.True(t, state)

		got, err := s.Get(ctx, item.ID)
		require.NoError(t, err)
		assert.True(t, got.IsFavorite)

		state, err = s.ToggleFavorite(ctx, item.ID)
		require.NoError(t, err)
		assert.False(t, state)

		state, err = s.ToggleFavorite(ctx, "missing")
		assert.False(t, state)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeHistoryItemNotFound))
	})
}

func TestStore_Update(t *testing.T) {
	forEachBackend(t, func(t *testing.T, newStore storeFactory) {
		ctx := context.Background()
		s := newStore(t)
		item := mustAdd(t, s, "x")

		title := "Launch watch"
		url := "https://twitter.com/search?q=launch"
		updated, err := s.Update(ctx, item.ID, ItemUpdate{
			Title:   &title,
			URL:     &url,
			Filters: filters.FilterInput{"textSearch": "launch"},
		})
		require.NoError(t, err)
		assert.True(t, updated)

		got, err := s.Get(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, title, got.Title)
		assert.Equal(t, url, got.URL)
		assert.Equal(t, filters.FilterInput{"textSearch": "launch"}, got.Filters)
		assert.True(t, item.Timestamp.Equal(got.Timestamp))

		empty := ""
		_, err = s.Update(ctx, item.ID, ItemUpdate{Title: &empty})
		require.NoError(t, err)
		got, err = s.Get(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, DefaultTitle, got.Title)

		updated, err = s.Update(ctx, "missing", ItemUpdate{Title: &title})
		require.NoError(t, err)
		assert.False(t, updated)
	})
}

func TestStore_Clear(t *testing.T) {
	forEachBackend(t, func(t *testing.T, newStore storeFactory) {
		ctx := context.Background()
		s := newStore(t)

		fav := mustAdd(t, s, "fav")
		mustAdd(t, s, "plain")
		_, err := s.ToggleFavorite(ctx, fav.ID)
		require.NoError(t, err)

		require.NoError(t, s.Clear(ctx, true))
		items, err := s.List(ctx, ListOptions{})
		require.NoError(t, err)
		assert.Equal(t, []string{fav.ID}, ids(items))

		require.NoError(t, s.Clear(ctx, false))
		items, err = s.List(ctx, ListOptions{})
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestStore_ExportImportRoundTrip(t *testing.T) {
	forEachBackend(t, func(t *testing.T, newStore storeFactory) {
		ctx := context.Background()
		s := newStore(t)

		a := mustAdd(t, s, "a")
		b := mustAdd(t, s, "b")
		_, err := s.ToggleFavorite(ctx, a.ID)
		require.NoError(t, err)

		exported, err := s.Export(ctx)
		require.NoError(t, err)
		assert.Equal(t, ExportVersion, exported.Version)
		assert.Equal(t, []string{b.ID, a.ID}, ids(exported.History))
		assert.Equal(t, []string{a.ID}, ids(exported.Favorites))
		assert.False(t, exported.ExportDate.IsZero())

		raw, err := json.Marshal(exported)
		require.NoError(t, err)

		require.NoError(t, s.Clear(ctx, false))
		require.NoError(t, s.Import(ctx, raw))

		items, err := s.List(ctx, ListOptions{})
		require.NoError(t, err)
		assert.Equal(t, []string{b.ID, a.ID}, ids(items))
		assert.True(t, items[1].IsFavorite)
		assert.Equal(t, "b", items[0].Filters["textSearch"])
	})
}

func TestStore_ImportEpochMillis(t *testing.T) {
	forEachBackend(t, func(t *testing.T, newStore storeFactory) {
		ctx := context.Background()
		s := newStore(t)

		raw := []byte(`{
			"version": 1,
			"history": [
				{"id": "search-1", "filters": {"textSearch": "old"}, "url": "u1", "timestamp": 1700000000000},
				{"id": "search-2", "filters": {"textSearch": "new"}, "url": "u2", "timestamp": 1700000100000}
			],
			"favorites": [
				{"id": "search-1", "filters": {"textSearch": "old"}, "timestamp": 1700000000000}
			]
		}`)
		require.NoError(t, s.Import(ctx, raw))

		items, err := s.List(ctx, ListOptions{})
		require.NoError(t, err)
		require.Equal(t, []string{"search-2", "search-1"}, ids(items))
		assert.True(t, items[1].IsFavorite)
		assert.Equal(t, DefaultTitle, items[1].Title)
		assert.True(t, time.UnixMilli(1700000000000).Equal(items[1].Timestamp))
	})
}

func TestStore_ImportRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: `not json`},
		{name: "not an object", raw: `[1, 2]`},
		{name: "missing favorites", raw: `{"history": []}`},
		{name: "entry without id", raw: `{"history": [{"filters": {}}], "favorites": []}`},
		{name: "numeric id", raw: `{"history": [{"id": 1, "filters": {}}], "favorites": []}`},
		{name: "filters not an object", raw: `{"history": [{"id": "a", "filters": "x"}], "favorites": []}`},
		{name: "bad timestamp", raw: `{"history": [{"id": "a", "filters": {}, "timestamp": "yesterday"}], "favorites": []}`},
	}

	forEachBackend(t, func(t *testing.T, newStore storeFactory) {
		ctx := context.Background()
		s := newStore(t)
		existing := mustAdd(t, s, "keep")

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := s.Import(ctx, []byte(tt.raw))
				assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeImportDataInvalid), "got %v", err)

				items, err := s.List(ctx, ListOptions{})
				require.NoError(t, err)
				assert.Equal(t, []string{existing.ID}, ids(items))
			})
		}
	})
}

func TestRedisStore_KeyLayout(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(client, "", WithClock(newStepClock().Now))
	t.Cleanup(func() { s.Close() })

	item := mustAdd(t, s, "x")

	assert.True(t, mr.Exists(DefaultKeyPrefix+":items"))
	fields, err := mr.HKeys(DefaultKeyPrefix + ":items")
	require.NoError(t, err)
	assert.Equal(t, []string{item.ID}, fields)

	members, err := mr.ZMembers(DefaultKeyPrefix + ":timeline")
	require.NoError(t, err)
	assert.Equal(t, []string{item.ID}, members)
}

func TestNewStore(t *testing.T) {
	t.Run("sqlite", func(t *testing.T) {
		cfg := &config.Config{
			History:  config.HistoryConfig{Backend: config.HistoryBackendSQLite, MaxItems: 10, Timeout: 1000},
			Database: config.DatabaseConfig{SQLite: config.SQLiteConfig{Path: database.MemoryPath}},
		}
		s, err := NewStore(context.Background(), cfg)
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })

		assert.IsType(t, &SQLiteStore{}, s)
		mustAdd(t, s, "x")
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := &config.Config{
			History:  config.HistoryConfig{Backend: config.HistoryBackendRedis, KeyPrefix: "cfg"},
			Database: config.DatabaseConfig{Redis: config.RedisConfig{Address: mr.Addr()}},
		}
		s, err := NewStore(context.Background(), cfg)
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })

		assert.IsType(t, &RedisStore{}, s)
		mustAdd(t, s, "x")
		assert.True(t, mr.Exists("cfg:items"))
	})

	t.Run("redis unreachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		cfg := &config.Config{
			History:  config.HistoryConfig{Backend: config.HistoryBackendRedis, Timeout: 500},
			Database: config.DatabaseConfig{Redis: config.RedisConfig{Address: addr}},
		}
		_, err := NewStore(context.Background(), cfg)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeStorageUnavailable))
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := NewStore(context.Background(), &config.Config{History: config.HistoryConfig{Backend: "etcd"}})
		assert.Error(t, err)
	})
}
