package history

import (
	"context"
	"fmt"

	"twitter-search-builder/internal/common/config"
	"twitter-search-builder/internal/common/database"
	apperrors "twitter-search-builder/internal/common/errors"
)

// NewStore opens the backend selected by history.backend and makes it ready for use.
func NewStore(ctx context.Context, cfg *config.Config, opts ...Option) (Store, error) {
	if timeout := config.GetDuration(cfg.History.Timeout); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	opts = append([]Option{WithMaxItems(cfg.History.MaxItems)}, opts...)

	switch cfg.History.Backend {
	case config.HistoryBackendRedis:
		client, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return nil, apperrors.NewStorageUnavailableError(config.HistoryBackendRedis, err)
		}
		if err := client.Ping(ctx); err != nil {
			client.Close()
			return nil, apperrors.NewStorageUnavailableError(config.HistoryBackendRedis, err)
		}
		return NewRedisStore(client.Client, cfg.History.KeyPrefix, opts...), nil

	case config.HistoryBackendSQLite, "":
		client, err := database.NewSQLite(cfg.Database.SQLite)
		if err != nil {
			return nil, apperrors.NewStorageUnavailableError(config.HistoryBackendSQLite, err)
		}
		store := NewSQLiteStore(client.DB, opts...)
		if err := store.Migrate(ctx); err != nil {
			client.Close()
			return nil, apperrors.NewStorageUnavailableError(config.HistoryBackendSQLite, err)
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.History.Backend)
	}
}
