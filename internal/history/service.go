package history

import (
	"context"
	"errors"
	"sort"
	"time"

	apperrors "twitter-search-builder/internal/common/errors"
	"twitter-search-builder/internal/common/logger"
	"twitter-search-builder/internal/common/metrics"
	"twitter-search-builder/internal/filters"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "twitter-search-builder/internal/history"

// backend is the primitive set each storage engine provides. loadAll returns newest first;
// load returns nil, nil for an unknown id.
type backend interface {
	name() string
	save(ctx context.Context, item Item) error
	load(ctx context.Context, id string) (*Item, error)
	loadAll(ctx context.Context) ([]Item, error)
	remove(ctx context.Context, ids ...string) (int, error)
	replace(ctx context.Context, items []Item) error
	close() error
}

// service implements Store on top of a backend.
type service struct {
	backend  backend
	maxItems int
	now      func() time.Time
	newID    func() string
	logger   logger.Logger
	tracer   trace.Tracer
}

type Option func(*service)

func WithMaxItems(n int) Option {
	return func(s *service) {
		if n > 0 {
			s.maxItems = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(log logger.Logger) Option {
	return func(s *service) {
		if log != nil {
			s.logger = log
		}
	}
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *service) {
		if tp != nil {
			s.tracer = tp.Tracer(tracerName)
		}
	}
}

func newService(b backend, opts ...Option) *service {
	s := &service{
		backend:  b,
		maxItems: DefaultMaxItems,
		now:      time.Now,
		newID:    uuid.NewString,
		logger:   logger.NewNoOpLogger(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithFields(map[string]interface{}{"backend": b.name()})
	return s
}

// timestamp truncates to microseconds, the precision both backends persist.
func (s *service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// observe wraps one store operation in a span and records its metrics.
func (s *service) observe(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	backendName := s.backend.name()
	ctx, span := s.tracer.Start(ctx, "history."+op, trace.WithAttributes(
		attribute.String("history.backend", backendName),
		attribute.String("history.operation", op),
	))
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	metrics.HistoryOperationDuration.WithLabelValues(op, backendName).Observe(time.Since(start).Seconds())

	status := "success"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.WithError(err).Warn("History operation failed", map[string]interface{}{
			"operation": op,
		})
	}
	metrics.HistoryOperations.WithLabelValues(op, backendName, status).Inc()
	return err
}

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var stdErr *apperrors.StandardError
	if errors.As(err, &stdErr) {
		return err
	}
	return apperrors.NewStorageOperationFailedError(op, err)
}

func (s *service) Add(ctx context.Context, f filters.FilterInput, url, title string) (*Item, error) {
	if title == "" {
		title = DefaultTitle
	}
	item := Item{
		ID:        s.newID(),
		Filters:   filters.Merge(nil, f),
		URL:       url,
		Timestamp: s.timestamp(),
		Title:     title,
	}

	err := s.observe(ctx, "add", func(ctx context.Context) error {
		if err := s.backend.save(ctx, item); err != nil {
			return storageErr("add", err)
		}
		return storageErr("add", s.prune(ctx))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Search saved", map[string]interface{}{"id": item.ID})
	return &item, nil
}

// prune drops the oldest non-favourite items beyond maxItems. Favourites are never pruned.
func (s *service) prune(ctx context.Context) error {
	items, err := s.backend.loadAll(ctx)
	if err != nil {
		return err
	}

	var stale []string
	kept := 0
	for _, item := range items {
		if item.IsFavorite {
			continue
		}
		kept++
		if kept > s.maxItems {
			stale = append(stale, item.ID)
		}
	}
	if len(stale) == 0 {
		return nil
	}

	_, err = s.backend.remove(ctx, stale...)
	return err
}

func (s *service) Get(ctx context.Context, id string) (*Item, error) {
	var item *Item
	err := s.observe(ctx, "get", func(ctx context.Context) error {
		found, err := s.backend.load(ctx, id)
		if err != nil {
			return storageErr("get", err)
		}
		if found == nil {
			return apperrors.NewHistoryItemNotFoundError(id)
		}
		item = found
		return nil
	})
	return item, err
}

func (s *service) List(ctx context.Context, opts ListOptions) ([]Item, error) {
	result := []Item{}
	err := s.observe(ctx, "list", func(ctx context.Context) error {
		items, err := s.backend.loadAll(ctx)
		if err != nil {
			return storageErr("list", err)
		}
		for _, item := range items {
			if opts.FavoritesOnly && !item.IsFavorite {
				continue
			}
			result = append(result, item)
			if opts.Limit > 0 && len(result) == opts.Limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) Delete(ctx context.Context, id string) (bool, error) {
	var removed int
	err := s.observe(ctx, "delete", func(ctx context.Context) error {
		n, err := s.backend.remove(ctx, id)
		removed = n
		return storageErr("delete", err)
	})
	return removed > 0, err
}

func (s *service) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	var state bool
	err := s.observe(ctx, "toggle_favorite", func(ctx context.Context) error {
		item, err := s.backend.load(ctx, id)
		if err != nil {
			return storageErr("toggle_favorite", err)
		}
		if item == nil {
			return apperrors.NewHistoryItemNotFoundError(id)
		}
		item.IsFavorite = !item.IsFavorite
		if err := s.backend.save(ctx, *item); err != nil {
			return storageErr("toggle_favorite", err)
		}
		state = item.IsFavorite
		return nil
	})
	if err != nil {
		return false, err
	}
	return state, nil
}

func (s *service) Update(ctx context.Context, id string, update ItemUpdate) (bool, error) {
	var updated bool
	err := s.observe(ctx, "update", func(ctx context.Context) error {
		item, err := s.backend.load(ctx, id)
		if err != nil {
			return storageErr("update", err)
		}
		if item == nil {
			return nil
		}

		if update.Title != nil {
			item.Title = *update.Title
			if item.Title == "" {
				item.Title = DefaultTitle
			}
		}
		if update.Filters != nil {
			item.Filters = filters.Merge(nil, update.Filters)
		}
		if update.URL != nil {
			item.URL = *update.URL
		}

		if err := s.backend.save(ctx, *item); err != nil {
			return storageErr("update", err)
		}
		updated = true
		return nil
	})
	return updated, err
}

func (s *service) Clear(ctx context.Context, keepFavorites bool) error {
	return s.observe(ctx, "clear", func(ctx context.Context) error {
		if !keepFavorites {
			return storageErr("clear", s.backend.replace(ctx, nil))
		}

		items, err := s.backend.loadAll(ctx)
		if err != nil {
			return storageErr("clear", err)
		}
		var ids []string
		for _, item := range items {
			if !item.IsFavorite {
				ids = append(ids, item.ID)
			}
		}
		if len(ids) == 0 {
			return nil
		}
		_, err = s.backend.remove(ctx, ids...)
		return storageErr("clear", err)
	})
}

func (s *service) Export(ctx context.Context) (*ExportData, error) {
	data := &ExportData{
		Version:   ExportVersion,
		History:   []Item{},
		Favorites: []Item{},
	}
	err := s.observe(ctx, "export", func(ctx context.Context) error {
		items, err := s.backend.loadAll(ctx)
		if err != nil {
			return storageErr("export", err)
		}
		for _, item := range items {
			data.History = append(data.History, item)
			if item.IsFavorite {
				data.Favorites = append(data.Favorites, item)
			}
		}
		data.ExportDate = s.timestamp()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *service) Import(ctx context.Context, raw []byte) error {
	return s.observe(ctx, "import", func(ctx context.Context) error {
		items, err := decodeImport(raw, s.timestamp())
		if err != nil {
			return err
		}
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Timestamp.After(items[j].Timestamp)
		})

		if err := s.backend.replace(ctx, items); err != nil {
			return storageErr("import", err)
		}
		if err := s.prune(ctx); err != nil {
			return storageErr("import", err)
		}

		s.logger.Info("History imported", map[string]interface{}{"items": len(items)})
		return nil
	})
}

func (s *service) Close() error {
	return s.backend.close()
}
