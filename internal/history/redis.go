package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const DefaultKeyPrefix = "twitterSearch"

// RedisStore keeps items as JSON in the hash <prefix>:items and orders them with the
// sorted set <prefix>:timeline scored by creation time in microseconds.
type RedisStore struct {
	*service
	client      *redis.Client
	itemsKey    string
	timelineKey string
}

func NewRedisStore(client *redis.Client, keyPrefix string, opts ...Option) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	s := &RedisStore{
		client:      client,
		itemsKey:    keyPrefix + ":items",
		timelineKey: keyPrefix + ":timeline",
	}
	s.service = newService(s, opts...)
	return s
}

func (s *RedisStore) name() string { return "redis" }

func (s *RedisStore) save(ctx context.Context, item Item) error {
	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode item: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.itemsKey, item.ID, payload)
		pipe.ZAdd(ctx, s.timelineKey, redis.Z{Score: float64(item.Timestamp.UnixMicro()), Member: item.ID})
		return nil
	})
	return err
}

func decodeItem(payload string) (Item, error) {
	var item Item
	if err := json.Unmarshal([]byte(payload), &item); err != nil {
		return Item{}, fmt.Errorf("decode item: %w", err)
	}
	item.Timestamp = item.Timestamp.UTC()
	return item, nil
}

func (s *RedisStore) load(ctx context.Context, id string) (*Item, error) {
	payload, err := s.client.HGet(ctx, s.itemsKey, id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	item, err := decodeItem(payload)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *RedisStore) loadAll(ctx context.Context) ([]Item, error) {
	ids, err := s.client.ZRevRange(ctx, s.timelineKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	values, err := s.client.HMGet(ctx, s.itemsKey, ids...).Result()
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(values))
	for _, v := range values {
		payload, ok := v.(string)
		if !ok {
			// timeline entry without a hash field; skipped
			continue
		}
		item, err := decodeItem(payload)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *RedisStore) remove(ctx context.Context, ids ...string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var deleted *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		deleted = pipe.HDel(ctx, s.itemsKey, ids...)
		members := make([]interface{}, len(ids))
		for i, id := range ids {
			members[i] = id
		}
		pipe.ZRem(ctx, s.timelineKey, members...)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int(deleted.Val()), nil
}

func (s *RedisStore) replace(ctx context.Context, items []Item) error {
	payloads := make([][]byte, len(items))
	for i, item := range items {
		payload, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("encode item %s: %w", item.ID, err)
		}
		payloads[i] = payload
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.itemsKey, s.timelineKey)
		for i, item := range items {
			pipe.HSet(ctx, s.itemsKey, item.ID, payloads[i])
			pipe.ZAdd(ctx, s.timelineKey, redis.Z{Score: float64(item.Timestamp.UnixMicro()), Member: item.ID})
		}
		return nil
	})
	return err
}

func (s *RedisStore) close() error {
	return s.client.Close()
}
