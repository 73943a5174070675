package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"portfolio_backend/internal/search/engine"
)

const (
	historyKeyPrefix = "search:history:"
	popularityKey    = "search:popular"

	historyTTL = 30 * 24 * time.Hour
)

// RedisStore persists per-visitor query history and the global popularity
// counters. It implements engine.HistoryStore and engine.PopularityStore.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// Record prepends the query to the visitor's history, deduplicating and
// capping per the shared history rules. The list is updated in one MULTI/EXEC
// block so concurrent searches by the same visitor never lose an entry.
func (s *RedisStore) Record(ctx context.Context, key, query string) error {
	listKey := historyKeyPrefix + key
	pipe := s.rdb.TxPipeline()
	pipe.LRem(ctx, listKey, 0, query)
	pipe.LPush(ctx, listKey, query)
	pipe.LTrim(ctx, listKey, 0, engine.HistoryLimit-1)
	pipe.Expire(ctx, listKey, historyTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

// Recent returns the visitor's stored queries, most recent first. A missing
// key yields an empty history.
func (s *RedisStore) Recent(ctx context.Context, key string) ([]string, error) {
	items, err := s.rdb.LRange(ctx, historyKeyPrefix+key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items, nil
}

// Increment bumps the executed-search counter for the query.
func (s *RedisStore) Increment(ctx context.Context, query string) error {
	if err := s.rdb.ZIncrBy(ctx, popularityKey, 1, query).Err(); err != nil {
		return fmt.Errorf("increment popularity: %w", err)
	}
	return nil
}

// Top returns the most-searched queries, count descending with ties broken
// alphabetically. Redis orders score ties by member in reverse when reading
// a zset backwards, so the set is re-sorted here. The full zset is read; it
// holds one member per distinct executed query and stays small.
func (s *RedisStore) Top(ctx context.Context, limit int) ([]engine.PopularQuery, error) {
	members, err := s.rdb.ZRevRangeWithScores(ctx, popularityKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read popularity: %w", err)
	}

	out := make([]engine.PopularQuery, 0, len(members))
	for _, m := range members {
		query, ok := m.Member.(string)
		if !ok {
			continue
		}
		out = append(out, engine.PopularQuery{Query: query, Count: int64(m.Score)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Query < out[j].Query
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var (
	_ engine.HistoryStore    = (*RedisStore)(nil)
	_ engine.PopularityStore = (*RedisStore)(nil)
)
