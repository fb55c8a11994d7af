package like

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

const (
	counterPrefix  = "likes:"
	favoritePrefix = "favorites:"

	// txRetries bounds optimistic transaction retries under contention
	txRetries = 10
)

// CounterStore holds per-design like counters. Apply runs fn inside an
// atomic check-and-set transaction: on a concurrent write the
// transaction retries and fn recomputes from whatever current value
// the store supplies, so fn must be pure.
type CounterStore interface {
	Apply(ctx context.Context, designID int64, fn func(current int64) int64) (int64, error)
	Count(ctx context.Context, designID int64) (int64, error)
	All(ctx context.Context) (map[int64]int64, error)
	Delete(ctx context.Context, designID int64) error
}

// FavoriteStore holds per-visitor favorite sets. Advisory and
// reconstructable; never consulted as a source of truth for counts.
type FavoriteStore interface {
	Contains(ctx context.Context, visitorID string, designID int64) (bool, error)
	Add(ctx context.Context, visitorID string, designID int64) error
	Remove(ctx context.Context, visitorID string, designID int64) error
	List(ctx context.Context, visitorID string) ([]int64, error)
}

func counterKey(designID int64) string {
	return counterPrefix + strconv.FormatInt(designID, 10)
}

func favoriteKey(visitorID string) string {
	return favoritePrefix + visitorID
}

type redisCounterStore struct {
	redis *redis.Client
}

// NewCounterStore creates a Redis-backed counter store
func NewCounterStore(redisClient *redis.Client) CounterStore {
	return &redisCounterStore{redis: redisClient}
}

// Apply watches the counter key, reads the current value, and commits
// fn(current) in a transaction. An absent counter reads as zero.
func (s *redisCounterStore) Apply(ctx context.Context, designID int64, fn func(current int64) int64) (int64, error) {
	key := counterKey(designID)
	var result int64

	txn := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Int64()
		if err != nil && err != redis.Nil {
			return err
		}

		next := fn(current)
		result = next

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, 0)
			return nil
		})
		return err
	}

	for i := 0; i < txRetries; i++ {
		err := s.redis.Watch(ctx, txn, key)
		if err == nil {
			return result, nil
		}
		if err == redis.TxFailedErr {
			continue
		}
		return 0, err
	}
	return 0, ErrTransactionConflict
}

func (s *redisCounterStore) Count(ctx context.Context, designID int64) (int64, error) {
	n, err := s.redis.Get(ctx, counterKey(designID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}

// All scans the counter namespace. Counts are read individually after
// the scan, so a counter deleted mid-scan simply drops out.
func (s *redisCounterStore) All(ctx context.Context) (map[int64]int64, error) {
	counts := map[int64]int64{}

	iter := s.redis.Scan(ctx, 0, counterPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		id, err := strconv.ParseInt(strings.TrimPrefix(key, counterPrefix), 10, 64)
		if err != nil {
			continue
		}
		n, err := s.redis.Get(ctx, key).Int64()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, err
		}
		counts[id] = n
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("counter scan failed: %w", err)
	}
	return counts, nil
}

// Delete removes a counter. Absent counters are already deleted.
func (s *redisCounterStore) Delete(ctx context.Context, designID int64) error {
	return s.redis.Del(ctx, counterKey(designID)).Err()
}

type redisFavoriteStore struct {
	redis *redis.Client
}

// NewFavoriteStore creates a Redis-backed favorite store
func NewFavoriteStore(redisClient *redis.Client) FavoriteStore {
	return &redisFavoriteStore{redis: redisClient}
}

func (s *redisFavoriteStore) Contains(ctx context.Context, visitorID string, designID int64) (bool, error) {
	return s.redis.SIsMember(ctx, favoriteKey(visitorID), designID).Result()
}

func (s *redisFavoriteStore) Add(ctx context.Context, visitorID string, designID int64) error {
	return s.redis.SAdd(ctx, favoriteKey(visitorID), designID).Err()
}

func (s *redisFavoriteStore) Remove(ctx context.Context, visitorID string, designID int64) error {
	return s.redis.SRem(ctx, favoriteKey(visitorID), designID).Err()
}

func (s *redisFavoriteStore) List(ctx context.Context, visitorID string) ([]int64, error) {
	members, err := s.redis.SMembers(ctx, favoriteKey(visitorID)).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
