package cache

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"math/big"
	"time"
)

// NullCacheValue marks a cached empty result so the source is not hit again
// until emptyTTL expires.
const NullCacheValue = "$NULL$"

// GetWithCached implements cache-aside with null value caching.
// It tries the cache first; on a miss it calls fn and stores the result.
// Empty results are stored as NullCacheValue for emptyTTL.
// A nil cache calls fn directly.
//
// Most callers cache JSON slices through GetJSONWithCached:
//
//	combo, err := GetJSONWithCached(ctx, c, "fantasy:countries:combo", time.Hour, time.Minute,
//		repo.getComboFromDB)
func GetWithCached[T any](
	ctx context.Context,
	cache Cache,
	key string,
	ttl time.Duration,
	emptyTTL time.Duration,
	isEmpty func(T) bool,
	marshal func(T) string,
	unmarshal func(string) (T, error),
	fn func(context.Context) (T, error),
) (T, error) {
	var zero T
	if cache == nil {
		return fn(ctx)
	}

	if cached, err := cache.Get(ctx, key); err == nil && cached != "" {
		if cached == NullCacheValue {
			return zero, nil
		}
		if result, err := unmarshal(cached); err == nil {
			return result, nil
		}
	}

	data, err := fn(ctx)
	if err != nil {
		return zero, err
	}

	if isEmpty(data) {
		_ = cache.Set(ctx, key, NullCacheValue, emptyTTL)
		return data, nil
	}

	_ = cache.Set(ctx, key, marshal(data), JitterTTL(ttl))
	return data, nil
}

// GetJSONWithCached is GetWithCached for slices encoded as JSON.
func GetJSONWithCached[T any](
	ctx context.Context,
	cache Cache,
	key string,
	ttl time.Duration,
	emptyTTL time.Duration,
	fn func(context.Context) ([]T, error),
) ([]T, error) {
	return GetWithCached(ctx, cache, key, ttl, emptyTTL,
		func(items []T) bool { return len(items) == 0 },
		func(items []T) string {
			data, _ := json.Marshal(items)
			return string(data)
		},
		func(data string) ([]T, error) {
			var items []T
			err := json.Unmarshal([]byte(data), &items)
			return items, err
		},
		fn,
	)
}

// UpdateCached runs fn and, when it succeeds, deletes keys so the next
// read refreshes them. A nil cache only runs fn.
func UpdateCached(
	ctx context.Context,
	cache Cache,
	fn func(context.Context) error,
	keys ...string,
) error {
	if err := fn(ctx); err != nil {
		return err
	}
	if cache != nil && len(keys) > 0 {
		_ = cache.Del(ctx, keys...)
	}
	return nil
}

// JitterTTL shortens ttl by up to 10% so keys written together do not expire together.
func JitterTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return ttl
	}
	maxJitter := int64(ttl / 10)
	if maxJitter <= 0 {
		return ttl
	}
	n, err := rand.Int(rand.Reader, big.NewInt(maxJitter+1))
	if err != nil {
		return ttl
	}
	return ttl - time.Duration(n.Int64())
}
