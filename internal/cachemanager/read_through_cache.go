package cachemanager

import (
	"context"
	"sync/atomic"
	"time"
)

// ReadThroughCache answers from cache and calls fn on a miss, storing its
// result. Errors are never cached.
type ReadThroughCache[K comparable, V any, I any] struct {
	cache CacheManager[K, V]
	fn    func(ctx context.Context, input I) (V, error)
	skip  atomic.Bool

	hits, misses atomic.Int64
}

// NewReadThroughCache wraps fn. With skipCache every call goes to fn.
func NewReadThroughCache[K comparable, V any, I any](
	cache CacheManager[K, V],
	fn func(ctx context.Context, input I) (V, error),
	skipCache bool,
) *ReadThroughCache[K, V, I] {
	r := &ReadThroughCache[K, V, I]{cache: cache, fn: fn}
	r.skip.Store(skipCache)
	return r
}

// SetSkipCache turns caching off or back on.
func (r *ReadThroughCache[K, V, I]) SetSkipCache(skip bool) {
	r.skip.Store(skip)
}

// Get returns the value under key, computing it from input on a miss. The
// boolean reports a cache hit.
func (r *ReadThroughCache[K, V, I]) Get(ctx context.Context, key K, input I, ttl time.Duration) (V, bool, error) {
	return r.get(ctx, key, input, ttl, r.cache.Get)
}

// GetWithRefresh is Get, restarting the ttl of a hit.
func (r *ReadThroughCache[K, V, I]) GetWithRefresh(ctx context.Context, key K, input I, ttl time.Duration) (V, bool, error) {
	return r.get(ctx, key, input, ttl, func(ctx context.Context, key K) (V, bool) {
		return r.cache.GetWithRefresh(ctx, key, ttl)
	})
}

func (r *ReadThroughCache[K, V, I]) get(ctx context.Context, key K, input I, ttl time.Duration, lookup func(context.Context, K) (V, bool)) (V, bool, error) {
	if r.skip.Load() {
		v, err := r.fn(ctx, input)
		return v, false, err
	}
	if v, ok := lookup(ctx, key); ok {
		r.hits.Add(1)
		return v, true, nil
	}
	r.misses.Add(1)
	v, err := r.fn(ctx, input)
	if err != nil {
		return v, false, err
	}
	r.cache.Set(ctx, key, v, ttl)
	return v, false, nil
}

// Stats returns the number of hits and misses so far. Skipped calls count
// as neither.
func (r *ReadThroughCache[K, V, I]) Stats() (hits, misses int64) {
	return r.hits.Load(), r.misses.Load()
}
