package cache

import (
	"context"
	"log/slog"
	"time"
)

// FetchFn loads canonical data from the source of truth on a cache miss.
type FetchFn[T any] func(ctx context.Context) (T, error)

// Accessor bundles the fail-soft store with a codec for read-through use.
// It is stateless given its inputs and safe for concurrent use.
type Accessor struct {
	store  Store
	codec  Codec
	logger *slog.Logger
}

// NewAccessor builds a read-through accessor. codec defaults to JSONCodec.
func NewAccessor(store Store, codec Codec, logger *slog.Logger) *Accessor {
	if codec == nil {
		codec = JSONCodec{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Accessor{store: store, codec: codec, logger: logger}
}

// Store exposes the underlying fail-soft store for writers that only need
// deletes (the invalidation coordinator).
func (a *Accessor) Store() Store { return a.store }

// GetOrFetch implements the read-through contract: try the cache, fall back
// to fetch on a miss, best-effort populate with ttl, return the canonical
// value. Cache failures are invisible to the caller; only fetch errors
// propagate.
//
// Methods cannot have type parameters, so this is a package-level function
// over the accessor.
func GetOrFetch[T any](ctx context.Context, a *Accessor, key string, ttl time.Duration, fetch FetchFn[T]) (T, error) {
	if data, ok := a.store.Get(ctx, key); ok {
		var v T
		if err := a.codec.Unmarshal(data, &v); err == nil {
			return v, nil
		}
		// Undecodable entry: drop it and fall through to the source of truth.
		a.logger.Warn("cache entry undecodable, discarding", "key", key)
		a.store.Delete(ctx, key)
	}

	v, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if data, err := a.codec.Marshal(v); err == nil {
		a.store.Set(ctx, key, data, ttl)
	} else {
		a.logger.Warn("cache value not serializable, skipping populate", "key", key, "error", err)
	}
	return v, nil
}
