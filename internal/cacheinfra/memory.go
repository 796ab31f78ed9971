package cacheinfra

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/digitallabs/icp-engine/cache"
)

// MemoryBackend implements cache.Backend in process memory with per-key
// TTLs. It backs tests and cache-less single-instance deployments; it is not
// a shared cache, so invalidations from other processes are invisible to it.
type MemoryBackend struct {
	entries *ttlcache.Cache[string, []byte]
}

// NewMemoryBackend builds a memory backend. Touch-on-hit is disabled so a
// read never extends an entry's life past the TTL the writer chose; the TTL
// is the system's staleness bound and must not slide.
func NewMemoryBackend() *MemoryBackend {
	entries := ttlcache.New[string, []byte](
		ttlcache.WithDisableTouchOnHit[string, []byte](),
	)
	go entries.Start()
	return &MemoryBackend{entries: entries}
}

func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	item := b.entries.Get(key)
	if item == nil {
		return nil, cache.ErrNotFound
	}
	return item.Value(), nil
}

func (b *MemoryBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	b.entries.Set(key, value, ttl)
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context, key string) error {
	b.entries.Delete(key)
	return nil
}

// Close stops the expiration janitor.
func (b *MemoryBackend) Close() error {
	b.entries.Stop()
	return nil
}

var _ cache.Backend = (*MemoryBackend)(nil)
