package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// ErrNotFound is returned by a Backend when a key is absent or expired.
var ErrNotFound = errors.New("cache: key not found")

// Backend is the raw cache transport. Implementations report real errors;
// the fail-soft behaviour lives one layer up in Store.
type Backend interface {
	// Get returns the value for key, or ErrNotFound on a miss.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key with a per-key TTL. ttl must be > 0.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Store is the fail-soft cache boundary the rest of the system talks to.
// No method can fail: transport errors degrade gets to misses and turn
// sets/deletes into logged no-ops, so cache unavailability can only cost
// performance, never correctness.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

type failSoftStore struct {
	backend Backend
	logger  *slog.Logger
	stats   *Stats
}

// NewStore wraps backend with the fail-soft contract. stats may be nil.
func NewStore(backend Backend, logger *slog.Logger, stats *Stats) Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &failSoftStore{backend: backend, logger: logger, stats: stats}
}

func (s *failSoftStore) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := s.backend.Get(ctx, key)
	switch {
	case errors.Is(err, ErrNotFound):
		s.stats.miss()
		return nil, false
	case err != nil:
		s.stats.degraded()
		s.logger.Warn("cache get degraded, treating as miss", "key", key, "error", err)
		return nil, false
	}
	s.stats.hit()
	return value, true
}

func (s *failSoftStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := s.backend.Set(ctx, key, value, ttl); err != nil {
		s.stats.degraded()
		s.logger.Warn("cache set degraded, entry not populated", "key", key, "ttl", ttl, "error", err)
	}
}

func (s *failSoftStore) Delete(ctx context.Context, key string) {
	if err := s.backend.Delete(ctx, key); err != nil {
		s.stats.degraded()
		// A failed delete self-corrects at the key's TTL boundary.
		s.logger.Warn("cache delete degraded, entry expires at ttl", "key", key, "error", err)
	}
}
