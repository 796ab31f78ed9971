// Package service is the application-facing surface over the entity
// hierarchy. It enforces ownership, validates input, routes list reads
// through the cache, and invalidates the affected scopes after every
// committed write. Cache failures never surface here: a degraded cache
// turns reads into store reads and writes into slightly-more-expensive
// writes, nothing more.
package service

import (
	"context"
	"log/slog"

	"github.com/digitallabs/icp-engine/cache"
	"github.com/digitallabs/icp-engine/generation"
	"github.com/digitallabs/icp-engine/invalidation"
	"github.com/digitallabs/icp-engine/store"
)

// Params wires a Service.
type Params struct {
	Store       store.Store
	Cache       *cache.Accessor
	Invalidator invalidation.Invalidator
	Generator   *generation.Orchestrator
	TTL         cache.Config
	Logger      *slog.Logger
}

// Service exposes the operations of the three-level hierarchy.
type Service struct {
	store       store.Store
	cache       *cache.Accessor
	invalidator invalidation.Invalidator
	generator   *generation.Orchestrator
	ttl         cache.Config
	logger      *slog.Logger
}

func New(p Params) *Service {
	if p.Logger == nil {
		p.Logger = slog.Default()
	}
	return &Service{
		store:       p.Store,
		cache:       p.Cache,
		invalidator: p.Invalidator,
		generator:   p.Generator,
		ttl:         p.TTL,
		logger:      p.Logger,
	}
}

// invalidate runs scope invalidation detached from caller cancellation. Once
// the write is committed the deletes run to completion even if the caller
// disconnects mid-request.
func (s *Service) invalidate(ctx context.Context, ev invalidation.Event) {
	s.invalidator.Invalidate(context.WithoutCancel(ctx), ev)
}
