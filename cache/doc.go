// Package cache provides the cache-aside layer: the key scheme for the four
// derived scopes, a fail-soft store boundary over a pluggable backend, and a
// generic read-through accessor.
//
// # Fail-soft contract
//
// The cache is advisory, never a source of truth. Store absorbs every backend
// error: a failed get degrades to a miss, failed sets and deletes are logged
// and dropped. Callers can therefore never observe a cache-layer error; the
// worst case is equivalent to a cold cache.
//
// # Read-through
//
//	companies, err := cache.GetOrFetch(ctx, accessor, cache.CompanyListKey(owner), cfg.ListTTL,
//		func(ctx context.Context) ([]*model.Company, error) {
//			return store.CompaniesByOwner(ctx, owner)
//		})
//
// On a hit the cached value is trusted as-is; TTL expiry is the only
// freshness check. On a miss the fetcher provides canonical data, which is
// best-effort written back with the scope's TTL.
//
// # Invalidation
//
// Writers do not go through this package's set path. They delete the derived
// keys for their scope after the store mutation commits; see the invalidation
// package for the per-entity-kind rules.
package cache
