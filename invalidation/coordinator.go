// Package invalidation computes and issues the cache deletes required after
// a committed store mutation. The rules are scope-driven: each entity kind
// maps to a fixed set of derived keys built from ids the caller already
// holds. The coordinator never re-queries the store for ancestors, both to
// keep the write path hot and to avoid racing an ancestor id that just
// changed.
package invalidation

import (
	"context"
	"log/slog"
	"sync"

	"github.com/digitallabs/icp-engine/cache"
)

// Kind names the entity level that was mutated.
type Kind string

const (
	// KindCompany covers company create/delete, name updates and field
	// upserts: anything that changes content embedded in the owner's
	// company list or feeds the company analysis.
	KindCompany Kind = "company"
	// KindProfile covers ICP profile create/update/delete.
	KindProfile Kind = "icp_profile"
	// KindCampaign covers campaign create/update/delete. Campaign writes
	// invalidate the campaign list only; the grandparent company list is
	// left to its own TTL (inherited scope, see the service docs).
	KindCampaign Kind = "campaign"
)

// Event describes one committed mutation. The caller supplies the full
// ancestor chain it already holds; unused ids may be zero for kinds that do
// not need them.
type Event struct {
	Kind      Kind
	OwnerID   string
	CompanyID int64
	ICPID     string
}

// Keys returns the cache keys the event must delete. The sets for one event
// target disjoint keys, so deletion order is irrelevant.
func (ev Event) Keys() []string {
	switch ev.Kind {
	case KindCompany:
		return []string{
			cache.CompanyListKey(ev.OwnerID),
			cache.ICPListKey(ev.CompanyID),
			cache.AnalysisKey(ev.CompanyID),
		}
	case KindProfile:
		return []string{
			cache.ICPListKey(ev.CompanyID),
			cache.CompanyListKey(ev.OwnerID),
		}
	case KindCampaign:
		return []string{
			cache.CampaignListKey(ev.ICPID),
		}
	}
	return nil
}

// Invalidator is the write-path contract consumed by the service and
// generation layers.
type Invalidator interface {
	Invalidate(ctx context.Context, ev Event)
}

// Coordinator issues the deletes for an event against the fail-soft cache
// store. It is stateless given its inputs.
type Coordinator struct {
	store  cache.Store
	logger *slog.Logger
}

func NewCoordinator(store cache.Store, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{store: store, logger: logger}
}

// Invalidate deletes every key derived from ev. It must only be called after
// the triggering mutation has durably committed; running it earlier lets a
// concurrent reader repopulate pre-mutation data. Deletes are issued
// concurrently and all of them are attempted; a delete the store could not
// perform self-corrects at that key's TTL boundary.
func (c *Coordinator) Invalidate(ctx context.Context, ev Event) {
	keys := ev.Keys()
	if len(keys) == 0 {
		c.logger.Warn("invalidation event with unknown kind dropped", "kind", ev.Kind)
		return
	}

	var wg sync.WaitGroup
	for _, key := range keys {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			c.store.Delete(ctx, key)
		}(key)
	}
	wg.Wait()
}

var _ Invalidator = (*Coordinator)(nil)
