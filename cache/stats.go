package cache

import "github.com/puzpuzpuz/xsync/v3"

// Stats counts cache outcomes. All methods are safe on a nil receiver so the
// counters stay optional.
type Stats struct {
	hits     *xsync.Counter
	misses   *xsync.Counter
	degrades *xsync.Counter
}

func NewStats() *Stats {
	return &Stats{
		hits:     xsync.NewCounter(),
		misses:   xsync.NewCounter(),
		degrades: xsync.NewCounter(),
	}
}

func (s *Stats) hit() {
	if s != nil {
		s.hits.Inc()
	}
}

func (s *Stats) miss() {
	if s != nil {
		s.misses.Inc()
	}
}

func (s *Stats) degraded() {
	if s != nil {
		s.degrades.Inc()
	}
}

// Snapshot is a point-in-time view of the counters.
type Snapshot struct {
	Hits     int64 `json:"hits"`
	Misses   int64 `json:"misses"`
	Degraded int64 `json:"degraded"`
}

func (s *Stats) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	return Snapshot{
		Hits:     s.hits.Value(),
		Misses:   s.misses.Value(),
		Degraded: s.degrades.Value(),
	}
}
