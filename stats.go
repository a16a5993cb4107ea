package sufast

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Tier identifies which of the three-tier pipeline (plus the 404 fallback)
// classified a request.
type Tier string

// Tier values, also used verbatim as the x-sufast-tier header.
const (
	TierStatic  Tier = "static"
	TierCached  Tier = "cached"
	TierDynamic Tier = "dynamic"
	TierNotFound Tier = "404"
)

// Counters holds the four monotonic, lock-free per-tier counters of
// component H. Each Inc* call is a single atomic add with no ordering
// guarantee relative to the others.
type Counters struct {
	total   uint64
	static  uint64
	cached  uint64
	dynamic uint64

	metrics *counterMetrics
}

// NewCounters returns a zeroed Counters. If reg is non-nil, the four
// counters are additionally mirrored as Prometheus counters
// registered against reg; passing a nil registry skips Prometheus entirely
// (it is a purely additive view over the same atomics).
func NewCounters(reg prometheus.Registerer) *Counters {
	c := &Counters{}
	if reg != nil {
		c.metrics = newCounterMetrics(reg)
	}
	return c
}

// IncTotal increments the total counter and returns its new value, which
// doubles as the request ID used in the x-sufast-request-id header.
func (c *Counters) IncTotal() uint64 {
	v := atomic.AddUint64(&c.total, 1)
	if c.metrics != nil {
		c.metrics.total.Inc()
	}
	return v
}

// IncTier increments the counter for tier. For TierNotFound it increments
// nothing — that tier has no dedicated counter (the four counters are
// total, static, cache, dynamic), and total is advanced only by IncTotal.
func (c *Counters) IncTier(tier Tier) {
	switch tier {
	case TierStatic:
		atomic.AddUint64(&c.static, 1)
		if c.metrics != nil {
			c.metrics.static.Inc()
		}
	case TierCached:
		atomic.AddUint64(&c.cached, 1)
		if c.metrics != nil {
			c.metrics.cached.Inc()
		}
	case TierDynamic:
		atomic.AddUint64(&c.dynamic, 1)
		if c.metrics != nil {
			c.metrics.dynamic.Inc()
		}
	}
}

// Snapshot is a point-in-time view of the counters plus derived
// percentages and table sizes, returned by the stats operation.
type Snapshot struct {
	Total           uint64  `json:"total"`
	Static          uint64  `json:"static_hits"`
	Cached          uint64  `json:"cache_hits"`
	Dynamic         uint64  `json:"dynamic_hits"`
	StaticPercent   float64 `json:"static_hit_percent"`
	CachedPercent   float64 `json:"cache_hit_percent"`
	DynamicPercent  float64 `json:"dynamic_hit_percent"`
	StaticRoutes    int     `json:"static_route_count"`
	DynamicRoutes   int     `json:"dynamic_route_count"`
	CacheKeyedByQuery bool  `json:"cache_keyed_by_query"`
}

// Snapshot reads the four counters atomically (each read is independent;
// there is no cross-counter consistency guarantee) and folds in the sizes
// of staticStore and routes.
func (c *Counters) Snapshot(staticStore *StaticStore, routes *RouteTable, cacheKeyedByQuery bool) Snapshot {
	total := atomic.LoadUint64(&c.total)
	static := atomic.LoadUint64(&c.static)
	cached := atomic.LoadUint64(&c.cached)
	dynamic := atomic.LoadUint64(&c.dynamic)

	s := Snapshot{
		Total:             total,
		Static:            static,
		Cached:            cached,
		Dynamic:           dynamic,
		StaticRoutes:      staticStore.Size(),
		DynamicRoutes:     routes.Size(),
		CacheKeyedByQuery: cacheKeyedByQuery,
	}

	if total > 0 {
		s.StaticPercent = 100 * float64(static) / float64(total)
		s.CachedPercent = 100 * float64(cached) / float64(total)
		s.DynamicPercent = 100 * float64(dynamic) / float64(total)
	}

	return s
}

// counterMetrics is the Prometheus mirror of the four atomics.
type counterMetrics struct {
	total, static, cached, dynamic prometheus.Counter
}

func newCounterMetrics(reg prometheus.Registerer) *counterMetrics {
	mk := func(name, help string) prometheus.Counter {
		c := prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sufast",
			Subsystem: "dispatch",
			Name:      name,
			Help:      help,
		})
		reg.MustRegister(c)
		return c
	}

	return &counterMetrics{
		total:   mk("requests_total", "Total requests classified by the dispatcher."),
		static:  mk("static_hits_total", "Requests served from the static response store."),
		cached:  mk("cache_hits_total", "Requests served from the TTL cache."),
		dynamic: mk("dynamic_hits_total", "Requests served by the foreign-handler bridge."),
	}
}
