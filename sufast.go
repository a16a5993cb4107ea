package sufast

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// Sufast is the top-level handle of this package: one value owns the
// route table, the static store, the TTL cache, the bridge, and the
// counters, and exposes the registration and serving API a foreign
// embedding layer drives.
//
// It is safe to call the registration methods concurrently with Serve;
// every underlying store is already synchronized for concurrent access.
type Sufast struct {
	Config *Config

	routes   *RouteTable
	static   *StaticStore
	cache    *TTLCache
	bridge   *Bridge
	counters *Counters

	dispatcher *Dispatcher
	server     *Server
}

// New returns a Sufast configured with cfg, or DefaultConfig() if cfg is
// nil.
func New(cfg *Config) *Sufast {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var reg prometheus.Registerer
	if cfg.MetricsEnabled {
		reg = prometheus.NewRegistry()
	}

	s := &Sufast{
		Config:   cfg,
		routes:   NewRouteTable(),
		static:   NewStaticStore(),
		cache:    NewTTLCache(cfg.CacheMaxMemoryBytes),
		bridge:   NewBridge(),
		counters: NewCounters(reg),
	}

	s.dispatcher = NewDispatcher(s.static, s.cache, s.routes, s.bridge, s.counters)
	s.dispatcher.CacheKeyIncludesQuery = cfg.CacheKeyIncludesQuery

	log := newLogger(cfg.AppName, cfg.LogFile, cfg.DebugMode)
	s.server = NewServer(s.dispatcher, log)

	return s
}

// Default is the package-level Sufast instance for callers that only need
// one router.
var Default = New(nil)

// RegisterCallback sets the single foreign-handler callback that serves
// every dynamic-tier match (component F). Registering again replaces the
// previous callback.
func (s *Sufast) RegisterCallback(cb Callback) {
	s.bridge.Register(cb)
}

// RegisterThreeArgCallback registers a callback using the legacy
// three-argument shape (method, path, path-params-as-JSON).
func (s *Sufast) RegisterThreeArgCallback(fn ThreeArgFunc) {
	s.bridge.Register(AdaptThreeArg(fn))
}

// AddStaticRoute registers an exact METHOD:path response served verbatim
// from the static tier (component C), bypassing both the cache and the
// bridge entirely.
func (s *Sufast) AddStaticRoute(method, path string, body []byte, status int, contentType string, headers HeaderList) {
	s.static.Set(method, path, body, status, contentType, headers)
}

// AddDynamicRoute registers a typed-pattern route (components A and B)
// with the handler name the bridge will report via x-sufast-handler and an
// optional TTL (seconds) the dispatcher uses to populate the cache tier
// after a successful 200 response. A cacheTTLSeconds of 0 or less disables
// caching for this route.
func (s *Sufast) AddDynamicRoute(method, pattern, handlerName string, cacheTTLSeconds int) error {
	if _, err := Compile(pattern); err != nil {
		return err
	}
	s.routes.Register(method, pattern, handlerName, cacheTTLSeconds)
	return nil
}

// PrecompileStaticRoutes seeds the built-in fixed static routes and
// returns how many were installed.
func (s *Sufast) PrecompileStaticRoutes() int {
	return s.static.Precompile()
}

// ClearCache empties the TTL cache without touching the static store or
// the route table.
func (s *Sufast) ClearCache() {
	s.cache.Clear()
}

// Stats returns a point-in-time snapshot of the four dispatch counters
// plus route/static table sizes (component H).
func (s *Sufast) Stats() Snapshot {
	return s.counters.Snapshot(s.static, s.routes, s.Config.CacheKeyIncludesQuery)
}

// Serve binds and runs the HTTP listener (component G), applying the
// dev/prod binding policy and the port-1 sentinel from s.Config. If
// s.Config.ConfigFile is set, it is decoded on top of s.Config first. It
// blocks until ctx is canceled or the listener fails.
func (s *Sufast) Serve(ctx context.Context) error {
	if s.Config.ConfigFile != "" {
		if err := s.Config.LoadFile(s.Config.ConfigFile); err != nil {
			return err
		}
		s.dispatcher.CacheKeyIncludesQuery = s.Config.CacheKeyIncludesQuery
	}

	host := bindHost(s.Config.DebugMode)
	return s.server.Serve(ctx, host, s.Config.Port)
}

// Addr returns the bound listen address, or "" before Serve has been
// called.
func (s *Sufast) Addr() string {
	return s.server.Addr()
}
