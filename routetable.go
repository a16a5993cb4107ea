package sufast

import (
	"strings"
	"sync"
)

// RouteRecord is one registered route: the (method, path pattern) identity,
// the name of the foreign handler that serves it, and its optional cache
// TTL. IsDynamic is derived, never set directly: it is true whenever the
// pattern contains a "{".
type RouteRecord struct {
	Method          string
	PathPattern     string
	HandlerName     string
	CacheTTLSeconds int
	IsDynamic       bool

	compiled *CompiledPattern
}

// RouteTable is the method-partitioned registry of route records described
// in component B. Enumeration of candidates for a request is always scoped
// to the request's method and walks routes in the order they were
// registered, because the dispatcher's first-match-wins rule depends on
// that order being observable and stable.
//
// A shared trie cannot serve this table: two differently-typed patterns
// that share a literal prefix, such as "/items/{slug:slug}" and
// "/items/{id:int}", must be tried in registration order and a trie
// collapses them into a single parameter slot. RouteTable instead keeps
// one compiled matcher per route and walks
// them linearly.
type RouteTable struct {
	mu      sync.RWMutex
	byIndex map[string][]*RouteRecord // method -> routes, insertion order
	index   map[string]int           // "METHOD:pattern" -> position in byIndex[method]
}

// NewRouteTable returns an empty RouteTable.
func NewRouteTable() *RouteTable {
	return &RouteTable{
		byIndex: map[string][]*RouteRecord{},
		index:   map[string]int{},
	}
}

// Register compiles pattern and inserts or overwrites the route record for
// (method, pattern). It reports false, committing no partial state, if the
// pattern has a duplicate parameter name.
func (rt *RouteTable) Register(method, pattern, handlerName string, cacheTTLSeconds int) bool {
	compiled, err := Compile(pattern)
	if err != nil {
		return false
	}

	rec := &RouteRecord{
		Method:          method,
		PathPattern:     pattern,
		HandlerName:     handlerName,
		CacheTTLSeconds: cacheTTLSeconds,
		IsDynamic:       strings.Contains(pattern, "{"),
		compiled:        compiled,
	}

	key := method + ":" + pattern

	rt.mu.Lock()
	defer rt.mu.Unlock()

	if pos, ok := rt.index[key]; ok {
		rt.byIndex[method][pos] = rec
		return true
	}

	rt.byIndex[method] = append(rt.byIndex[method], rec)
	rt.index[key] = len(rt.byIndex[method]) - 1

	return true
}

// Match walks the routes registered for method in insertion order and
// returns the first whose pattern matches path, along with the extracted
// path parameters. Both pure-literal routes (registered dynamically but
// containing no "{") and templated routes are considered; a literal route
// only wins on exact equality.
func (rt *RouteTable) Match(method, path string) (*RouteRecord, map[string]string, bool) {
	rt.mu.RLock()
	routes := rt.byIndex[method]
	// Clone the slice header's backing routes are immutable once
	// inserted, so a shallow copy of the slice is enough to release the
	// lock before any heavier work (matching) happens.
	candidates := make([]*RouteRecord, len(routes))
	copy(candidates, routes)
	rt.mu.RUnlock()

	for _, rec := range candidates {
		if params, ok := rec.compiled.Match(path); ok {
			return rec, params, true
		}
	}

	return nil, nil, false
}

// Size returns the number of routes registered across all methods.
func (rt *RouteTable) Size() int {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	n := 0
	for _, routes := range rt.byIndex {
		n += len(routes)
	}
	return n
}
