package sufast

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DispatchResult is what the Dispatcher hands back to the listener glue
// (component G) to write onto the wire. It deliberately does not know
// about http.ResponseWriter; keeping the dispatcher transport-agnostic
// keeps it callable directly from tests without constructing a fake
// *http.Request/ResponseWriter pair.
type DispatchResult struct {
	Status  int
	Body    []byte
	Headers HeaderList
	Tier    Tier
}

// Dispatcher implements the three-tier request classifier of component E:
// static tier, then TTL cache, then dynamic (pattern-matched, bridged)
// tier, then the 404 fallback.
type Dispatcher struct {
	Static   *StaticStore
	Cache    *TTLCache
	Routes   *RouteTable
	Bridge   *Bridge
	Counters *Counters

	// CacheKeyIncludesQuery opts into folding the query string into the
	// cache key. Default false preserves the original behavior of
	// excluding the query string from the cache key.
	CacheKeyIncludesQuery bool
}

// NewDispatcher wires together the four tiers plus the shared counters.
func NewDispatcher(static *StaticStore, cache *TTLCache, routes *RouteTable, bridge *Bridge, counters *Counters) *Dispatcher {
	return &Dispatcher{
		Static:   static,
		Cache:    cache,
		Routes:   routes,
		Bridge:   bridge,
		Counters: counters,
	}
}

// requestIn is the transport-agnostic shape the dispatcher classifies.
// The HTTP glue (component G, Server.ServeHTTP) builds one of these from
// each *http.Request.
type requestIn struct {
	Method      string
	Path        string
	RawQuery    string
	Headers     map[string][]string
	Body        []byte
}

// Dispatch runs the three-tier policy for one request and returns the
// response to emit, always non-nil.
func (d *Dispatcher) Dispatch(req requestIn) *DispatchResult {
	requestID := d.Counters.IncTotal()

	path := req.Path
	if path == "" {
		path = "/"
	}

	cacheKey := ComposeKey(req.Method, path)
	if d.CacheKeyIncludesQuery && req.RawQuery != "" {
		cacheKey += "?" + req.RawQuery
	}

	// 1. Static tier.
	if entry, ok := d.Static.Get(req.Method, path); ok {
		d.Counters.IncTier(TierStatic)
		return &DispatchResult{
			Status: entry.Status,
			Body:   entry.Body,
			Tier:   TierStatic,
			Headers: withTierHeaders(entry.Headers, TierStatic, requestID, entry.ContentType, 0, false),
		}
	}

	// 2. Cache tier.
	if entry, ok := d.Cache.Get(cacheKey); ok {
		d.Counters.IncTier(TierCached)
		contentType, _ := entry.Headers.Get("content-type")
		return &DispatchResult{
			Status: entry.Status,
			Body:   entry.Body,
			Tier:   TierCached,
			Headers: withTierHeaders(entry.Headers, TierCached, requestID, contentType, entry.Age(time.Now()), true),
		}
	}

	// 3. Dynamic tier.
	route, params, ok := d.Routes.Match(req.Method, path)
	if ok {
		return d.dispatchDynamic(req, path, route, params, requestID, cacheKey)
	}

	// 4. Fallback.
	d.Counters.IncTier(TierNotFound)
	body := []byte(`{"error":"Route not found","status":404,"path":"` +
		jsonEscape(path) + `","method":"` + jsonEscape(req.Method) + `"}`)
	return &DispatchResult{
		Status: 404,
		Body:   body,
		Tier:   TierNotFound,
		Headers: HeaderList{
			{Name: "Content-Type", Value: "application/json"},
			{Name: "X-Sufast-Tier", Value: string(TierNotFound)},
			{Name: "X-Sufast-Request-Id", Value: strconv.FormatUint(requestID, 10)},
		},
	}
}

func (d *Dispatcher) dispatchDynamic(req requestIn, path string, route *RouteRecord, params map[string]string, requestID uint64, cacheKey string) *DispatchResult {
	env := &RequestEnvelope{
		Method:      req.Method,
		Path:        path,
		PathParams:  params,
		QueryParams: parseQueryParams(req.RawQuery),
		Headers:     lowercasedHeaders(req.Headers),
		Body:        toValidUTF8(req.Body),
	}

	resp, err := d.Bridge.Invoke(env)

	d.Counters.IncTier(TierDynamic)

	if err != nil {
		if err == errHandlerUnavailable || err == errNoCallback {
			body := []byte(`{"error":"Route not found","status":404,"path":"` +
				jsonEscape(path) + `","method":"` + jsonEscape(req.Method) + `"}`)
			return &DispatchResult{
				Status: 404,
				Body:   body,
				Tier:   TierDynamic,
				Headers: HeaderList{
					{Name: "Content-Type", Value: "application/json"},
					{Name: "X-Sufast-Tier", Value: string(TierNotFound)},
					{Name: "X-Sufast-Request-Id", Value: strconv.FormatUint(requestID, 10)},
				},
			}
		}

		return &DispatchResult{
			Status: 500,
			Body:   []byte(`{"error":"handler failed"}`),
			Tier:   TierDynamic,
			Headers: HeaderList{
				{Name: "Content-Type", Value: "application/json"},
				{Name: "X-Sufast-Tier", Value: string(TierDynamic)},
				{Name: "X-Sufast-Request-Id", Value: strconv.FormatUint(requestID, 10)},
			},
		}
	}

	contentType := "application/json"
	var headers HeaderList
	if resp.Headers != nil {
		if ct, ok := resp.Headers["content-type"]; ok {
			contentType = ct
		}
		for k, v := range resp.Headers {
			headers = append(headers, HeaderField{Name: k, Value: v})
		}
	}

	if resp.Status == 200 && route.CacheTTLSeconds > 0 {
		cachedHeaders := headers
		if _, ok := resp.Headers["content-type"]; !ok {
			cachedHeaders = append(HeaderList{{Name: "content-type", Value: contentType}}, headers...)
		}
		d.Cache.Set(cacheKey, &CachedEntry{
			Body:       []byte(resp.Body),
			Status:     resp.Status,
			Headers:    cachedHeaders,
			InsertedAt: time.Now(),
			TTL:        time.Duration(route.CacheTTLSeconds) * time.Second,
		})
	}

	out := withTierHeaders(headers, TierDynamic, requestID, contentType, 0, false)
	out = append(out, HeaderField{Name: "X-Sufast-Handler", Value: route.HandlerName})

	return &DispatchResult{
		Status:  resp.Status,
		Body:    []byte(resp.Body),
		Tier:    TierDynamic,
		Headers: out,
	}
}

// withTierHeaders builds the common response headers (server, tier,
// request id, content type, and, for cache hits, cache age) shared across
// tiers.
func withTierHeaders(existing HeaderList, tier Tier, requestID uint64, contentType string, ageSeconds int, cacheHit bool) HeaderList {
	out := HeaderList{
		{Name: "Server", Value: "sufast-ultra"},
		{Name: "Content-Type", Value: contentType},
		{Name: "X-Sufast-Tier", Value: string(tier)},
		{Name: "X-Sufast-Request-Id", Value: strconv.FormatUint(requestID, 10)},
	}
	if cacheHit {
		out = append(out, HeaderField{Name: "X-Sufast-Cache-Age", Value: strconv.Itoa(ageSeconds)})
	}
	for _, f := range existing {
		if strings.EqualFold(f.Name, "content-type") {
			continue
		}
		out = append(out, f)
	}
	return out
}

// parseQueryParams decodes rawQuery per the standard
// application/x-www-form-urlencoded grammar, flattening repeated keys to
// their first value.
func parseQueryParams(rawQuery string) map[string]string {
	values, _ := url.ParseQuery(rawQuery)
	out := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

// lowercasedHeaders flattens a transport header map (possibly
// multi-valued) into the single-value, lowercased-name map the request
// envelope requires.
func lowercasedHeaders(h map[string][]string) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[strings.ToLower(k)] = strings.Join(v, ", ")
	}
	return out
}

// toValidUTF8 decodes body as UTF-8-lossy text: invalid sequences are
// replaced rather than rejected, so a binary body never aborts dispatch
// (callers that need exact binary payloads must base64-wrap them, since
// the request envelope carries the body as a JSON string).
func toValidUTF8(body []byte) string {
	return strings.ToValidUTF8(string(body), "�")
}

// jsonEscape is a minimal escaper for building the fixed-shape 404 body by
// hand (avoiding a struct + json.Marshal round trip for a four-field
// object keeps the fallback path allocation-light).
func jsonEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
