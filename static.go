package sufast

import (
	"sync"

	"github.com/aofei/mimesniffer"
)

// HeaderField is one name/value pair. Static and cached response entries
// keep their headers as an ordered slice of these, rather than a map,
// because the data model requires an ordered mapping of name -> value and
// Go's map has no iteration order.
type HeaderField struct {
	Name  string
	Value string
}

// HeaderList is an ordered collection of HeaderField. Get returns the value
// of the first field matching name, case-sensitively (callers that need
// case-insensitive lookup, such as the dispatcher hunting for an explicit
// Content-Type, should normalize case themselves).
type HeaderList []HeaderField

// Get returns the value of the first field named name, and whether one was
// found.
func (hl HeaderList) Get(name string) (string, bool) {
	for _, f := range hl {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// StaticEntry is a pre-built response served verbatim on a static-tier hit.
type StaticEntry struct {
	Body        []byte
	Status      int
	ContentType string
	Headers     HeaderList
}

// StaticStore is the exact-match (method, path) response registry of
// component C. Lookup is a single hash probe; there is no pattern matching
// at this tier: a sync.Map of small, rarely-mutated metadata values, read
// far more often than written.
type StaticStore struct {
	entries sync.Map // composed key (string) -> *StaticEntry
}

// NewStaticStore returns an empty StaticStore.
func NewStaticStore() *StaticStore {
	return &StaticStore{}
}

// Set inserts or overwrites the entry for the composed key "METHOD:path".
// If contentType is empty, it is sniffed from body via mimesniffer and
// falls back to "application/json" when sniffing yields nothing useful.
func (s *StaticStore) Set(method, path string, body []byte, status int, contentType string, headers HeaderList) {
	if contentType == "" {
		if sniffed := mimesniffer.Sniff(body); sniffed != "" {
			contentType = sniffed
		} else {
			contentType = "application/json"
		}
	}

	s.entries.Store(ComposeKey(method, path), &StaticEntry{
		Body:        body,
		Status:      status,
		ContentType: contentType,
		Headers:     headers,
	})
}

// Get returns the entry registered for the composed key, if any.
func (s *StaticStore) Get(method, path string) (*StaticEntry, bool) {
	v, ok := s.entries.Load(ComposeKey(method, path))
	if !ok {
		return nil, false
	}
	return v.(*StaticEntry), true
}

// Size returns the number of registered static entries.
func (s *StaticStore) Size() int {
	n := 0
	s.entries.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}

// ComposeKey builds the "METHOD:path" identity key shared by the static
// store and the TTL cache.
func ComposeKey(method, path string) string {
	if path == "" {
		path = "/"
	}
	return method + ":" + path
}

// seededStaticRoutes is the fixed set pre-compiled by
// PrecompileStaticRoutes.
var seededStaticRoutes = []struct {
	method, path, body, contentType string
	status                         int
}{
	{"GET", "/", `{"message":"welcome"}`, "application/json", 200},
	{"GET", "/health", `{"status":"healthy"}`, "application/json", 200},
	{"GET", "/about", `{"name":"sufast"}`, "application/json", 200},
	{"GET", "/api/status", `{"status":"ok"}`, "application/json", 200},
}

// Precompile seeds the fixed static set into s and returns the resulting
// entry count. Calling it more than once is idempotent: the entries are
// simply overwritten with themselves, so the store's size never grows past
// the first call.
func (s *StaticStore) Precompile() int {
	for _, r := range seededStaticRoutes {
		s.Set(r.method, r.path, []byte(r.body), r.status, r.contentType, nil)
	}
	return s.Size()
}
