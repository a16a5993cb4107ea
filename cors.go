package sufast

import (
	"net/http"
	"strconv"
	"strings"
)

// corsConfig mirrors the shape of the foreign CORS middleware this core
// sits behind (allow_origins, allow_methods, allow_headers, max_age), but
// unlike that middleware — which is explicitly out of scope, an external
// collaborator — sufast's own listener glue applies a single fixed,
// permissive instance of it rather than exposing a configuration surface
// of its own.
type corsConfig struct {
	allowOrigins []string
	allowMethods []string
	allowHeaders []string
	maxAgeSeconds int
}

// defaultCORS is the permissive policy the listener always applies: any
// origin, the methods the router dispatches, any request header.
var defaultCORS = corsConfig{
	allowOrigins:  []string{"*"},
	allowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
	allowHeaders:  []string{"*"},
	maxAgeSeconds: 86400,
}

// withCORS wraps next with the permissive CORS layer of component G,
// answering preflight OPTIONS requests directly and stamping the
// Access-Control-* headers on every other response.
func withCORS(cfg corsConfig, next http.Handler) http.Handler {
	allowMethods := strings.Join(cfg.allowMethods, ", ")
	allowHeaders := strings.Join(cfg.allowHeaders, ", ")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		w.Header().Set("Vary", "Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", corsOrigin(cfg, origin))
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}
		w.Header().Set("Access-Control-Allow-Methods", allowMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowHeaders)

		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.maxAgeSeconds))
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// corsOrigin resolves the Access-Control-Allow-Origin value for an
// incoming Origin: "*" when the policy allows any origin, otherwise the
// origin itself when explicitly whitelisted, otherwise the policy's first
// configured origin as a conservative default.
func corsOrigin(cfg corsConfig, origin string) string {
	for _, o := range cfg.allowOrigins {
		if o == "*" {
			return "*"
		}
		if o == origin {
			return origin
		}
	}
	if len(cfg.allowOrigins) > 0 {
		return cfg.allowOrigins[0]
	}
	return "*"
}
