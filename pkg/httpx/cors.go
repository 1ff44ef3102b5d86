package httpx

import (
	"net/http"
	"strings"
)

// CORSConfig describes the browser origins allowed to call the API with
// credentials.
type CORSConfig struct {
	// AllowedOrigins are matched case-insensitively against the Origin
	// header. A "*" entry allows any origin, but credentials are then
	// never advertised for wildcard matches.
	AllowedOrigins []string

	// AllowLocalhost additionally accepts any localhost/127.0.0.1 origin,
	// regardless of port. Meant for development.
	AllowLocalhost bool

	AllowedMethods []string
	AllowedHeaders []string
}

// CORSMiddleware reconciles the browser client origin with this API origin.
// The session cookie crosses sites, so allowed origins are echoed back
// explicitly and Access-Control-Allow-Credentials is always set for them.
func CORSMiddleware(cfg CORSConfig) Middleware {
	if len(cfg.AllowedMethods) == 0 {
		cfg.AllowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if len(cfg.AllowedHeaders) == 0 {
		cfg.AllowedHeaders = []string{"Content-Type", "Authorization", "Cookie"}
	}
	joinedMethods := strings.Join(cfg.AllowedMethods, ", ")
	joinedHeaders := strings.Join(cfg.AllowedHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				// Non-browser callers (curl, server-to-server) skip CORS.
				next.ServeHTTP(w, r)
				return
			}

			if !originAllowed(origin, cfg) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			header := w.Header()
			header.Set("Vary", "Origin")
			header.Set("Access-Control-Allow-Origin", origin)
			header.Set("Access-Control-Allow-Credentials", "true")
			header.Set("Access-Control-Allow-Methods", joinedMethods)
			header.Set("Access-Control-Allow-Headers", joinedHeaders)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origin string, cfg CORSConfig) bool {
	for _, candidate := range cfg.AllowedOrigins {
		if candidate == "*" || strings.EqualFold(candidate, origin) {
			return true
		}
	}
	if cfg.AllowLocalhost &&
		(strings.Contains(origin, "localhost") || strings.Contains(origin, "127.0.0.1")) {
		return true
	}
	return false
}
