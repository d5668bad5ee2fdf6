package httpx

import (
	"net"
	"net/http"
	"slices"
	"strings"
)

// CORS answers preflight requests and stamps Access-Control headers for the
// given origins. "*" allows any origin; credentials are only advertised for
// explicitly listed origins.
func CORS(origins []string) Middleware {
	wildcard := slices.Contains(origins, "*")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			listed := slices.Contains(origins, origin)
			if !listed && !wildcard {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Allow-Origin", origin)
			if listed {
				h.Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				if reqHeaders := r.Header.Get("Access-Control-Request-Headers"); reqHeaders != "" {
					h.Set("Access-Control-Allow-Headers", reqHeaders)
				}
				h.Set("Access-Control-Max-Age", "600")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// TrustedHosts rejects requests whose Host header is not listed. Entries may
// be a bare host ("localhost"), a host:port pair, or "*". An empty list
// disables the check.
func TrustedHosts(hosts []string) Middleware {
	return func(next http.Handler) http.Handler {
		if len(hosts) == 0 || slices.Contains(hosts, "*") {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !hostAllowed(hosts, r.Host) {
				WriteError(w, http.StatusBadRequest, CodeForbiddenHost, "Invalid host header")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func hostAllowed(hosts []string, host string) bool {
	host = strings.ToLower(host)
	bare := host
	if h, _, err := net.SplitHostPort(host); err == nil {
		bare = h
	}
	for _, allowed := range hosts {
		allowed = strings.ToLower(allowed)
		if allowed == host || allowed == bare {
			return true
		}
	}
	return false
}
