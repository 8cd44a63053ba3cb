// Package cors applies the proxy's cross-origin policy: the request Origin
// is echoed back verbatim, never a wildcard, so credentialed browser
// requests keep working.
package cors

import (
	"net/http"
	"strings"
)

// Policy is the per-endpoint allow set.
type Policy struct {
	Methods []string
	Headers []string
}

// Apply writes the CORS response headers for r. Requests without an Origin
// header get no CORS headers at all.
func Apply(w http.ResponseWriter, r *http.Request, policy Policy) {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return
	}
	header := w.Header()
	header.Set("Access-Control-Allow-Origin", origin)
	header.Add("Vary", "Origin")
	if len(policy.Methods) > 0 {
		header.Set("Access-Control-Allow-Methods", strings.Join(policy.Methods, ", "))
	}
	if len(policy.Headers) > 0 {
		header.Set("Access-Control-Allow-Headers", strings.Join(policy.Headers, ", "))
	}
}

// Preflight short-circuits OPTIONS requests with a 204 after applying the
// policy. It reports whether the request was handled.
func Preflight(w http.ResponseWriter, r *http.Request, policy Policy) bool {
	if r.Method != http.MethodOptions {
		return false
	}
	Apply(w, r, policy)
	w.WriteHeader(http.StatusNoContent)
	return true
}
