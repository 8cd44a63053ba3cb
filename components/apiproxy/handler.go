// Package apiproxy is a blind CRM passthrough. The browser cannot call the
// CRM REST API cross-origin, so it names the CRM origin in a header, the
// resource in the path under the mount, and sends its bearer token here; the
// proxy replays the request and hands back whatever the CRM returned, byte
// for byte.
package apiproxy

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-memberportal/internal/cors"
)

// TargetHeader names the upstream origin the request is replayed against.
const TargetHeader = "X-Salesforce-Target"

var proxyPolicy = cors.Policy{
	Methods: []string{
		http.MethodGet, http.MethodPost, http.MethodPatch,
		http.MethodPut, http.MethodDelete, http.MethodOptions,
	},
	Headers: []string{"Authorization", "Content-Type", TargetHeader},
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler builds the passthrough handler with default options plus any
// overrides.
func Handler(fns ...OptionFn) http.Handler {
	opts := NewOptions(fns...)
	return HandlerWithOptions(opts)
}

func HandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cors.Preflight(w, r, proxyPolicy) {
			return
		}
		cors.Apply(w, r, proxyPolicy)

		// Validation failures stop here; nothing may reach the CRM on a
		// malformed request.
		target, err := upstreamURL(r, opts.RoutePath)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}

		var body io.Reader
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			body = r.Body
		}

		upstream, err := http.NewRequestWithContext(r.Context(), r.Method, target.String(), body)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid target URL")
			return
		}
		upstream.Header.Set("Authorization", r.Header.Get("Authorization"))
		if contentType := r.Header.Get("Content-Type"); contentType != "" {
			upstream.Header.Set("Content-Type", contentType)
		}

		resp, err := opts.HTTPClient.Do(upstream)
		if err != nil {
			opts.Logger.Error("upstream request failed",
				"method", r.Method, "target", target.Redacted(), "error", err)
			writeJSONError(w, http.StatusBadGateway, "upstream request failed")
			return
		}
		defer resp.Body.Close()

		if contentType := resp.Header.Get("Content-Type"); contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(resp.StatusCode)
		_, _ = io.Copy(w, resp.Body)
	})
}

// upstreamURL composes the replay URL: the header names the target origin,
// the request path beyond the mount names the resource, and the query string
// carries over. A header that already includes a path keeps it as a prefix.
func upstreamURL(r *http.Request, routePath string) (*url.URL, error) {
	if r.Header.Get("Authorization") == "" {
		return nil, fmt.Errorf("Authorization header is required")
	}
	raw := r.Header.Get(TargetHeader)
	if raw == "" {
		return nil, fmt.Errorf("%s header is required", TargetHeader)
	}
	target, err := url.Parse(raw)
	if err != nil || !target.IsAbs() || target.Host == "" {
		return nil, fmt.Errorf("%s must be an absolute URL", TargetHeader)
	}

	prefix := strings.TrimSuffix(routePath, "*")
	if suffix := strings.TrimPrefix(r.URL.Path, prefix); suffix != "" && suffix != r.URL.Path {
		target.Path = strings.TrimRight(target.Path, "/") + "/" + strings.TrimLeft(suffix, "/")
	}
	if r.URL.RawQuery != "" {
		target.RawQuery = r.URL.RawQuery
	}
	return target, nil
}

func writeJSONError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message})
}
