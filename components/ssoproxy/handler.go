// Package ssoproxy bridges the browser and the CRM's OAuth endpoints. The
// CRM rejects cross-origin requests, so code exchange and userinfo lookups
// run through this server-side component, which also keeps the client
// secret out of the browser.
package ssoproxy

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-memberportal/internal/cors"
)

var tokenPolicy = cors.Policy{
	Methods: []string{http.MethodPost, http.MethodOptions},
	Headers: []string{"Content-Type"},
}

var userinfoPolicy = cors.Policy{
	Methods: []string{http.MethodGet, http.MethodOptions},
	Headers: []string{"Authorization", "X-Instance-Url"},
}

type tokenRequest struct {
	Code        string `json:"code"`
	RedirectURI string `json:"redirect_uri"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// TokenHandler exchanges an OAuth authorization code for tokens. The CRM's
// response body and status are forwarded verbatim so the browser sees
// exactly what the CRM said.
func TokenHandler(fns ...OptionFn) http.Handler {
	opts := NewOptions(fns...)
	return TokenHandlerWithOptions(opts)
}

func TokenHandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cors.Preflight(w, r, tokenPolicy) {
			return
		}
		cors.Apply(w, r, tokenPolicy)

		if r.Method != http.MethodPost {
			writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var req tokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.Code == "" || req.RedirectURI == "" {
			writeJSONError(w, http.StatusBadRequest, "code and redirect_uri are required")
			return
		}

		// Fail closed: without the full OAuth triple the exchange cannot
		// succeed and must not leak a partially built request upstream.
		if !opts.SSO.Complete() {
			opts.Logger.Error("sso configuration incomplete")
			writeJSONError(w, http.StatusInternalServerError, "sso not configured")
			return
		}

		form := url.Values{}
		form.Set("grant_type", "authorization_code")
		form.Set("code", req.Code)
		form.Set("client_id", opts.SSO.AppID)
		form.Set("client_secret", opts.SSO.AppSecret)
		form.Set("redirect_uri", req.RedirectURI)

		upstream, err := http.NewRequestWithContext(r.Context(), http.MethodPost,
			opts.SSO.BaseURL+"/services/oauth2/token", strings.NewReader(form.Encode()))
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, "build upstream request")
			return
		}
		upstream.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		forward(w, opts, upstream, "token exchange")
	})
}

// UserinfoHandler proxies the CRM userinfo endpoint. The browser supplies
// the bearer token and the instance to ask, since the proxy holds no
// per-user state.
func UserinfoHandler(fns ...OptionFn) http.Handler {
	opts := NewOptions(fns...)
	return UserinfoHandlerWithOptions(opts)
}

func UserinfoHandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cors.Preflight(w, r, userinfoPolicy) {
			return
		}
		cors.Apply(w, r, userinfoPolicy)

		if r.Method != http.MethodGet {
			writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		authorization := r.Header.Get("Authorization")
		instanceURL := r.Header.Get("X-Instance-Url")
		if authorization == "" || instanceURL == "" {
			writeJSONError(w, http.StatusBadRequest, "Authorization and X-Instance-Url headers are required")
			return
		}

		upstream, err := http.NewRequestWithContext(r.Context(), http.MethodGet,
			strings.TrimRight(instanceURL, "/")+"/services/oauth2/userinfo", nil)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid instance URL")
			return
		}
		upstream.Header.Set("Authorization", authorization)

		forward(w, opts, upstream, "userinfo")
	})
}

// forward relays the upstream response body, status and content type
// without interpretation.
func forward(w http.ResponseWriter, opts Options, upstream *http.Request, operation string) {
	resp, err := opts.HTTPClient.Do(upstream)
	if err != nil {
		opts.Logger.Error("upstream request failed", "operation", operation, "error", err)
		writeJSONError(w, http.StatusBadGateway, "upstream request failed")
		return
	}
	defer resp.Body.Close()

	if contentType := resp.Header.Get("Content-Type"); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
}

func writeJSONError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message})
}
