package apiproxy

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandler_ForwardsGetVerbatim(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/services/data/v58.0/query", r.URL.Path)
		require.Equal(t, "SELECT Id FROM Event__c", r.URL.Query().Get("q"))
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json; charset=UTF-8")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, `{"totalSize":1,"records":[{"Id":"a01"}]}`)
	}))
	defer upstream.Close()

	handler := Handler(WithLogger(quietLogger()))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/salesforce/services/data/v58.0/query?q="+url.QueryEscape("SELECT Id FROM Event__c"), nil)
	req.Header.Set("Authorization", "Bearer tok")
	req.Header.Set(TargetHeader, upstream.URL)
	req.Header.Set("Origin", "https://portal.example.org")
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"totalSize":1,"records":[{"Id":"a01"}]}`, rec.Body.String())
	assert.Equal(t, "application/json; charset=UTF-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "https://portal.example.org", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHandler_FullURLHeaderStillAccepted(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/services/data/v58.0/limits", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	handler := Handler(WithLogger(quietLogger()))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/salesforce/", nil)
	req.Header.Set("Authorization", "Bearer tok")
	req.Header.Set(TargetHeader, upstream.URL+"/services/data/v58.0/limits")
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_ForwardsPatchBody(t *testing.T) {
	var gotBody string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/services/data/v58.0/sobjects/Contact/003xx01", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		gotBody = string(raw)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer upstream.Close()

	handler := Handler(WithLogger(quietLogger()))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch,
		"/api/salesforce/services/data/v58.0/sobjects/Contact/003xx01",
		strings.NewReader(`{"Job_Position__c":"Auditor"}`))
	req.Header.Set("Authorization", "Bearer tok")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(TargetHeader, upstream.URL)
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, `{"Job_Position__c":"Auditor"}`, gotBody)
}

func TestHandler_ForwardsUpstreamErrorStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `[{"errorCode":"INVALID_SESSION_ID","message":"Session expired"}]`)
	}))
	defer upstream.Close()

	handler := Handler(WithLogger(quietLogger()))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/salesforce/services/data/v58.0/query", nil)
	req.Header.Set("Authorization", "Bearer stale")
	req.Header.Set(TargetHeader, upstream.URL)
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_SESSION_ID")
}

func TestHandler_ValidationNeverReachesUpstream(t *testing.T) {
	calls := 0
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer upstream.Close()

	handler := Handler(WithLogger(quietLogger()))

	tests := []struct {
		name    string
		headers map[string]string
	}{
		{"no headers", nil},
		{"missing target", map[string]string{"Authorization": "Bearer tok"}},
		{"missing authorization", map[string]string{TargetHeader: upstream.URL + "/query"}},
		{"relative target", map[string]string{
			"Authorization": "Bearer tok",
			TargetHeader:    "/services/data/v58.0/query",
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/salesforce/query", nil)
			for key, value := range tc.headers {
				req.Header.Set(key, value)
			}
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	assert.Zero(t, calls, "validation failures must not reach upstream")
}

func TestHandler_Preflight(t *testing.T) {
	handler := Handler(WithLogger(quietLogger()))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/salesforce/query", nil)
	req.Header.Set("Origin", "https://portal.example.org")
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), TargetHeader)
}

func TestHandler_UpstreamUnreachable(t *testing.T) {
	handler := Handler(WithLogger(quietLogger()))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/salesforce/services/data/v58.0/query", nil)
	req.Header.Set("Authorization", "Bearer tok")
	req.Header.Set(TargetHeader, "http://127.0.0.1:1")
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestRegisterRoutes(t *testing.T) {
	mux := http.NewServeMux()
	pattern, err := RegisterRoutes(mux, WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.Equal(t, "/api/salesforce/", pattern)

	_, err = RegisterRoutes(nil)
	require.Error(t, err)
}
