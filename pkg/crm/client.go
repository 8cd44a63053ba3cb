// Package crm talks to the membership CRM's REST surface: describe metadata,
// row queries and record updates. The client holds no package-level state;
// credentials come from a session store so token refreshes flow through
// without rebuilding the client.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-memberportal/pkg/metadata"
	"github.com/goliatone/go-memberportal/pkg/rowset"
	"github.com/goliatone/go-memberportal/pkg/session"
)

const defaultAPIVersion = "v58.0"

// ErrNoSession reports that no usable credentials are stored.
var ErrNoSession = errors.New("crm: no session")

// Doer is the subset of *http.Client the CRM client needs.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option customises client construction.
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(doer Doer) Option {
	return func(c *Client) {
		if doer != nil {
			c.http = doer
		}
	}
}

// WithAPIVersion overrides the REST API version segment.
func WithAPIVersion(version string) Option {
	return func(c *Client) {
		if version != "" {
			c.apiVersion = version
		}
	}
}

// WithExpiryHook registers the callback fired when the CRM reports an
// invalid session. The hook runs at most once per client lifetime.
func WithExpiryHook(hook func()) Option {
	return func(c *Client) {
		c.guard.hook = hook
	}
}

// Client issues CRM REST calls on behalf of the stored session. The client
// never retries or times out on its own; callers bound calls through
// context and drive retry from the returned errors.
type Client struct {
	store      session.Store
	http       Doer
	apiVersion string
	guard      sessionGuard
}

// New constructs a client reading credentials from store.
func New(store session.Store, options ...Option) (*Client, error) {
	if store == nil {
		return nil, fmt.Errorf("crm: store is required")
	}
	c := &Client{
		store:      store,
		http:       &http.Client{Timeout: 30 * time.Second},
		apiVersion: defaultAPIVersion,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// Describe fetches the portal layout metadata for object and returns the raw
// section payload ready for metadata.Mapper.
func (c *Client) Describe(ctx context.Context, object string) (metadata.RawSection, error) {
	if object == "" {
		return metadata.RawSection{}, fmt.Errorf("crm: object is required")
	}

	path := "/services/apexrest/memberportal/describe/" + url.PathEscape(object)
	body, err := c.call(ctx, http.MethodGet, path, nil)
	if err != nil {
		return metadata.RawSection{}, err
	}

	var raw metadata.RawSection
	if err := json.Unmarshal(body, &raw); err != nil {
		return metadata.RawSection{}, fmt.Errorf("crm: decode describe payload: %w", err)
	}
	return raw, nil
}

type queryResponse struct {
	TotalSize int               `json:"totalSize"`
	Done      bool              `json:"done"`
	Records   []json.RawMessage `json:"records"`
}

// Query runs a SOQL query and flattens each record into string-keyed rows.
// The CRM's record envelope (the attributes object) is dropped.
func (c *Client) Query(ctx context.Context, soql string) ([]rowset.Flat, error) {
	if strings.TrimSpace(soql) == "" {
		return nil, fmt.Errorf("crm: query is required")
	}

	path := "/services/data/" + c.apiVersion + "/query?q=" + url.QueryEscape(soql)
	body, err := c.call(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var resp queryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("crm: decode query payload: %w", err)
	}

	rows := make([]rowset.Flat, 0, len(resp.Records))
	for _, raw := range resp.Records {
		var record map[string]any
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, fmt.Errorf("crm: decode query record: %w", err)
		}
		delete(record, "attributes")

		flat := make(rowset.Flat, len(record))
		for key, value := range record {
			flat[key] = rowset.FormatValue(value)
		}
		rows = append(rows, flat)
	}
	return rows, nil
}

// UpdateRecord patches the named record with the given field values.
func (c *Client) UpdateRecord(ctx context.Context, object, id string, fields rowset.Flat) error {
	if object == "" || id == "" {
		return fmt.Errorf("crm: object and id are required")
	}
	if len(fields) == 0 {
		return nil
	}

	payload, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("crm: encode update payload: %w", err)
	}

	path := "/services/data/" + c.apiVersion + "/sobjects/" + url.PathEscape(object) + "/" + url.PathEscape(id)
	_, err = c.call(ctx, http.MethodPatch, path, payload)
	return err
}

// call performs one authenticated request and returns the response body.
// Every response passes the invalid-session check before anything else.
func (c *Client) call(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	creds, ok, err := c.store.Load()
	if err != nil {
		return nil, fmt.Errorf("crm: load session: %w", err)
	}
	if !ok || !creds.Valid() {
		return nil, ErrNoSession
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(creds.InstanceURL, "/")+path, body)
	if err != nil {
		return nil, fmt.Errorf("crm: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+creds.AccessToken)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("crm: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("crm: read response: %w", err)
	}

	if invalidSession(resp.StatusCode, raw) {
		c.guard.expire()
		return nil, APIError{Status: resp.StatusCode, Body: raw, Err: ErrSessionExpired}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, APIError{Status: resp.StatusCode, Body: raw}
	}
	return raw, nil
}
