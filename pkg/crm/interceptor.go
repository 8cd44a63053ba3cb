package crm

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
)

// ErrSessionExpired marks responses rejected because the CRM no longer
// accepts the access token.
var ErrSessionExpired = fmt.Errorf("crm: session expired")

// APIError carries a non-2xx CRM response back to the caller.
type APIError struct {
	Status int
	Body   []byte
	Err    error
}

func (e APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("crm: status %d: %s", e.Status, e.Err)
	}
	return fmt.Sprintf("crm: status %d: %s", e.Status, http.StatusText(e.Status))
}

func (e APIError) Unwrap() error { return e.Err }

// StatusCode satisfies the HTTP guard contract used by the proxy components.
func (e APIError) StatusCode() int {
	if e.Status <= 0 {
		return http.StatusBadGateway
	}
	return e.Status
}

// sessionGuard fires the expiry hook exactly once. Concurrent in-flight
// requests can all observe the same expired session; only the first one
// reaches the hook.
type sessionGuard struct {
	once sync.Once
	hook func()
}

func (g *sessionGuard) expire() {
	g.once.Do(func() {
		if g.hook != nil {
			g.hook()
		}
	})
}

type apiMessage struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

// invalidSession reports whether a response means the session is dead:
// either a 401 status or the CRM's INVALID_SESSION_ID error payload, which
// some endpoints return with a 200-range status.
func invalidSession(status int, body []byte) bool {
	if status == http.StatusUnauthorized {
		return true
	}
	var messages []apiMessage
	if err := json.Unmarshal(body, &messages); err != nil {
		return false
	}
	for _, msg := range messages {
		if msg.ErrorCode == "INVALID_SESSION_ID" {
			return true
		}
	}
	return false
}
