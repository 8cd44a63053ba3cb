// Package session persists the portal's client-side credential state: the
// access/refresh tokens, the CRM instance URL and the cached user profile.
// There are no package-level globals; callers own a store instance and pass
// it to whatever issues HTTP calls.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Fixed storage keys. Browser clients persist the same state under the same
// names, so the keys are part of the contract rather than an implementation
// detail.
const (
	KeyAccessToken  = "portal.access_token"
	KeyRefreshToken = "portal.refresh_token"
	KeyInstanceURL  = "portal.instance_url"
	KeyProfile      = "portal.profile"
)

// Profile is the cached subset of the CRM userinfo response.
type Profile struct {
	UserID    string `json:"user_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	ContactID string `json:"contact_id,omitempty"`
}

// Credentials is the full persisted session state.
type Credentials struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token,omitempty"`
	InstanceURL  string  `json:"instance_url"`
	Profile      Profile `json:"profile,omitempty"`
}

// Valid reports whether the credentials can back an API call.
func (c Credentials) Valid() bool {
	return c.AccessToken != "" && c.InstanceURL != ""
}

// Store persists credentials. Clear is idempotent: clearing an already-empty
// store succeeds, which matters because two concurrent expiry signals both
// clear.
type Store interface {
	Load() (Credentials, bool, error)
	Save(creds Credentials) error
	Clear() error
}

// MemoryStore keeps credentials in process memory. Safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	creds Credentials
	set   bool
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() (Credentials, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds, s.set, nil
}

func (s *MemoryStore) Save(creds Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = creds
	s.set = true
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = Credentials{}
	s.set = false
	return nil
}

// FileStore persists credentials as JSON on disk, used by the CLI client.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore constructs a store writing to path. The parent directory is
// created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (Credentials, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Credentials{}, false, nil
	}
	if err != nil {
		return Credentials{}, false, fmt.Errorf("session: read store: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return Credentials{}, false, fmt.Errorf("session: decode store: %w", err)
	}
	return creds, creds.Valid(), nil
}

func (s *FileStore) Save(creds Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("session: create store dir: %w", err)
	}
	raw, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("session: encode store: %w", err)
	}
	// Tokens live here; keep the file private to the owner.
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("session: write store: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session: clear store: %w", err)
	}
	return nil
}
