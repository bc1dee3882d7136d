package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zalando/go-keyring"
)

// AccessTokenKey is the fixed identifier under which the bearer token is
// persisted. It is the only auth-related key this process ever stores.
const AccessTokenKey = "access_token"

// KeyringService is the service name used for keychain-backed storage.
const KeyringService = "multiauth-portal"

// TokenStore persists zero-or-one bearer token across process restarts.
//
// Get fails closed: an empty or unreadable store reports absent rather than
// an error. Clear is idempotent. Only the session Service may call Set and
// Clear; everything else treats the store as read-only.
type TokenStore interface {
	Set(token string) error
	Get() (string, bool)
	Clear() error
}

// FileTokenStore keeps the raw token string in a single file under the user
// config dir, mode 0600.
type FileTokenStore struct {
	Path string
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{Path: path}
}

func (s *FileTokenStore) Set(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("failed to create token dir: %w", err)
	}
	return os.WriteFile(s.Path, []byte(token), 0o600)
}

func (s *FileTokenStore) Get() (string, bool) {
	content, err := os.ReadFile(s.Path)
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(string(content))
	if token == "" {
		return "", false
	}
	return token, true
}

func (s *FileTokenStore) Clear() error {
	if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

// KeyringTokenStore keeps the token in the OS keychain.
type KeyringTokenStore struct {
	Service string
}

func NewKeyringTokenStore() *KeyringTokenStore {
	return &KeyringTokenStore{Service: KeyringService}
}

func (s *KeyringTokenStore) Set(token string) error {
	return keyring.Set(s.service(), AccessTokenKey, token)
}

func (s *KeyringTokenStore) Get() (string, bool) {
	token, err := keyring.Get(s.service(), AccessTokenKey)
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}

func (s *KeyringTokenStore) Clear() error {
	err := keyring.Delete(s.service(), AccessTokenKey)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete keychain entry: %w", err)
	}
	return nil
}

func (s *KeyringTokenStore) service() string {
	if s.Service != "" {
		return s.Service
	}
	return KeyringService
}

// MemoryTokenStore is an in-memory TokenStore for tests and ephemeral runs.
type MemoryTokenStore struct {
	mu    sync.RWMutex
	token string
	set   bool
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.set = true
	return nil
}

func (s *MemoryTokenStore) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set || s.token == "" {
		return "", false
	}
	return s.token, true
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.set = false
	return nil
}
