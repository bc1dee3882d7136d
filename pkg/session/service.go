package session

import (
	"errors"

	"go.uber.org/zap"
)

// ErrEmptyToken is returned when SetAuthentication is called without a token.
var ErrEmptyToken = errors.New("authentication token is empty")

// Session is the derived view over the token store. It is computed at the
// moment it is queried and never cached, so it cannot go stale against the
// store.
type Session struct {
	Authenticated bool
	Provider      Provider
}

// Service is the sole authority for "is the caller authenticated" and the
// only component allowed to mutate the TokenStore. Handlers and the gateway
// adapter go through it; nothing else writes to the store.
type Service struct {
	store TokenStore
	log   *zap.SugaredLogger
}

func NewService(log *zap.SugaredLogger, store TokenStore) *Service {
	return &Service{store: store, log: log}
}

// SetAuthentication establishes a session from a freshly issued token. It is
// the single entry point for both the credential login path and the OAuth2
// redirect path.
func (s *Service) SetAuthentication(token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	if err := s.store.Set(token); err != nil {
		return err
	}
	s.log.Debugw("session established")
	return nil
}

// IsAuthenticated reports whether a token is present. This is a structural
// check only; validity (signature, expiry, revocation) is deferred to the
// backend on the next protected call.
func (s *Service) IsAuthenticated() bool {
	_, ok := s.store.Get()
	return ok
}

// Token exposes the stored token read-only, for attaching to outgoing
// gateway requests.
func (s *Service) Token() (string, bool) {
	return s.store.Get()
}

// Logout clears the persisted token. Safe to call when already logged out.
func (s *Service) Logout() error {
	if err := s.store.Clear(); err != nil {
		return err
	}
	s.log.Debugw("session cleared")
	return nil
}

// Current derives the session state, labelled with the provider the caller
// read from its route. An unknown label degrades to ProviderUnresolved; it
// never grants or denies anything by itself.
func (s *Service) Current(p Provider) Session {
	if !s.IsAuthenticated() {
		return Session{Authenticated: false, Provider: ProviderUnresolved}
	}
	if !p.Known() {
		p = ProviderUnresolved
	}
	return Session{Authenticated: true, Provider: p}
}
