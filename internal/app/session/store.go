// Package session provides the process-wide authentication state store.
package session

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/tunebox/tunebox/internal/domain/user"
	"github.com/tunebox/tunebox/internal/infra/backend"
)

// API is the slice of the backend client that the session store needs.
type API interface {
	Login(ctx context.Context, username, password string) (*user.User, error)
	Register(ctx context.Context, username, password, email string) (*user.User, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*user.User, error)
}

// Store holds the authenticated/unauthenticated flag and user identity.
// Process-wide singleton; mutated only through its own methods.
type Store struct {
	mu sync.RWMutex

	api API

	user          *user.User
	authenticated bool
	loading       bool
	err           string
}

// NewStore creates a session store. Call Probe to resolve the initial state
// from an existing session cookie.
func NewStore(api API) *Store {
	return &Store{api: api}
}

// Probe resolves authentication state from the current session cookie.
// Any failure, including 401, resolves to unauthenticated.
func (s *Store) Probe(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	u, err := s.api.Me(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		zlog.Debug().Msgf("session: probe resolved unauthenticated: %v", err)
		s.user = nil
		s.authenticated = false
		return
	}
	s.user = u
	s.authenticated = true
}

// Login authenticates with the backend. Returns true on success; on failure
// the store holds an error string and stays unauthenticated.
func (s *Store) Login(ctx context.Context, username, password string) bool {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	u, err := s.api.Login(ctx, username, password)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		zlog.Warn().Msgf("session: login failed: user=%s err=%v", username, err)
		s.user = nil
		s.authenticated = false
		s.err = failureMessage(err, "Login failed")
		return false
	}
	s.user = u
	s.authenticated = true
	return true
}

// Register creates an account and signs it in. Returns true on success.
func (s *Store) Register(ctx context.Context, username, password, email string) bool {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	u, err := s.api.Register(ctx, username, password, email)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		zlog.Warn().Msgf("session: registration failed: user=%s err=%v", username, err)
		s.user = nil
		s.authenticated = false
		s.err = failureMessage(err, "Registration failed")
		return false
	}
	s.user = u
	s.authenticated = true
	return true
}

// Logout invalidates the remote session. The local identity is cleared
// even when the remote call fails.
func (s *Store) Logout(ctx context.Context) {
	if err := s.api.Logout(ctx); err != nil {
		zlog.Warn().Msgf("session: logout request failed: %v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.authenticated = false
	s.loading = false
	s.err = ""
}

// IsAuthenticated reports whether a user is signed in.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// User returns the signed-in user, or nil.
func (s *Store) User() *user.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Loading reports whether a probe or auth call is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the last auth error message, or "".
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// ClearError clears the stored error message.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
}

// failureMessage prefers the server-provided message over the fallback.
func failureMessage(err error, fallback string) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
