// Package session holds the current authenticated identity for the process.
//
// The [Store] is an explicit dependency passed to constructors rather than a
// package global. Exactly one identity is active at a time; a cleared store
// means the viewer is anonymous. Every Set/Clear bumps an epoch counter so
// that network responses resolved against a stale session can be recognized
// and discarded instead of applied.
package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/desertthunder/cinetx/internal/models"
	"github.com/desertthunder/cinetx/internal/shared"
)

// Identity is the authenticated actor: the opaque bearer token plus the
// profile the backend returned at login.
type Identity struct {
	Token string
	User  models.User
}

// Observer receives the new identity (nil after Clear) on every change.
type Observer func(*Identity)

// Store is the single source of truth for "who is logged in".
//
// Reads and writes are serialized with a mutex so the store is safe to share
// between the UI goroutine and in-flight request callbacks.
type Store struct {
	mu        sync.RWMutex
	identity  *Identity
	epoch     uint64
	observers []Observer
	tokenPath string
}

// NewStore creates a Store that persists the token at tokenPath.
// An empty tokenPath disables persistence (useful in tests).
func NewStore(tokenPath string) *Store {
	return &Store{tokenPath: tokenPath}
}

// Current returns the active identity, or nil when anonymous.
func (s *Store) Current() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// Token returns the active bearer token, or "" when anonymous.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return ""
	}
	return s.identity.Token
}

// ViewerID returns the active user's id, or "" when anonymous or when only
// a token was restored and the profile has not been fetched yet.
func (s *Store) ViewerID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return ""
	}
	return s.identity.User.ID
}

// Epoch returns the current session generation. Callers snapshot the epoch
// before issuing a request and compare on resolution; a mismatch means the
// session changed mid-flight and the result must be discarded.
func (s *Store) Epoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

// Set replaces the current identity, persists the token, and notifies observers.
func (s *Store) Set(identity Identity) error {
	s.mu.Lock()
	s.identity = &identity
	s.epoch++
	observers := append([]Observer(nil), s.observers...)
	current := s.identity
	s.mu.Unlock()

	for _, observe := range observers {
		observe(current)
	}

	return s.saveToken(identity.Token)
}

// Clear drops the current identity, deletes the persisted token, and
// notifies observers with nil.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.identity = nil
	s.epoch++
	observers := append([]Observer(nil), s.observers...)
	s.mu.Unlock()

	for _, observe := range observers {
		observe(nil)
	}

	return s.deleteToken()
}

// Subscribe registers an observer for identity changes. Observers are invoked
// synchronously after each Set/Clear with the latest value.
func (s *Store) Subscribe(observer Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observer)
}

// Restore loads a previously persisted token, if any. The profile is not
// persisted; callers re-fetch it from /api/auth/profile after a restore.
func (s *Store) Restore() (bool, error) {
	if s.tokenPath == "" {
		return false, nil
	}

	data, err := os.ReadFile(s.tokenPath)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return false, nil
	}

	s.mu.Lock()
	s.identity = &Identity{Token: token}
	s.epoch++
	observers := append([]Observer(nil), s.observers...)
	current := s.identity
	s.mu.Unlock()

	for _, observe := range observers {
		observe(current)
	}
	return true, nil
}

// RequireAuth returns ErrNotAuthenticated when the store is anonymous.
func (s *Store) RequireAuth() error {
	if s.Token() == "" {
		return shared.ErrNotAuthenticated
	}
	return nil
}

func (s *Store) saveToken(token string) error {
	if s.tokenPath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.tokenPath), 0700); err != nil {
		return err
	}
	return os.WriteFile(s.tokenPath, []byte(token), 0600)
}

func (s *Store) deleteToken() error {
	if s.tokenPath == "" {
		return nil
	}
	err := os.Remove(s.tokenPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
