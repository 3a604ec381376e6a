package session

import (
	"fmt"

	"go.uber.org/zap"
)

// Session is the client's login state: a bearer token under TokenKey, or
// nothing. It is passed explicitly to every component that needs it.
type Session struct {
	backend Backend
	logger  *zap.Logger
}

// New wraps backend. A nil logger is replaced by a no-op logger.
func New(backend Backend, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{backend: backend, logger: logger}
}

// Get returns the stored token. A read failure counts as logged out.
func (s *Session) Get() (string, bool) {
	token, ok, err := s.backend.Get(TokenKey)
	if err != nil {
		s.logger.Warn("reading session token failed", zap.Error(err))
		return "", false
	}
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// Set persists token. Setting an empty token clears the session.
func (s *Session) Set(token string) error {
	if token == "" {
		return s.Clear()
	}
	if err := s.backend.Set(TokenKey, token); err != nil {
		return fmt.Errorf("storing session token: %w", err)
	}
	return nil
}

// Clear removes the token. Clearing an empty session is a no-op.
func (s *Session) Clear() error {
	if err := s.backend.Delete(TokenKey); err != nil {
		return fmt.Errorf("clearing session token: %w", err)
	}
	return nil
}

// Authenticated reports whether a token is present.
func (s *Session) Authenticated() bool {
	_, ok := s.Get()
	return ok
}
