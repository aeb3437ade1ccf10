// Package session owns the authentication token: the one process-wide cell
// every request reads and every login/logout mutates.
package session

import (
	"sync"
	"time"

	"github.com/GabrielTrindade31/Projeto-vitoriacestas-Frontend-sub000/internal/port"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// DefaultKey is the durable storage key holding the token.
const DefaultKey = "auth_token"

// Listener is told the new authenticated state after each flip.
type Listener func(authenticated bool)

// Session holds the current token and notifies listeners when the
// authenticated state flips. Listeners run synchronously inside SetToken and
// must not call SetToken themselves.
type Session struct {
	mu    sync.RWMutex
	token string

	// serializes SetToken so listeners observe flips in order
	setMu     sync.Mutex
	listeners []Listener

	store  port.KeyValueStore
	key    string
	logger *zap.Logger
}

// New creates a session backed by store under key.
func New(store port.KeyValueStore, key string, logger *zap.Logger) *Session {
	if key == "" {
		key = DefaultKey
	}
	return &Session{store: store, key: key, logger: logger}
}

// Restore loads a persisted token without notifying listeners. Call it once
// at startup, before subscribing.
func (s *Session) Restore() error {
	v, ok, err := s.store.Get(s.key)
	if err != nil {
		return err
	}
	if ok {
		s.mu.Lock()
		s.token = v
		s.mu.Unlock()
		s.logger.Info("session restored from storage")
	}
	return nil
}

// Subscribe registers l for authenticated-state flips.
func (s *Session) Subscribe(l Listener) {
	s.setMu.Lock()
	defer s.setMu.Unlock()
	s.listeners = append(s.listeners, l)
}

// SetToken persists and holds v; an empty v clears both. Listeners run
// before SetToken returns, only when the authenticated state changed. A
// storage failure is returned but the in-memory state still changes.
func (s *Session) SetToken(v string) error {
	s.setMu.Lock()
	defer s.setMu.Unlock()

	var storeErr error
	if v != "" {
		storeErr = s.store.Set(s.key, v)
	} else {
		storeErr = s.store.Delete(s.key)
	}
	if storeErr != nil {
		s.logger.Warn("session: durable storage failed", zap.Error(storeErr))
	}

	s.mu.Lock()
	was := s.token != ""
	s.token = v
	s.mu.Unlock()

	now := v != ""
	if was != now {
		s.logger.Info("session: authentication changed", zap.Bool("authenticated", now))
		for _, l := range s.listeners {
			l(now)
		}
	}
	return storeErr
}

// Token returns the current token, empty when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsAuthenticated reports token presence.
func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

// Claims is the display-only view of a JWT token.
type Claims struct {
	Subject   string     `json:"sub,omitempty"`
	Email     string     `json:"email,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Claims decodes the token payload without verifying its signature; the
// backend is the one that verifies. Opaque tokens yield empty claims.
func (s *Session) Claims() Claims {
	tok := s.Token()
	if tok == "" {
		return Claims{}
	}

	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, mc); err != nil {
		return Claims{}
	}

	var c Claims
	c.Subject, _ = mc.GetSubject()
	if email, ok := mc["email"].(string); ok {
		c.Email = email
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		c.ExpiresAt = &t
	}
	return c
}
