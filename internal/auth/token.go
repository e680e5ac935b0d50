// Package auth supplies API tokens to the HTTP transport.
package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/fivetwenty-io/dato-client/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrNoToken = errors.New("no API token available")
)

// TokenManager supplies the bearer token of each request.
type TokenManager interface {
	GetToken(ctx context.Context) (string, error)
	// RefreshToken is called once after a 401 before the request is replayed.
	RefreshToken(ctx context.Context) error
	SetToken(token string, expiresAt time.Time)
}

// Token is an API token. DatoCMS tokens do not expire unless ExpiresAt is set.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type,omitempty"`
	ExpiresAt   time.Time `json:"expires_at,omitempty"`
}

// Valid reports whether the token is usable, keeping a safety margin before expiry.
func (t *Token) Valid() bool {
	if t == nil || t.AccessToken == "" {
		return false
	}

	if t.ExpiresAt.IsZero() {
		return true
	}

	return time.Now().Add(constants.TokenExpirationBuffer).Before(t.ExpiresAt)
}

// TokenStore holds a token for concurrent readers and writers.
type TokenStore struct {
	mu    sync.RWMutex
	token *Token
}

// NewTokenStore creates an empty store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get returns the stored token or nil.
func (s *TokenStore) Get() *Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// Set replaces the stored token.
func (s *TokenStore) Set(token *Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
}

// Clear removes the stored token.
func (s *TokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = nil
}

// StaticTokenManager serves a fixed token.
type StaticTokenManager struct {
	store *TokenStore
}

// NewStaticTokenManager creates a manager for token. Surrounding whitespace is trimmed.
func NewStaticTokenManager(token string) *StaticTokenManager {
	store := NewTokenStore()
	if trimmed := strings.TrimSpace(token); trimmed != "" {
		store.Set(&Token{AccessToken: trimmed, TokenType: "bearer"})
	}

	return &StaticTokenManager{store: store}
}

// GetToken returns the token.
func (m *StaticTokenManager) GetToken(ctx context.Context) (string, error) {
	token := m.store.Get()
	if !token.Valid() {
		return "", ErrNoToken
	}

	return token.AccessToken, nil
}

// RefreshToken cannot obtain a new static token; the replayed request uses the same one.
func (m *StaticTokenManager) RefreshToken(ctx context.Context) error {
	if m.store.Get() == nil {
		return ErrNoToken
	}

	return nil
}

// SetToken replaces the token.
func (m *StaticTokenManager) SetToken(token string, expiresAt time.Time) {
	m.store.Set(&Token{AccessToken: token, TokenType: "bearer", ExpiresAt: expiresAt})
}
