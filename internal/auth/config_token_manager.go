package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Static errors for err113 compliance.
var (
	ErrNoConfigPersister = errors.New("no config persister configured")
	ErrNoTokenSource     = errors.New("no token source configured")
)

// ConfigPersister saves tokens back to the CLI configuration.
type ConfigPersister interface {
	UpdateAPIToken(project, token string) error
}

// TokenSource reads the current token of a project, e.g. from the config file.
type TokenSource func(project string) (string, error)

// ConfigTokenManager serves the token of a configured project. RefreshToken
// re-reads it from the source so that a token rotated with `dato login` in
// another shell is picked up, and SetToken persists through the persister.
type ConfigTokenManager struct {
	mutex     sync.RWMutex
	store     *TokenStore
	source    TokenSource
	persister ConfigPersister
	project   string
}

// NewConfigTokenManager creates a manager for project seeded with initialToken.
func NewConfigTokenManager(project, initialToken string, source TokenSource, persister ConfigPersister) *ConfigTokenManager {
	store := NewTokenStore()
	if initialToken != "" {
		store.Set(&Token{AccessToken: initialToken, TokenType: "bearer"})
	}

	return &ConfigTokenManager{
		store:     store,
		source:    source,
		persister: persister,
		project:   project,
	}
}

// GetToken returns the current token, loading it from the source when none is held.
func (m *ConfigTokenManager) GetToken(ctx context.Context) (string, error) {
	m.mutex.RLock()
	token := m.store.Get()
	m.mutex.RUnlock()

	if token.Valid() {
		return token.AccessToken, nil
	}

	err := m.RefreshToken(ctx)
	if err != nil {
		return "", err
	}

	token = m.store.Get()
	if !token.Valid() {
		return "", ErrNoToken
	}

	return token.AccessToken, nil
}

// RefreshToken reloads the token from the source.
func (m *ConfigTokenManager) RefreshToken(ctx context.Context) error {
	if m.source == nil {
		return ErrNoTokenSource
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	value, err := m.source(m.project)
	if err != nil {
		return fmt.Errorf("reloading token for project %s: %w", m.project, err)
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("%w for project %s", ErrNoToken, m.project)
	}

	m.store.Set(&Token{AccessToken: value, TokenType: "bearer"})

	return nil
}

// SetToken replaces the token and persists it.
func (m *ConfigTokenManager) SetToken(token string, expiresAt time.Time) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.store.Set(&Token{AccessToken: token, TokenType: "bearer", ExpiresAt: expiresAt})
	_ = m.persist(token)
}

// Project returns the project the manager serves.
func (m *ConfigTokenManager) Project() string {
	return m.project
}

func (m *ConfigTokenManager) persist(token string) error {
	if m.persister == nil {
		return ErrNoConfigPersister
	}

	err := m.persister.UpdateAPIToken(m.project, token)
	if err != nil {
		return fmt.Errorf("failed to update API token: %w", err)
	}

	return nil
}
