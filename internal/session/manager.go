// Package session owns the operator's credential record. The record lives
// in exactly one of two stores: the durable store when the operator asked
// to be remembered, the session-scoped store otherwise.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/cms-console/internal/storage"
)

// ErrEmptyToken is returned by Login when the backend handed out no token.
var ErrEmptyToken = errors.New("session: empty token")

// Manager is the single source of truth for who is logged in.
type Manager struct {
	durable storage.Store
	scoped  storage.Store
	logger  *zap.Logger

	mu    sync.RWMutex
	state Credential
}

// NewManager builds a manager over the two stores. Call Initialize before use.
func NewManager(durable, scoped storage.Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{durable: durable, scoped: scoped, logger: logger}
}

// Initialize loads the credential left by a previous run. No network call is
// made; the record is trusted until an authenticated request fails.
func (m *Manager) Initialize(ctx context.Context) error {
	cred, err := m.Stored(ctx)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.state = cred
	m.mu.Unlock()
	return nil
}

// Stored reads the credential from the stores, durable first. A record that
// cannot be decoded or unsealed counts as logged out.
func (m *Manager) Stored(ctx context.Context) (Credential, error) {
	for _, s := range []storage.Store{m.durable, m.scoped} {
		raw, ok, err := s.Get(ctx, UserKey)
		if errors.Is(err, storage.ErrUnseal) {
			m.logger.Warn("ignoring credential sealed with another key", zap.Error(err))
			continue
		}
		if err != nil {
			return Credential{}, fmt.Errorf("read credential: %w", err)
		}
		if !ok {
			continue
		}
		cred, err := decodeCredential(raw)
		if err != nil {
			m.logger.Warn("discarding unreadable credential", zap.Error(err))
			return Credential{}, nil
		}
		return cred, nil
	}
	return Credential{}, nil
}

// Login records a new credential and makes it current immediately.
func (m *Manager) Login(ctx context.Context, token string, role Role, rememberMe bool) error {
	if token == "" {
		return ErrEmptyToken
	}
	cred := Credential{Token: token, Role: role}
	raw, err := cred.encode()
	if err != nil {
		return err
	}

	target, other := m.scoped, m.durable
	if rememberMe {
		target, other = m.durable, m.scoped
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := target.Set(ctx, UserKey, raw); err != nil {
		return fmt.Errorf("store credential: %w", err)
	}
	if err := other.Remove(ctx, UserKey); err != nil {
		// Leave neither store holding the new record while state is unchanged.
		if rbErr := target.Remove(ctx, UserKey); rbErr != nil {
			err = errors.Join(err, fmt.Errorf("roll back credential: %w", rbErr))
		}
		return fmt.Errorf("clear stale credential: %w", err)
	}
	m.state = cred
	m.logger.Info("logged in", zap.String("role", role.String()), zap.Bool("remember", rememberMe))
	return nil
}

// Logout removes the credential from both stores and resets state. State is
// reset even when a store fails.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = Credential{}
	errDurable := m.durable.Remove(ctx, UserKey)
	errScoped := m.scoped.Remove(ctx, UserKey)
	if err := errors.Join(errDurable, errScoped); err != nil {
		return fmt.Errorf("remove credential: %w", err)
	}
	m.logger.Info("logged out")
	return nil
}

// State returns a snapshot of the current credential.
func (m *Manager) State() Credential {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Authenticated reports whether a token is currently held.
func (m *Manager) Authenticated() bool {
	return m.State().Authenticated()
}
