package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/storefront-mcp/internal/domain"
)

// CredentialStore is the in-memory backend for pending OTP codes.
// Entries are overwritten on re-issue and removed on successful verification;
// expired entries are never swept — expiry is checked by the verifier.
type CredentialStore struct {
	mu      sync.RWMutex
	pending map[string]domain.PendingOTP // keyed by email
}

func NewCredentialStore() *CredentialStore {
	return &CredentialStore{pending: make(map[string]domain.PendingOTP)}
}

func (s *CredentialStore) Put(ctx context.Context, p *domain.PendingOTP) error {
	s.mu.Lock()
	s.pending[p.Email] = *p
	s.mu.Unlock()
	return nil
}

func (s *CredentialStore) Get(ctx context.Context, email string) (*domain.PendingOTP, error) {
	s.mu.RLock()
	p, ok := s.pending[email]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("pending code not found: %w", domain.ErrNotFound)
	}
	return &p, nil
}

func (s *CredentialStore) Delete(ctx context.Context, email string) error {
	s.mu.Lock()
	delete(s.pending, email)
	s.mu.Unlock()
	return nil
}

// SessionStore is the in-memory backend for verified sessions.
// Sessions are immutable once stored; the gate deletes them lazily on expiry.
// Process restart clears all sessions.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session // keyed by token
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]domain.Session)}
}

func (s *SessionStore) Put(ctx context.Context, sess *domain.Session) error {
	s.mu.Lock()
	s.sessions[sess.Token] = *sess
	s.mu.Unlock()
	return nil
}

func (s *SessionStore) Get(ctx context.Context, token string) (*domain.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("session not found: %w", domain.ErrNotFound)
	}
	return &sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}
