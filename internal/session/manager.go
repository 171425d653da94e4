package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Manager owns the authenticated-identity lifecycle for one client session:
// credential check, token issuance, lazy expiry detection, and the role
// predicate every other component consults. It is an explicit dependency
// handed to its consumers, never package-global state.
type Manager struct {
	creds  CredentialStore
	tokens TokenStore
	ttl    time.Duration
	now    func() time.Time

	mu      sync.RWMutex
	current *Identity
}

func NewManager(creds CredentialStore, tokens TokenStore, ttl time.Duration) *Manager {
	return &Manager{
		creds:  creds,
		tokens: tokens,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Login authenticates a username/secret pair. On success it persists a fresh
// token plus identity snapshot and returns the identity with the credential
// hash stripped. Every failure path yields ErrInvalidCredentials.
func (m *Manager) Login(ctx context.Context, username, secret string) (Identity, error) {
	ident, err := m.creds.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			return Identity{}, ErrInvalidCredentials
		}
		return Identity{}, fmt.Errorf("look up credentials: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(ident.CredentialHash), []byte(secret)) != nil {
		return Identity{}, ErrInvalidCredentials
	}

	now := m.now()
	token, err := IssueToken(Session{
		IdentityID: ident.ID,
		Role:       ident.Role,
		IssuedAt:   now,
		ExpiresAt:  now.Add(m.ttl),
	})
	if err != nil {
		return Identity{}, fmt.Errorf("issue token: %w", err)
	}

	snapshot := ident.Sanitized()
	if err := m.tokens.Save(ctx, token, snapshot); err != nil {
		return Identity{}, fmt.Errorf("persist session: %w", err)
	}

	m.mu.Lock()
	m.current = &snapshot
	m.mu.Unlock()

	return snapshot, nil
}

// Logout clears the persisted session and current identity. Calling it while
// already logged out is a no-op.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()

	return m.tokens.Clear(ctx)
}

// IsAuthenticated decodes the stored token and checks expiry against the
// clock. Absent, malformed, and expired tokens all report false; the caller
// cannot tell which it was. Validity is recomputed on every call.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	token, _, err := m.tokens.Load(ctx)
	if err != nil {
		return false
	}
	s, err := DecodeToken(token)
	if err != nil {
		return false
	}
	return s.Valid(m.now())
}

// HasRole reports whether the current identity holds the given role. An
// unauthenticated session holds no role.
func (m *Manager) HasRole(role Role) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil && m.current.Role == role
}

// Current returns the identity loaded into this session, if any.
func (m *Manager) Current() (Identity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return Identity{}, false
	}
	return *m.current, true
}

// Restore rehydrates the current identity from the persisted snapshot on
// process start. It trusts what it reads: the secret is not re-checked and
// expiry is only observed later, by IsAuthenticated. With nothing stored the
// session stays anonymous.
func (m *Manager) Restore(ctx context.Context) error {
	_, snapshot, err := m.tokens.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrNoSession) || errors.Is(err, ErrSessionInvalid) {
			return nil
		}
		return fmt.Errorf("load session: %w", err)
	}
	if snapshot == nil {
		return nil
	}

	m.mu.Lock()
	m.current = snapshot
	m.mu.Unlock()
	return nil
}
