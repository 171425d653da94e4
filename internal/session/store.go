package session

import (
	"context"
	"errors"
)

var (
	ErrIdentityNotFound = errors.New("identity not found")
	ErrNoSession        = errors.New("no stored session")
	ErrSessionInvalid   = errors.New("session token invalid")

	// ErrInvalidCredentials is returned for every login failure. It never
	// distinguishes an unknown username from a wrong secret.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// CredentialStore looks up staff identities by exact username match.
// Implementations return ErrIdentityNotFound when no such user exists.
type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (*Identity, error)
}

// TokenStore persists the opaque session token together with a denormalized
// identity snapshot for fast reads. Load returns ErrNoSession when nothing is
// stored; Clear on an empty store is a no-op.
type TokenStore interface {
	Save(ctx context.Context, token string, snapshot Identity) error
	Load(ctx context.Context) (token string, snapshot *Identity, err error)
	Clear(ctx context.Context) error
}
