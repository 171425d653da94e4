package session

import (
	"encoding/base64"
	"encoding/json"
	"time"
)

// Session is the decoded form of the opaque token: the time-bounded proof
// that an identity is currently authenticated.
//
// The token carries no signature or MAC. Any string that base64-decodes to
// well-formed JSON is accepted as-is, including a tampered expiry. This is a
// placeholder for a real authentication backend, not a production credential.
type Session struct {
	IdentityID string    `json:"identity_id"`
	Role       Role      `json:"role"`
	IssuedAt   time.Time `json:"issued_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Valid reports whether the session has not yet expired at the given instant.
func (s Session) Valid(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}

// IssueToken seals a session into its opaque string form.
func IssueToken(s Session) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// DecodeToken reverses IssueToken. Callers must treat any error as "no
// session"; a malformed token and an absent one are indistinguishable.
func DecodeToken(raw string) (Session, error) {
	b, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return Session{}, ErrSessionInvalid
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return Session{}, ErrSessionInvalid
	}
	return s, nil
}
