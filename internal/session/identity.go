package session

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleDoctor    Role = "doctor"
	RoleSecretary Role = "secretary"
)

// Identity is an authenticated staff record. CredentialHash is only ever
// populated by the credential store; it must not leave this package.
type Identity struct {
	ID             string
	Username       string
	CredentialHash string
	Role           Role
	DisplayName    string
	Email          string
	Phone          string
}

// Sanitized returns a copy with the credential hash stripped.
func (i Identity) Sanitized() Identity {
	i.CredentialHash = ""
	return i
}
