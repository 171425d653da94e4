package directory

import (
	"context"
	"errors"

	"github.com/clinova/clinic-ops/internal/scheduler"
	"github.com/clinova/clinic-ops/internal/session"
)

// Credentials adapts the staff table to the session manager's lookup
// contract. The credential hash stays attached; the manager strips it before
// the identity leaves the session package.
type Credentials struct {
	store Store
}

func NewCredentials(store Store) *Credentials {
	return &Credentials{store: store}
}

func (c *Credentials) FindByUsername(ctx context.Context, username string) (*session.Identity, error) {
	staff, err := c.store.StaffByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrStaffNotFound) {
			return nil, session.ErrIdentityNotFound
		}
		return nil, err
	}
	ident := staffIdentity(staff)
	return &ident, nil
}

func staffIdentity(s *Staff) session.Identity {
	return session.Identity{
		ID:             s.ID,
		Username:       s.Username,
		CredentialHash: s.CredentialHash,
		Role:           s.Role,
		DisplayName:    s.DisplayName,
		Email:          s.Email,
		Phone:          s.Phone,
	}
}

// Resolver adapts the directory to the scheduler's reference lookups.
type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

func (r *Resolver) PatientByID(ctx context.Context, id string) (*scheduler.PatientRef, error) {
	p, err := r.store.PatientByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return nil, scheduler.ErrPatientNotFound
		}
		return nil, err
	}
	return &scheduler.PatientRef{ID: p.ID, Name: p.Name}, nil
}

func (r *Resolver) StaffByID(ctx context.Context, id string) (*scheduler.StaffRef, error) {
	s, err := r.store.StaffByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrStaffNotFound) {
			return nil, scheduler.ErrStaffNotFound
		}
		return nil, err
	}
	return &scheduler.StaffRef{ID: s.ID, Role: s.Role, Name: s.DisplayName}, nil
}
