package directory

import (
	"context"
	"errors"
	"time"

	"github.com/clinova/clinic-ops/internal/session"
)

var (
	ErrStaffNotFound   = errors.New("staff member not found")
	ErrPatientNotFound = errors.New("patient not found")
)

type Staff struct {
	ID             string
	Username       string
	CredentialHash string
	Role           session.Role
	DisplayName    string
	Email          string
	Phone          string
	Specialty      *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Patient struct {
	ID          string
	Name        string
	Email       string
	Phone       string
	DateOfBirth time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Store is the read-only staff/patient directory. The scheduler uses it to
// resolve references; the session manager uses it as its credential store.
type Store interface {
	StaffByUsername(ctx context.Context, username string) (*Staff, error)
	StaffByID(ctx context.Context, id string) (*Staff, error)
	PatientByID(ctx context.Context, id string) (*Patient, error)
	ListPatients(ctx context.Context) ([]Patient, error)
	ListDoctors(ctx context.Context) ([]Staff, error)
}
