package directory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgStore struct {
	pool *pgxpool.Pool
}

func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

func scanStaff(row pgx.Row) (*Staff, error) {
	var s Staff
	var specialty *string

	err := row.Scan(
		&s.ID,
		&s.Username,
		&s.CredentialHash,
		&s.Role,
		&s.DisplayName,
		&s.Email,
		&s.Phone,
		&specialty,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}

	s.Specialty = specialty
	return &s, nil
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Email,
		&p.Phone,
		&p.DateOfBirth,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}

	return &p, nil
}

const staffColumns = `id, username, credential_hash, role, display_name, email, phone, specialty, created_at, updated_at`

func (s *PgStore) StaffByUsername(ctx context.Context, username string) (*Staff, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+staffColumns+`
		FROM staff
		WHERE username = $1
	`, username)
	return scanStaff(row)
}

func (s *PgStore) StaffByID(ctx context.Context, id string) (*Staff, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+staffColumns+`
		FROM staff
		WHERE id = $1
	`, id)
	return scanStaff(row)
}

func (s *PgStore) PatientByID(ctx context.Context, id string) (*Patient, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, email, phone, date_of_birth, created_at, updated_at
		FROM patients
		WHERE id = $1
	`, id)
	return scanPatient(row)
}

func (s *PgStore) ListPatients(ctx context.Context) ([]Patient, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, email, phone, date_of_birth, created_at, updated_at
		FROM patients
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

func (s *PgStore) ListDoctors(ctx context.Context) ([]Staff, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+staffColumns+`
		FROM staff
		WHERE role = 'doctor'
		ORDER BY display_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Staff
	for rows.Next() {
		st, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *st)
	}
	return result, rows.Err()
}
