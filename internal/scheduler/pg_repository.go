package scheduler

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var patientID, doctorID *string

	err := row.Scan(
		&a.ID,
		&a.Title,
		&a.Start,
		&a.End,
		&patientID,
		&doctorID,
		&a.Room,
		&a.Type,
		&a.Status,
		&a.Notes,
	)
	if err != nil {
		return nil, err
	}

	if patientID != nil {
		a.PatientID = *patientID
	}
	if doctorID != nil {
		a.DoctorID = *doctorID
	}
	return &a, nil
}

func (r *PgRepository) ListAppointments(ctx context.Context) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, start_time, end_time, patient_id, doctor_id, room, type, status, notes
		FROM appointments
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// ReplaceAppointments writes the committed collection as a whole, preserving
// its order in the position column.
func (r *PgRepository) ReplaceAppointments(ctx context.Context, appts []Appointment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM appointments`); err != nil {
		return fmt.Errorf("clear appointments: %w", err)
	}

	for i, a := range appts {
		_, err := tx.Exec(ctx, `
			INSERT INTO appointments (id, title, start_time, end_time, patient_id, doctor_id, room, type, status, notes, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, a.ID, a.Title, a.Start, a.End,
			nullable(a.PatientID), nullable(a.DoctorID),
			a.Room, a.Type, a.Status, a.Notes, i)
		if err != nil {
			return fmt.Errorf("insert appointment %s: %w", a.ID, err)
		}
	}

	return tx.Commit(ctx)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
