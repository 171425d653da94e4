package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinova/clinic-ops/internal/db"
	"github.com/clinova/clinic-ops/internal/scheduler"
)

// Demo accounts the simulator and the frontend mocks expect to exist.
type staffSeed struct {
	Username    string
	Password    string
	Role        string
	DisplayName string
	Email       string
	Phone       string
	Specialty   string
}

var demoStaff = []staffSeed{
	{"admin", "admin123", "admin", "Dr. Sarah Johnson", "admin@clinic.example", "555-0100", ""},
	{"doctor1", "doctor123", "doctor", "Dr. Michael Chen", "mchen@clinic.example", "555-0101", "Cardiology"},
	{"doctor2", "doctor123", "doctor", "Dr. Emily Rodriguez", "erodriguez@clinic.example", "555-0102", "Dermatology"},
	{"secretary1", "secretary123", "secretary", "Lisa Thompson", "lthompson@clinic.example", "555-0103", ""},
}

type patientSeed struct {
	Name        string
	Email       string
	Phone       string
	DateOfBirth time.Time
}

var demoPatients = []patientSeed{
	{"John Smith", "john.smith@example.com", "555-0201", time.Date(1985, 3, 12, 0, 0, 0, 0, time.UTC)},
	{"Maria Garcia", "maria.garcia@example.com", "555-0202", time.Date(1992, 7, 4, 0, 0, 0, 0, time.UTC)},
	{"Robert Johnson", "robert.johnson@example.com", "555-0203", time.Date(1978, 11, 23, 0, 0, 0, 0, time.UTC)},
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	staffIDs, err := seedStaff(context.Background(), pool)
	if err != nil {
		log.Fatalf("seed staff: %v", err)
	}
	patientIDs, err := seedPatients(context.Background(), pool, 200)
	if err != nil {
		log.Fatalf("seed patients: %v", err)
	}
	if err := seedAppointments(context.Background(), pool, staffIDs, patientIDs); err != nil {
		log.Fatalf("seed appointments: %v", err)
	}

	log.Println("seed complete")
}

func seedStaff(ctx context.Context, pool *pgxpool.Pool) (map[string]uuid.UUID, error) {
	log.Printf("seeding %d staff accounts", len(demoStaff))

	ids := make(map[string]uuid.UUID, len(demoStaff))

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	for _, s := range demoStaff {
		hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}

		id := uuid.New()
		var specialty *string
		if s.Specialty != "" {
			specialty = &s.Specialty
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO staff (id, username, credential_hash, role, display_name, email, phone, specialty, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		`, id, s.Username, string(hash), s.Role, s.DisplayName, s.Email, s.Phone, specialty)
		if err != nil {
			return nil, err
		}
		ids[s.Username] = id
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Println("staff seeded")
	return ids, nil
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, extras int) ([]uuid.UUID, error) {
	log.Printf("seeding %d demo patients plus %d generated", len(demoPatients), extras)

	var ids []uuid.UUID

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	for _, p := range demoPatients {
		id := uuid.New()
		_, err := tx.Exec(ctx, `
			INSERT INTO patients (id, name, email, phone, date_of_birth, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, now(), now())
		`, id, p.Name, p.Email, p.Phone, p.DateOfBirth)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	for i := 0; i < extras; i++ {
		id := uuid.New()
		dob := gofakeit.DateRange(
			time.Date(1940, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC),
		)
		_, err := tx.Exec(ctx, `
			INSERT INTO patients (id, name, email, phone, date_of_birth, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, now(), now())
		`, id, gofakeit.Name(), gofakeit.Email(), gofakeit.Phone(), dob)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Println("patients seeded")
	return ids, nil
}

func seedAppointments(ctx context.Context, pool *pgxpool.Pool, staffIDs map[string]uuid.UUID, patientIDs []uuid.UUID) error {
	if len(patientIDs) < len(demoPatients) {
		log.Println("not enough patients, skipping appointment seed")
		return nil
	}

	today := time.Now().Truncate(24 * time.Hour)
	at := func(days, hour, min int) time.Time {
		return today.AddDate(0, 0, days).Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
	}

	type apptSeed struct {
		Title     string
		Start     time.Time
		End       time.Time
		PatientID uuid.UUID
		DoctorID  uuid.UUID
		Room      string
		Type      scheduler.AppointmentType
		Status    scheduler.Status
		Notes     string
	}

	seeds := []apptSeed{
		{
			Title:     "John Smith - consultation",
			Start:     at(1, 9, 0),
			End:       at(1, 9, 30),
			PatientID: patientIDs[0],
			DoctorID:  staffIDs["doctor1"],
			Room:      "101",
			Type:      scheduler.TypeConsultation,
			Status:    scheduler.StatusConfirmed,
			Notes:     "Annual cardiology review.",
		},
		{
			Title:     "Maria Garcia - checkup",
			Start:     at(1, 10, 0),
			End:       at(1, 10, 30),
			PatientID: patientIDs[1],
			DoctorID:  staffIDs["doctor2"],
			Room:      "102",
			Type:      scheduler.TypeCheckup,
			Status:    scheduler.StatusPending,
		},
		{
			Title:     "Robert Johnson - follow-up",
			Start:     at(2, 14, 0),
			End:       at(2, 14, 45),
			PatientID: patientIDs[2],
			DoctorID:  staffIDs["doctor1"],
			Room:      "101",
			Type:      scheduler.TypeFollowUp,
			Status:    scheduler.StatusCancelled,
			Notes:     "Patient asked to reschedule.",
		},
	}

	log.Printf("seeding %d appointments", len(seeds))

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i, a := range seeds {
		_, err := tx.Exec(ctx, `
			INSERT INTO appointments (id, title, start_time, end_time, patient_id, doctor_id, room, type, status, notes, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, uuid.New(), a.Title, a.Start, a.End, a.PatientID, a.DoctorID, a.Room, string(a.Type), string(a.Status), a.Notes, i)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("appointments seeded")
	return nil
}
