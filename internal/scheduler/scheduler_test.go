package scheduler

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/clinova/clinic-ops/internal/session"
)

type fakeDirectory struct {
	patients map[string]PatientRef
	staff    map[string]StaffRef
}

func (f *fakeDirectory) PatientByID(ctx context.Context, id string) (*PatientRef, error) {
	p, ok := f.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	return &p, nil
}

func (f *fakeDirectory) StaffByID(ctx context.Context, id string) (*StaffRef, error) {
	s, ok := f.staff[id]
	if !ok {
		return nil, ErrStaffNotFound
	}
	return &s, nil
}

var (
	doctorIdent    = session.Identity{ID: "staff-2", Username: "doctor1", Role: session.RoleDoctor, DisplayName: "Dr. Michael Chen"}
	secretaryIdent = session.Identity{ID: "staff-4", Username: "secretary1", Role: session.RoleSecretary, DisplayName: "Lisa Thompson"}
	adminIdent     = session.Identity{ID: "staff-1", Username: "admin", Role: session.RoleAdmin, DisplayName: "Dr. Sarah Johnson"}
)

func newTestScheduler() *Scheduler {
	dir := &fakeDirectory{
		patients: map[string]PatientRef{
			"patient-1": {ID: "patient-1", Name: "John Smith"},
			"patient-2": {ID: "patient-2", Name: "Maria Garcia"},
		},
		staff: map[string]StaffRef{
			"staff-2": {ID: "staff-2", Role: session.RoleDoctor, Name: "Dr. Michael Chen"},
			"staff-4": {ID: "staff-4", Role: session.RoleSecretary, Name: "Lisa Thompson"},
		},
	}

	s := New(dir)
	next := 0
	s.newID = func() string {
		next++
		return fmt.Sprintf("appt-%d", next)
	}
	return s
}

func slot(h, m int) time.Time {
	return time.Date(2024, 7, 15, h, m, 0, 0, time.UTC)
}

func TestSelectSlot(t *testing.T) {
	s := newTestScheduler()
	start, end := slot(9, 0), slot(9, 30)

	t.Run("secretary gets a pending consultation draft", func(t *testing.T) {
		draft := s.SelectSlot(start, end, secretaryIdent)
		if draft == nil {
			t.Fatal("SelectSlot() = nil for secretary")
		}
		if draft.ID != "" {
			t.Errorf("draft.ID = %q, drafts have no id until saved", draft.ID)
		}
		if draft.Title != "New Appointment" || draft.Type != TypeConsultation || draft.Status != StatusPending {
			t.Errorf("draft = %+v", draft)
		}
		if draft.DoctorID != "" {
			t.Errorf("draft.DoctorID = %q for a secretary", draft.DoctorID)
		}
		if !draft.Start.Equal(start) || !draft.End.Equal(end) {
			t.Errorf("draft range = %v..%v, want %v..%v", draft.Start, draft.End, start, end)
		}
	})

	t.Run("doctor is pre-filled as the draft's doctor", func(t *testing.T) {
		draft := s.SelectSlot(start, end, doctorIdent)
		if draft == nil {
			t.Fatal("SelectSlot() = nil for doctor")
		}
		if draft.DoctorID != doctorIdent.ID {
			t.Errorf("draft.DoctorID = %q, want %q", draft.DoctorID, doctorIdent.ID)
		}
	})

	t.Run("admin gets nothing, silently", func(t *testing.T) {
		if draft := s.SelectSlot(start, end, adminIdent); draft != nil {
			t.Errorf("SelectSlot() = %+v for admin, want nil", draft)
		}
	})
}

func TestSaveInsertsWithFreshID(t *testing.T) {
	s := newTestScheduler()
	ctx := context.Background()

	draft := Appointment{
		Title:     "New Appointment",
		Start:     slot(9, 0),
		End:       slot(9, 30),
		PatientID: "patient-1",
		DoctorID:  "staff-2",
		Type:      TypeConsultation,
		Status:    StatusPending,
	}

	out, err := s.Save(ctx, secretaryIdent, draft, nil)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1", len(out))
	}

	got := out[0]
	if got.ID == "" {
		t.Error("inserted appointment has no id")
	}
	if got.Title != "John Smith - consultation" {
		t.Errorf("Title = %q, want %q", got.Title, "John Smith - consultation")
	}
	if got.Status != StatusPending {
		t.Errorf("Status = %q, want pending", got.Status)
	}
}

func TestSaveUpdatesInPlace(t *testing.T) {
	s := newTestScheduler()
	ctx := context.Background()

	collection := []Appointment{
		{ID: "appt-a", Title: "John Smith - consultation", Start: slot(9, 0), End: slot(9, 30), PatientID: "patient-1", Status: StatusPending, Type: TypeConsultation},
		{ID: "appt-b", Title: "Maria Garcia - checkup", Start: slot(10, 0), End: slot(10, 30), PatientID: "patient-2", Status: StatusConfirmed, Type: TypeCheckup},
	}

	edited := collection[0]
	edited.Status = StatusConfirmed

	out, err := s.Save(ctx, doctorIdent, edited, collection)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if len(out) != len(collection) {
		t.Fatalf("len(out) = %d, update must not grow the collection", len(out))
	}
	if out[0].ID != "appt-a" || out[0].Status != StatusConfirmed {
		t.Errorf("out[0] = %+v, want appt-a confirmed in place", out[0])
	}
	if out[1].ID != "appt-b" {
		t.Errorf("out[1].ID = %q, ordering must be preserved", out[1].ID)
	}
	if collection[0].Status != StatusPending {
		t.Error("Save() mutated the input collection")
	}
}

func TestSaveReinstatesCancelled(t *testing.T) {
	s := newTestScheduler()
	ctx := context.Background()

	collection := []Appointment{
		{ID: "appt-a", Title: "John Smith - consultation", Start: slot(9, 0), End: slot(9, 30), PatientID: "patient-1", Status: StatusCancelled, Type: TypeConsultation},
	}

	edited := collection[0]
	edited.Status = StatusConfirmed

	out, err := s.Save(ctx, secretaryIdent, edited, collection)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if out[0].Status != StatusConfirmed {
		t.Errorf("Status = %q, cancelled entries can be re-saved to any status", out[0].Status)
	}
}

func TestSaveValidation(t *testing.T) {
	s := newTestScheduler()
	ctx := context.Background()

	collection := []Appointment{
		{ID: "appt-a", Title: "John Smith - consultation", Start: slot(9, 0), End: slot(9, 30), Status: StatusPending, Type: TypeConsultation},
	}

	tests := []struct {
		name      string
		draft     Appointment
		wantField string
	}{
		{
			name:      "start equals end",
			draft:     Appointment{Start: slot(9, 0), End: slot(9, 0), Type: TypeConsultation, Status: StatusPending},
			wantField: "end",
		},
		{
			name:      "start after end",
			draft:     Appointment{Start: slot(10, 0), End: slot(9, 0), Type: TypeConsultation, Status: StatusPending},
			wantField: "end",
		},
		{
			name:      "dangling patient",
			draft:     Appointment{Start: slot(9, 0), End: slot(9, 30), PatientID: "patient-404", Type: TypeConsultation, Status: StatusPending},
			wantField: "patient_id",
		},
		{
			name:      "dangling doctor",
			draft:     Appointment{Start: slot(9, 0), End: slot(9, 30), DoctorID: "staff-404", Type: TypeConsultation, Status: StatusPending},
			wantField: "doctor_id",
		},
		{
			name:      "doctor reference is not a doctor",
			draft:     Appointment{Start: slot(9, 0), End: slot(9, 30), DoctorID: "staff-4", Type: TypeConsultation, Status: StatusPending},
			wantField: "doctor_id",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			out, err := s.Save(ctx, doctorIdent, test.draft, collection)

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Save() error = %v, want ValidationError", err)
			}
			if verr.Field != test.wantField {
				t.Errorf("ValidationError.Field = %q, want %q", verr.Field, test.wantField)
			}
			if len(out) != len(collection) || out[0].ID != "appt-a" {
				t.Error("rejected save changed the collection")
			}
		})
	}
}

func TestSaveDeniedRoleIsSilent(t *testing.T) {
	s := newTestScheduler()
	ctx := context.Background()

	collection := []Appointment{
		{ID: "appt-a", Title: "John Smith - consultation", Start: slot(9, 0), End: slot(9, 30), Status: StatusPending, Type: TypeConsultation},
	}

	// Even an invalid draft comes back clean: permission is checked first.
	draft := Appointment{Start: slot(10, 0), End: slot(9, 0)}

	out, err := s.Save(ctx, adminIdent, draft, collection)
	if err != nil {
		t.Fatalf("Save() error = %v for read-only role, want silent no-op", err)
	}
	if len(out) != 1 || out[0].ID != "appt-a" {
		t.Errorf("out = %+v, want the input collection unchanged", out)
	}
}

func TestDelete(t *testing.T) {
	s := newTestScheduler()

	collection := []Appointment{
		{ID: "appt-a", Status: StatusPending},
		{ID: "appt-b", Status: StatusConfirmed},
	}

	t.Run("removes the matching entry", func(t *testing.T) {
		out := s.Delete(doctorIdent, "appt-a", collection)
		if len(out) != 1 || out[0].ID != "appt-b" {
			t.Errorf("out = %+v", out)
		}
		if len(collection) != 2 {
			t.Error("Delete() mutated the input collection")
		}
	})

	t.Run("missing id is a no-op", func(t *testing.T) {
		out := s.Delete(secretaryIdent, "appt-404", collection)
		if len(out) != 2 {
			t.Errorf("len(out) = %d, want 2", len(out))
		}
	})

	t.Run("denied role is a no-op", func(t *testing.T) {
		out := s.Delete(adminIdent, "appt-a", collection)
		if len(out) != 2 {
			t.Errorf("len(out) = %d, admin must not delete", len(out))
		}
	})
}

func TestAllowed(t *testing.T) {
	actions := []Action{ActionSelectSlot, ActionSave, ActionDelete}

	for _, action := range actions {
		if !Allowed(session.RoleDoctor, action) {
			t.Errorf("Allowed(doctor, %s) = false", action)
		}
		if !Allowed(session.RoleSecretary, action) {
			t.Errorf("Allowed(secretary, %s) = false", action)
		}
		if Allowed(session.RoleAdmin, action) {
			t.Errorf("Allowed(admin, %s) = true, admin is read-only", action)
		}
		if Allowed(session.Role("intruder"), action) {
			t.Errorf("Allowed(unknown, %s) = true", action)
		}
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusConfirmed, "#10b981"},
		{StatusPending, "#f59e0b"},
		{StatusCancelled, "#ef4444"},
		{Status("unknown"), "#3174ad"},
		{Status(""), "#3174ad"},
	}

	for _, test := range tests {
		got := ClassifyStatus(Appointment{Status: test.status})
		if got != test.want {
			t.Errorf("ClassifyStatus(%q) = %q, want %q", test.status, got, test.want)
		}
	}
}
