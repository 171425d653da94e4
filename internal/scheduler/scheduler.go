package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinova/clinic-ops/internal/session"
)

type Action string

const (
	ActionSelectSlot Action = "select_slot"
	ActionSave       Action = "save"
	ActionDelete     Action = "delete"
)

// rolePermissions is consulted once per mutation attempt. Admin is read-only
// in this subsystem: it simply has no row.
var rolePermissions = map[session.Role]map[Action]bool{
	session.RoleDoctor: {
		ActionSelectSlot: true,
		ActionSave:       true,
		ActionDelete:     true,
	},
	session.RoleSecretary: {
		ActionSelectSlot: true,
		ActionSave:       true,
		ActionDelete:     true,
	},
}

// Allowed reports whether a role may perform a scheduling action.
func Allowed(role session.Role, action Action) bool {
	return rolePermissions[role][action]
}

type PatientRef struct {
	ID   string
	Name string
}

type StaffRef struct {
	ID   string
	Role session.Role
	Name string
}

// Directory resolves patient and staff references on save. Implementations
// return ErrPatientNotFound / ErrStaffNotFound for dangling ids.
type Directory interface {
	PatientByID(ctx context.Context, id string) (*PatientRef, error)
	StaffByID(ctx context.Context, id string) (*StaffRef, error)
}

// Scheduler owns the appointment collection for the duration of a session:
// every write goes through it so the status state machine and role checks are
// enforced in one place. Mutations take a collection in and return a new one
// out; the caller commits the result as the new source of truth, so a change
// is either fully visible or not at all.
type Scheduler struct {
	directory Directory
	newID     func() string
}

func New(directory Directory) *Scheduler {
	return &Scheduler{
		directory: directory,
		newID:     uuid.NewString,
	}
}

// SelectSlot turns a selected calendar range into a draft appointment. For
// any role other than doctor or secretary this is a silent no-op: nil, no
// error. A doctor's own id is pre-filled as the draft's doctor. The draft has
// no id until saved.
func (s *Scheduler) SelectSlot(start, end time.Time, acting session.Identity) *Appointment {
	if !Allowed(acting.Role, ActionSelectSlot) {
		return nil
	}

	draft := &Appointment{
		Title:  "New Appointment",
		Start:  start,
		End:    end,
		Type:   TypeConsultation,
		Status: StatusPending,
	}
	if acting.Role == session.RoleDoctor {
		draft.DoctorID = acting.ID
	}
	return draft
}

// Save commits a draft into the collection. An id already present means
// update-in-place, preserving position; otherwise the entry is inserted with
// a freshly minted id. When the draft references a resolvable patient, the
// title is recomputed as "<patient name> - <type>" regardless of what the
// caller supplied.
//
// Start must be strictly before End; violations and dangling references
// reject the save with a ValidationError and the input collection is
// returned untouched. A caller without save permission gets the input back
// unchanged with no error.
func (s *Scheduler) Save(ctx context.Context, acting session.Identity, draft Appointment, collection []Appointment) ([]Appointment, error) {
	if !Allowed(acting.Role, ActionSave) {
		return collection, nil
	}

	if !draft.Start.Before(draft.End) {
		return collection, &ValidationError{Field: "end", Reason: "must be after start"}
	}

	if draft.DoctorID != "" {
		staff, err := s.directory.StaffByID(ctx, draft.DoctorID)
		if err != nil {
			if errors.Is(err, ErrStaffNotFound) {
				return collection, &ValidationError{Field: "doctor_id", Reason: "no such staff member"}
			}
			return collection, fmt.Errorf("resolve doctor: %w", err)
		}
		if staff.Role != session.RoleDoctor {
			return collection, &ValidationError{Field: "doctor_id", Reason: "referenced staff member is not a doctor"}
		}
	}

	if draft.PatientID != "" {
		patient, err := s.directory.PatientByID(ctx, draft.PatientID)
		if err != nil {
			if errors.Is(err, ErrPatientNotFound) {
				return collection, &ValidationError{Field: "patient_id", Reason: "no such patient"}
			}
			return collection, fmt.Errorf("resolve patient: %w", err)
		}
		draft.Title = patient.Name + " - " + string(draft.Type)
	}

	out := make([]Appointment, len(collection))
	copy(out, collection)

	if draft.ID != "" {
		for i := range out {
			if out[i].ID == draft.ID {
				out[i] = draft
				return out, nil
			}
		}
	}

	draft.ID = s.newID()
	return append(out, draft), nil
}

// Delete removes the entry with the given id. A missing id and a denied role
// both return the collection unchanged; neither is an error, which keeps the
// caller idempotent under retries.
func (s *Scheduler) Delete(acting session.Identity, id string, collection []Appointment) []Appointment {
	if !Allowed(acting.Role, ActionDelete) {
		return collection
	}

	out := make([]Appointment, 0, len(collection))
	for _, a := range collection {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}
