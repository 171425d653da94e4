package api

import (
	"time"

	"github.com/clinova/clinic-ops/internal/directory"
	"github.com/clinova/clinic-ops/internal/scheduler"
	"github.com/clinova/clinic-ops/internal/session"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	ClientID string           `json:"client_id"`
	Identity IdentityResponse `json:"identity"`
}

type IdentityResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Role        string `json:"role"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

type SessionResponse struct {
	Identity    IdentityResponse `json:"identity"`
	CanSchedule bool             `json:"can_schedule"`
}

type DraftRequest struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type AppointmentRequest struct {
	ID        string    `json:"id,omitempty"`
	Title     string    `json:"title"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	PatientID string    `json:"patient_id,omitempty"`
	DoctorID  string    `json:"doctor_id,omitempty"`
	Room      string    `json:"room,omitempty"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
}

type AppointmentResponse struct {
	ID        string    `json:"id,omitempty"`
	Title     string    `json:"title"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	PatientID string    `json:"patient_id,omitempty"`
	DoctorID  string    `json:"doctor_id,omitempty"`
	Room      string    `json:"room,omitempty"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	Color     string    `json:"color"`
}

type CollectionResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

type PatientResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	DateOfBirth time.Time `json:"date_of_birth"`
}

type StaffResponse struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	Role        string  `json:"role"`
	Specialty   *string `json:"specialty,omitempty"`
	Email       string  `json:"email,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func toIdentityResponse(i session.Identity) IdentityResponse {
	return IdentityResponse{
		ID:          i.ID,
		Username:    i.Username,
		Role:        string(i.Role),
		DisplayName: i.DisplayName,
		Email:       i.Email,
		Phone:       i.Phone,
	}
}

func toAppointmentResponse(a scheduler.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:        a.ID,
		Title:     a.Title,
		Start:     a.Start,
		End:       a.End,
		PatientID: a.PatientID,
		DoctorID:  a.DoctorID,
		Room:      a.Room,
		Type:      string(a.Type),
		Status:    string(a.Status),
		Notes:     a.Notes,
		Color:     scheduler.ClassifyStatus(a),
	}
}

func toCollectionResponse(appts []scheduler.Appointment) CollectionResponse {
	out := CollectionResponse{Appointments: make([]AppointmentResponse, len(appts))}
	for i, a := range appts {
		out.Appointments[i] = toAppointmentResponse(a)
	}
	return out
}

func fromAppointmentRequest(req AppointmentRequest) scheduler.Appointment {
	return scheduler.Appointment{
		ID:        req.ID,
		Title:     req.Title,
		Start:     req.Start,
		End:       req.End,
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		Room:      req.Room,
		Type:      scheduler.AppointmentType(req.Type),
		Status:    scheduler.Status(req.Status),
		Notes:     req.Notes,
	}
}

func toPatientResponse(p directory.Patient) PatientResponse {
	return PatientResponse{
		ID:          p.ID,
		Name:        p.Name,
		Email:       p.Email,
		Phone:       p.Phone,
		DateOfBirth: p.DateOfBirth,
	}
}

func toStaffResponse(s directory.Staff) StaffResponse {
	return StaffResponse{
		ID:          s.ID,
		DisplayName: s.DisplayName,
		Role:        string(s.Role),
		Specialty:   s.Specialty,
		Email:       s.Email,
	}
}
