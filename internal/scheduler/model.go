package scheduler

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

type AppointmentType string

const (
	TypeConsultation AppointmentType = "consultation"
	TypeCheckup      AppointmentType = "checkup"
	TypeFollowUp     AppointmentType = "follow-up"
	TypeProcedure    AppointmentType = "procedure"
)

// Appointment is a scheduled time-boxed clinical event. PatientID and
// DoctorID are optional references into the directory; empty means unset.
type Appointment struct {
	ID        string
	Title     string
	Start     time.Time
	End       time.Time
	PatientID string
	DoctorID  string
	Room      string
	Type      AppointmentType
	Status    Status
	Notes     string
}

// Calendar display colors per status.
const (
	colorConfirmed = "#10b981"
	colorPending   = "#f59e0b"
	colorCancelled = "#ef4444"
	colorNeutral   = "#3174ad"
)

// ClassifyStatus maps an appointment's status to its display color. The
// mapping is total: unknown status values fall through to the neutral color,
// never an error.
func ClassifyStatus(a Appointment) string {
	switch a.Status {
	case StatusConfirmed:
		return colorConfirmed
	case StatusPending:
		return colorPending
	case StatusCancelled:
		return colorCancelled
	default:
		return colorNeutral
	}
}
