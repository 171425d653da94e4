package scheduler

import "context"

// Repository is the persistence boundary the presentation layer commits
// scheduler results to. The collection is read whole and written whole:
// last write wins, with no conflict detection across concurrent writers.
type Repository interface {
	ListAppointments(ctx context.Context) ([]Appointment, error)
	ReplaceAppointments(ctx context.Context, appts []Appointment) error
}
