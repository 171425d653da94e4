package scheduler

import (
	"errors"
	"fmt"
)

var (
	ErrPatientNotFound = errors.New("patient not found")
	ErrStaffNotFound   = errors.New("staff member not found")
)

// ValidationError rejects a save atomically: nothing partial is written and
// the caller gets enough detail to highlight the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
