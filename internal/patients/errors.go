package patients

import "errors"

var (
	// ErrNotFound is returned when a patient id has no record.
	ErrNotFound = errors.New("patient not found")

	// ErrReferenced is returned when deleting a patient that still has
	// scheduled or confirmed appointments.
	ErrReferenced = errors.New("patient has upcoming appointments and cannot be deleted")
)
