package appointments

import "errors"

var (
	// ErrNotFound is returned when an appointment id has no record.
	ErrNotFound = errors.New("appointment not found")

	// ErrPastDate is returned when booking a date before today.
	ErrPastDate = errors.New("Cannot book appointments in the past")

	// ErrUnknownPatient is returned when the patient id has no record.
	ErrUnknownPatient = errors.New("patient not found")

	// ErrUnknownDentist is returned when the dentist id has no staff record.
	ErrUnknownDentist = errors.New("dentist not found")

	// ErrInvalidStatus is returned for status values outside the enum.
	ErrInvalidStatus = errors.New("invalid appointment status")
)
