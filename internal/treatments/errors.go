package treatments

import "errors"

var (
	ErrNotFound       = errors.New("treatment not found")
	ErrUnknownPatient = errors.New("patient not found")
	ErrUnknownDentist = errors.New("dentist not found")
	ErrInvalidStatus  = errors.New("invalid treatment status")
)
