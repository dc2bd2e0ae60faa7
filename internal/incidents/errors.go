package incidents

import "errors"

var (
	ErrNotFound       = errors.New("incident not found")
	ErrFileNotFound   = errors.New("incident file not found")
	ErrUnknownPatient = errors.New("patient not found")
	ErrUnknownDentist = errors.New("dentist not found")
	ErrInvalidStatus  = errors.New("invalid incident status")
)
