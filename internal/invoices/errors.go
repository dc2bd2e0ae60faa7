package invoices

import "errors"

var (
	ErrNotFound       = errors.New("invoice not found")
	ErrUnknownPatient = errors.New("patient not found")
	ErrInvalidStatus  = errors.New("invalid invoice status")
)
