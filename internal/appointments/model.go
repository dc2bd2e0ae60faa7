package appointments

import (
	"regexp"
	"strings"

	"github.com/dentalcenter/practice-api/internal/civil"
	"github.com/dentalcenter/practice-api/internal/validation"
)

// Status tracks an appointment through its lifecycle. Transitions are driven
// by explicit actions and are not checked for legality; the UI this serves
// only offers the forward actions.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no-show"
)

func (s Status) valid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Active reports whether the appointment still occupies the calendar.
// Completed, cancelled and no-show appointments are history.
func (s Status) Active() bool {
	return s == StatusScheduled || s == StatusConfirmed
}

// Appointment is a booked visit. PatientName and DentistName are
// denormalized display names stamped from the patient and staff records at
// write time; they are never re-derived at read time.
type Appointment struct {
	ID            string     `json:"id"`
	PatientID     string     `json:"patientId"`
	PatientName   string     `json:"patientName"`
	DentistID     string     `json:"dentistId"`
	DentistName   string     `json:"dentistName"`
	Date          civil.Date `json:"date"`
	Time          string     `json:"time"`
	Duration      int        `json:"duration"`
	Type          string     `json:"type"`
	Status        Status     `json:"status"`
	Notes         string     `json:"notes,omitempty"`
	TreatmentPlan string     `json:"treatmentPlan,omitempty"`
}

var timePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// BookRequest is the payload for creating or editing an appointment.
type BookRequest struct {
	PatientID     string     `json:"patientId"`
	DentistID     string     `json:"dentistId"`
	Date          civil.Date `json:"date"`
	Time          string     `json:"time"`
	Duration      int        `json:"duration"`
	Type          string     `json:"type"`
	Notes         string     `json:"notes"`
	TreatmentPlan string     `json:"treatmentPlan"`
}

// Validate applies the booking form's required-field checks. The past-date
// rule lives in the service, which knows what day it is.
func (r *BookRequest) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(r.PatientID) == "" {
		errs.Add("patientId", "Patient is required")
	}
	if strings.TrimSpace(r.DentistID) == "" {
		errs.Add("dentistId", "Dentist is required")
	}
	if r.Date.IsZero() {
		errs.Add("date", "Date is required")
	}
	if r.Time == "" {
		errs.Add("time", "Time is required")
	} else if !timePattern.MatchString(r.Time) {
		errs.Add("time", "Time must be HH:MM")
	}
	if strings.TrimSpace(r.Type) == "" {
		errs.Add("type", "Appointment type is required")
	}
	if r.Duration <= 0 {
		errs.Add("duration", "Duration must be positive")
	}
	return errs.AsError()
}

// ListFilter narrows List results.
type ListFilter struct {
	// Search matches case-insensitively against patient and dentist names
	// and the appointment type.
	Search      string
	Status      Status
	Date        *civil.Date
	DentistName string
}

func (f ListFilter) matches(a *Appointment) bool {
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.Date != nil && a.Date != *f.Date {
		return false
	}
	if f.DentistName != "" && a.DentistName != f.DentistName {
		return false
	}
	if f.Search == "" {
		return true
	}
	q := strings.ToLower(f.Search)
	for _, field := range []string{a.PatientName, a.DentistName, a.Type} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
