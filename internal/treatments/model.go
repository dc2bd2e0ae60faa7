package treatments

import (
	"strings"

	"github.com/dentalcenter/practice-api/internal/civil"
	"github.com/dentalcenter/practice-api/internal/validation"
)

// Status tracks a treatment plan through its lifecycle.
type Status string

const (
	StatusPlanned    Status = "planned"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

func (s Status) valid() bool {
	switch s {
	case StatusPlanned, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Treatment is a procedure performed or planned for a patient. Costs are in
// INR. Display names are stamped at write time, like appointments.
type Treatment struct {
	ID               string      `json:"id"`
	PatientID        string      `json:"patientId"`
	PatientName      string      `json:"patientName"`
	DentistID        string      `json:"dentistId"`
	DentistName      string      `json:"dentistName"`
	Date             civil.Date  `json:"date"`
	Procedure        string      `json:"procedure"`
	Description      string      `json:"description"`
	Cost             float64     `json:"cost"`
	Status           Status      `json:"status"`
	Notes            string      `json:"notes"`
	FollowUpRequired bool        `json:"followUpRequired"`
	FollowUpDate     *civil.Date `json:"followUpDate,omitempty"`
}

// UpsertTreatmentRequest is the payload for creating or editing a treatment.
type UpsertTreatmentRequest struct {
	PatientID        string      `json:"patientId"`
	DentistID        string      `json:"dentistId"`
	Date             civil.Date  `json:"date"`
	Procedure        string      `json:"procedure"`
	Description      string      `json:"description"`
	Cost             float64     `json:"cost"`
	Status           Status      `json:"status"`
	Notes            string      `json:"notes"`
	FollowUpRequired bool        `json:"followUpRequired"`
	FollowUpDate     *civil.Date `json:"followUpDate,omitempty"`
}

// Validate applies the treatment form's required-field checks. The follow-up
// date is not checked against the treatment date; the form never did.
func (r *UpsertTreatmentRequest) Validate() error {
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
	if strings.TrimSpace(r.Procedure) == "" {
		errs.Add("procedure", "Procedure is required")
	}
	if r.Cost < 0 {
		errs.Add("cost", "Cost cannot be negative")
	}
	if r.Status != "" && !r.Status.valid() {
		errs.Add("status", "Invalid status")
	}
	return errs.AsError()
}

// ListFilter narrows List results.
type ListFilter struct {
	Search      string
	Status      Status
	Date        *civil.Date
	DentistName string
}

func (f ListFilter) matches(t *Treatment) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Date != nil && t.Date != *f.Date {
		return false
	}
	if f.DentistName != "" && t.DentistName != f.DentistName {
		return false
	}
	if f.Search == "" {
		return true
	}
	q := strings.ToLower(f.Search)
	for _, field := range []string{t.PatientName, t.DentistName, t.Procedure} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
