package patients

import (
	"regexp"
	"strings"

	"github.com/dentalcenter/practice-api/internal/civil"
	"github.com/dentalcenter/practice-api/internal/validation"
)

// EmergencyContact is embedded in a patient record.
type EmergencyContact struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

// Patient is a practice patient record.
type Patient struct {
	ID               string           `json:"id"`
	FirstName        string           `json:"firstName"`
	LastName         string           `json:"lastName"`
	Email            string           `json:"email"`
	Phone            string           `json:"phone"`
	DateOfBirth      civil.Date       `json:"dateOfBirth"`
	Address          string           `json:"address"`
	EmergencyContact EmergencyContact `json:"emergencyContact"`
	MedicalHistory   []string         `json:"medicalHistory"`
	Allergies        []string         `json:"allergies"`
	CreatedAt        civil.Date       `json:"createdAt"`
	LastVisit        *civil.Date      `json:"lastVisit,omitempty"`
}

// FullName returns the display name stamped onto records that reference this
// patient.
func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// UpsertPatientRequest is the payload for creating or editing a patient. It
// deliberately excludes id, createdAt and lastVisit: edits never touch them.
type UpsertPatientRequest struct {
	FirstName        string           `json:"firstName"`
	LastName         string           `json:"lastName"`
	Email            string           `json:"email"`
	Phone            string           `json:"phone"`
	DateOfBirth      civil.Date       `json:"dateOfBirth"`
	Address          string           `json:"address"`
	EmergencyContact EmergencyContact `json:"emergencyContact"`
	MedicalHistory   []string         `json:"medicalHistory"`
	Allergies        []string         `json:"allergies"`
}

// Validate applies the patient form's required-field and format checks.
func (r *UpsertPatientRequest) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(r.FirstName) == "" {
		errs.Add("firstName", "First name is required")
	}
	if strings.TrimSpace(r.LastName) == "" {
		errs.Add("lastName", "Last name is required")
	}
	if strings.TrimSpace(r.Email) == "" {
		errs.Add("email", "Email is required")
	} else if !emailPattern.MatchString(r.Email) {
		errs.Add("email", "Email is invalid")
	}
	if strings.TrimSpace(r.Phone) == "" {
		errs.Add("phone", "Phone number is required")
	}
	if r.DateOfBirth.IsZero() {
		errs.Add("dateOfBirth", "Date of birth is required")
	}
	return errs.AsError()
}

// ListFilter narrows List results.
type ListFilter struct {
	// Search matches case-insensitively against name, email and phone.
	Search string
}

func (f ListFilter) matches(p *Patient) bool {
	if f.Search == "" {
		return true
	}
	q := strings.ToLower(f.Search)
	for _, field := range []string{p.FullName(), p.Email, p.Phone} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
