package staff

import (
	"regexp"
	"strings"

	"github.com/dentalcenter/practice-api/internal/civil"
	"github.com/dentalcenter/practice-api/internal/validation"
)

// Role is a staff member's job function.
type Role string

const (
	RoleDentist      Role = "dentist"
	RoleHygienist    Role = "hygienist"
	RoleAssistant    Role = "assistant"
	RoleReceptionist Role = "receptionist"
	RoleAdmin        Role = "admin"
)

func (r Role) valid() bool {
	switch r {
	case RoleDentist, RoleHygienist, RoleAssistant, RoleReceptionist, RoleAdmin:
		return true
	}
	return false
}

// Licensed reports whether the role requires a license and specialization.
func (r Role) Licensed() bool {
	return r == RoleDentist || r == RoleHygienist
}

// Status marks whether a staff member is currently employed.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Member is a staff record.
type Member struct {
	ID             string     `json:"id"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	Role           Role       `json:"role"`
	Specialization string     `json:"specialization,omitempty"`
	LicenseNumber  string     `json:"licenseNumber,omitempty"`
	HireDate       civil.Date `json:"hireDate"`
	Status         Status     `json:"status"`
}

// FullName returns the display name stamped onto records that reference this
// staff member.
func (m *Member) FullName() string {
	return m.FirstName + " " + m.LastName
}

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// UpsertMemberRequest is the payload for creating or editing a staff member.
type UpsertMemberRequest struct {
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	Role           Role       `json:"role"`
	Specialization string     `json:"specialization"`
	LicenseNumber  string     `json:"licenseNumber"`
	HireDate       civil.Date `json:"hireDate"`
	Status         Status     `json:"status"`
}

// Validate applies the staff form's checks. License number and
// specialization are required only for licensed roles.
func (r *UpsertMemberRequest) Validate() error {
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
	if !r.Role.valid() {
		errs.Add("role", "Role is required")
	}
	if r.HireDate.IsZero() {
		errs.Add("hireDate", "Hire date is required")
	}
	if r.Status != StatusActive && r.Status != StatusInactive {
		errs.Add("status", "Status is required")
	}
	if r.Role.Licensed() {
		if strings.TrimSpace(r.Specialization) == "" {
			errs.Add("specialization", "Specialization is required for this role")
		}
		if strings.TrimSpace(r.LicenseNumber) == "" {
			errs.Add("licenseNumber", "License number is required for this role")
		}
	}
	return errs.AsError()
}

// ListFilter narrows List results.
type ListFilter struct {
	Search string
	Role   Role
	Status Status
}

func (f ListFilter) matches(m *Member) bool {
	if f.Role != "" && m.Role != f.Role {
		return false
	}
	if f.Status != "" && m.Status != f.Status {
		return false
	}
	if f.Search == "" {
		return true
	}
	q := strings.ToLower(f.Search)
	for _, field := range []string{m.FullName(), m.Email, m.Specialization} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
