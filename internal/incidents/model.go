package incidents

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/dentalcenter/practice-api/internal/civil"
	"github.com/dentalcenter/practice-api/internal/validation"
)

// Category classifies the care event that triggered the incident.
type Category string

const (
	CategoryTreatment    Category = "treatment"
	CategoryConsultation Category = "consultation"
	CategoryEmergency    Category = "emergency"
	CategoryFollowUp     Category = "follow-up"
	CategoryPreventive   Category = "preventive"
)

func (c Category) valid() bool {
	switch c {
	case CategoryTreatment, CategoryConsultation, CategoryEmergency, CategoryFollowUp, CategoryPreventive:
		return true
	}
	return false
}

// Severity grades the clinical impact.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

func (s Severity) valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Priority orders the work queue independently of severity.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Status is the incident workflow state.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in-progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

func (s Status) valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// FileType labels an attachment for display.
type FileType string

const (
	FileTypeInvoice  FileType = "invoice"
	FileTypeImage    FileType = "image"
	FileTypeDocument FileType = "document"
	FileTypeXRay     FileType = "xray"
	FileTypeReport   FileType = "report"
)

// InferFileType derives a display type from the file name. PDFs named like
// invoices are labelled invoice; everything unrecognised is a document.
func InferFileType(fileName string) FileType {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	switch ext {
	case "jpg", "jpeg", "png", "gif":
		return FileTypeImage
	case "pdf":
		if strings.Contains(strings.ToLower(fileName), "invoice") {
			return FileTypeInvoice
		}
		return FileTypeDocument
	default:
		return FileTypeDocument
	}
}

// IncidentFile describes an uploaded attachment. BlobKey locates the bytes
// in the blob store; it is not exposed to clients.
type IncidentFile struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Type       FileType  `json:"type"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
	BlobKey    string    `json:"-"`
}

// Incident is a patient-care event record: emergencies, complications and
// their follow-up. The richest aggregate in the system.
type Incident struct {
	ID                  string         `json:"id"`
	PatientID           string         `json:"patientId"`
	PatientName         string         `json:"patientName"`
	AppointmentID       string         `json:"appointmentId,omitempty"`
	Title               string         `json:"title"`
	Description         string         `json:"description"`
	Category            Category       `json:"category"`
	Severity            Severity       `json:"severity"`
	Priority            Priority       `json:"priority"`
	Status              Status         `json:"status"`
	DentistID           string         `json:"dentistId"`
	DentistName         string         `json:"dentistName"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
	ResolvedAt          *time.Time     `json:"resolvedAt,omitempty"`
	Cost                float64        `json:"cost"`
	Treatment           string         `json:"treatment,omitempty"`
	NextAppointmentDate *civil.Date    `json:"nextAppointmentDate,omitempty"`
	Files               []IncidentFile `json:"files"`
	Notes               string         `json:"notes"`
	FollowUpRequired    bool           `json:"followUpRequired"`
}

// UpsertIncidentRequest is the payload for creating or editing an incident.
// Files are managed through the dedicated upload endpoints, never here.
type UpsertIncidentRequest struct {
	PatientID           string      `json:"patientId"`
	AppointmentID       string      `json:"appointmentId,omitempty"`
	Title               string      `json:"title"`
	Description         string      `json:"description"`
	Category            Category    `json:"category"`
	Severity            Severity    `json:"severity"`
	Priority            Priority    `json:"priority"`
	Status              Status      `json:"status"`
	DentistID           string      `json:"dentistId"`
	Cost                float64     `json:"cost"`
	Treatment           string      `json:"treatment,omitempty"`
	NextAppointmentDate *civil.Date `json:"nextAppointmentDate,omitempty"`
	Notes               string      `json:"notes"`
	FollowUpRequired    bool        `json:"followUpRequired"`
}

func (r *UpsertIncidentRequest) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(r.PatientID) == "" {
		errs.Add("patientId", "Patient is required")
	}
	if strings.TrimSpace(r.Title) == "" {
		errs.Add("title", "Title is required")
	}
	if strings.TrimSpace(r.Description) == "" {
		errs.Add("description", "Description is required")
	}
	if strings.TrimSpace(r.DentistID) == "" {
		errs.Add("dentistId", "Dentist is required")
	}
	if r.Category == "" {
		errs.Add("category", "Category is required")
	} else if !r.Category.valid() {
		errs.Add("category", "Invalid category")
	}
	if r.Severity == "" {
		errs.Add("severity", "Severity is required")
	} else if !r.Severity.valid() {
		errs.Add("severity", "Invalid severity")
	}
	if r.Priority == "" {
		errs.Add("priority", "Priority is required")
	} else if !r.Priority.valid() {
		errs.Add("priority", "Invalid priority")
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
	Search   string
	Status   Status
	Severity Severity
	Category Category
}

func (f ListFilter) matches(in *Incident) bool {
	if f.Status != "" && in.Status != f.Status {
		return false
	}
	if f.Severity != "" && in.Severity != f.Severity {
		return false
	}
	if f.Category != "" && in.Category != f.Category {
		return false
	}
	if f.Search == "" {
		return true
	}
	q := strings.ToLower(f.Search)
	for _, field := range []string{in.Title, in.Description, in.PatientName, in.DentistName} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
