package incidents

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/dentalcenter/practice-api/internal/blobstore"
	"github.com/dentalcenter/practice-api/internal/patients"
	"github.com/dentalcenter/practice-api/internal/staff"
	"github.com/dentalcenter/practice-api/pkg/logging"
)

var incidentsTracer = otel.Tracer("dentalcenter.internal.incidents")

// Service owns incident writes and attachment storage. Display names are
// stamped on write; file bytes live in the blob store, only descriptors on
// the record.
type Service struct {
	repo     Repository
	patients patients.Repository
	staff    staff.Repository
	files    blobstore.Store
	logger   *logging.Logger
	now      func() time.Time
}

func NewService(repo Repository, patientRepo patients.Repository, staffRepo staff.Repository, files blobstore.Store, logger *logging.Logger) *Service {
	if repo == nil {
		panic("incidents: repository required")
	}
	if files == nil {
		files = blobstore.NewMemoryStore()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:     repo,
		patients: patientRepo,
		staff:    staffRepo,
		files:    files,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Service) stamp(ctx context.Context, in *Incident) error {
	p, err := s.patients.GetByID(ctx, in.PatientID)
	if err != nil {
		return ErrUnknownPatient
	}
	d, err := s.staff.GetByID(ctx, in.DentistID)
	if err != nil {
		return ErrUnknownDentist
	}
	in.PatientName = p.FullName()
	in.DentistName = d.FullName()
	return nil
}

// Create validates and records a new incident. The status defaults to open.
func (s *Service) Create(ctx context.Context, req *UpsertIncidentRequest) (*Incident, error) {
	ctx, span := incidentsTracer.Start(ctx, "incidents.create")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	in := &Incident{
		PatientID:           req.PatientID,
		AppointmentID:       req.AppointmentID,
		Title:               req.Title,
		Description:         req.Description,
		Category:            req.Category,
		Severity:            req.Severity,
		Priority:            req.Priority,
		Status:              req.Status,
		DentistID:           req.DentistID,
		CreatedAt:           now,
		UpdatedAt:           now,
		Cost:                req.Cost,
		Treatment:           req.Treatment,
		NextAppointmentDate: req.NextAppointmentDate,
		Files:               []IncidentFile{},
		Notes:               req.Notes,
		FollowUpRequired:    req.FollowUpRequired,
	}
	if in.Status == "" {
		in.Status = StatusOpen
	}
	if err := s.stamp(ctx, in); err != nil {
		return nil, err
	}

	created, err := s.repo.Insert(ctx, in)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("dental.incident_id", created.ID))
	s.logger.Info("incident recorded",
		"id", created.ID,
		"patient", created.PatientName,
		"severity", created.Severity,
		"priority", created.Priority,
	)
	return created, nil
}

// Update rewrites an incident from the form, preserving its id, creation
// time and attachments, and re-stamping the display names.
func (s *Service) Update(ctx context.Context, id string, req *UpsertIncidentRequest) (*Incident, error) {
	ctx, span := incidentsTracer.Start(ctx, "incidents.update")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	in := &Incident{
		ID:                  existing.ID,
		PatientID:           req.PatientID,
		AppointmentID:       req.AppointmentID,
		Title:               req.Title,
		Description:         req.Description,
		Category:            req.Category,
		Severity:            req.Severity,
		Priority:            req.Priority,
		Status:              req.Status,
		DentistID:           req.DentistID,
		CreatedAt:           existing.CreatedAt,
		UpdatedAt:           s.now().UTC(),
		ResolvedAt:          existing.ResolvedAt,
		Cost:                req.Cost,
		Treatment:           req.Treatment,
		NextAppointmentDate: req.NextAppointmentDate,
		Files:               existing.Files,
		Notes:               req.Notes,
		FollowUpRequired:    req.FollowUpRequired,
	}
	if in.Status == "" {
		in.Status = existing.Status
	}
	if err := s.stamp(ctx, in); err != nil {
		return nil, err
	}

	return s.repo.Replace(ctx, in)
}

// SetStatus moves an incident through its workflow. Resolving stamps
// resolvedAt; reopening clears it.
func (s *Service) SetStatus(ctx context.Context, id string, status Status) (*Incident, error) {
	if !status.valid() {
		return nil, ErrInvalidStatus
	}

	in, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	in.Status = status
	in.UpdatedAt = now
	switch status {
	case StatusResolved, StatusClosed:
		if in.ResolvedAt == nil {
			in.ResolvedAt = &now
		}
	default:
		in.ResolvedAt = nil
	}

	updated, err := s.repo.Replace(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logger.Info("incident status changed", "id", id, "status", status)
	return updated, nil
}

// AttachFile stores the upload in the blob store and appends a descriptor
// to the incident. The display type is inferred from the file name.
func (s *Service) AttachFile(ctx context.Context, incidentID, fileName, contentType string, data []byte) (*Incident, error) {
	ctx, span := incidentsTracer.Start(ctx, "incidents.attach_file")
	defer span.End()

	in, err := s.repo.GetByID(ctx, incidentID)
	if err != nil {
		return nil, err
	}

	fileID := uuid.New().String()
	key := fmt.Sprintf("incidents/%s/%s/%s", incidentID, fileID, fileName)
	if err := s.files.Put(ctx, key, contentType, data); err != nil {
		span.RecordError(err)
		return nil, err
	}

	in.Files = append(in.Files, IncidentFile{
		ID:         fileID,
		Name:       fileName,
		Type:       InferFileType(fileName),
		Size:       int64(len(data)),
		UploadedAt: s.now().UTC(),
		BlobKey:    key,
	})
	in.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Replace(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logger.Info("incident file attached", "incident", incidentID, "file", fileName, "bytes", len(data))
	return updated, nil
}

// OpenFile resolves an attachment's bytes from the blob store.
func (s *Service) OpenFile(ctx context.Context, incidentID, fileID string) (*IncidentFile, *blobstore.Blob, error) {
	in, err := s.repo.GetByID(ctx, incidentID)
	if err != nil {
		return nil, nil, err
	}
	for i := range in.Files {
		if in.Files[i].ID == fileID {
			blob, err := s.files.Get(ctx, in.Files[i].BlobKey)
			if err != nil {
				return nil, nil, err
			}
			return &in.Files[i], blob, nil
		}
	}
	return nil, nil, ErrFileNotFound
}

// RemoveFile deletes an attachment descriptor and its stored bytes.
func (s *Service) RemoveFile(ctx context.Context, incidentID, fileID string) (*Incident, error) {
	in, err := s.repo.GetByID(ctx, incidentID)
	if err != nil {
		return nil, err
	}

	for i, f := range in.Files {
		if f.ID == fileID {
			if err := s.files.Delete(ctx, f.BlobKey); err != nil {
				s.logger.Warn("failed to delete blob", "key", f.BlobKey, "error", err)
			}
			in.Files = append(in.Files[:i], in.Files[i+1:]...)
			in.UpdatedAt = s.now().UTC()
			return s.repo.Replace(ctx, in)
		}
	}
	return nil, ErrFileNotFound
}

// WithNow overrides the clock for tests.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}
