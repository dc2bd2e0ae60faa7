package treatments

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/dentalcenter/practice-api/internal/patients"
	"github.com/dentalcenter/practice-api/internal/staff"
	"github.com/dentalcenter/practice-api/pkg/logging"
)

var treatmentsTracer = otel.Tracer("dentalcenter.internal.treatments")

// Service owns treatment writes and stamps display names, mirroring the
// appointments service.
type Service struct {
	repo     Repository
	patients patients.Repository
	staff    staff.Repository
	logger   *logging.Logger
}

func NewService(repo Repository, patientRepo patients.Repository, staffRepo staff.Repository, logger *logging.Logger) *Service {
	if repo == nil {
		panic("treatments: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:     repo,
		patients: patientRepo,
		staff:    staffRepo,
		logger:   logger,
	}
}

func (s *Service) stamp(ctx context.Context, t *Treatment) error {
	p, err := s.patients.GetByID(ctx, t.PatientID)
	if err != nil {
		return ErrUnknownPatient
	}
	d, err := s.staff.GetByID(ctx, t.DentistID)
	if err != nil {
		return ErrUnknownDentist
	}
	t.PatientName = p.FullName()
	t.DentistName = d.FullName()
	return nil
}

// Create validates and records a new treatment. The status defaults to
// planned when the form leaves it blank.
func (s *Service) Create(ctx context.Context, req *UpsertTreatmentRequest) (*Treatment, error) {
	ctx, span := treatmentsTracer.Start(ctx, "treatments.create")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	t := &Treatment{
		PatientID:        req.PatientID,
		DentistID:        req.DentistID,
		Date:             req.Date,
		Procedure:        req.Procedure,
		Description:      req.Description,
		Cost:             req.Cost,
		Status:           req.Status,
		Notes:            req.Notes,
		FollowUpRequired: req.FollowUpRequired,
		FollowUpDate:     req.FollowUpDate,
	}
	if t.Status == "" {
		t.Status = StatusPlanned
	}
	if err := s.stamp(ctx, t); err != nil {
		return nil, err
	}

	created, err := s.repo.Insert(ctx, t)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("dental.treatment_id", created.ID))
	s.logger.Info("treatment recorded",
		"id", created.ID,
		"patient", created.PatientName,
		"procedure", created.Procedure,
		"cost", created.Cost,
	)
	return created, nil
}

// Update rewrites a treatment from the form, preserving its id and
// re-stamping the display names.
func (s *Service) Update(ctx context.Context, id string, req *UpsertTreatmentRequest) (*Treatment, error) {
	ctx, span := treatmentsTracer.Start(ctx, "treatments.update")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	t := &Treatment{
		ID:               existing.ID,
		PatientID:        req.PatientID,
		DentistID:        req.DentistID,
		Date:             req.Date,
		Procedure:        req.Procedure,
		Description:      req.Description,
		Cost:             req.Cost,
		Status:           req.Status,
		Notes:            req.Notes,
		FollowUpRequired: req.FollowUpRequired,
		FollowUpDate:     req.FollowUpDate,
	}
	if t.Status == "" {
		t.Status = existing.Status
	}
	if err := s.stamp(ctx, t); err != nil {
		return nil, err
	}

	return s.repo.Replace(ctx, t)
}

// SetStatus moves a treatment to the given lifecycle state. Any transition
// between valid states is allowed.
func (s *Service) SetStatus(ctx context.Context, id string, status Status) (*Treatment, error) {
	t, err := s.repo.SetStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.logger.Info("treatment status changed", "id", id, "status", status)
	return t, nil
}
