package appointments

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/dentalcenter/practice-api/internal/civil"
	"github.com/dentalcenter/practice-api/internal/patients"
	"github.com/dentalcenter/practice-api/internal/staff"
	"github.com/dentalcenter/practice-api/pkg/logging"
)

var appointmentsTracer = otel.Tracer("dentalcenter.internal.appointments")

// Service owns appointment writes. It is the single place where denormalized
// patient and dentist display names are stamped onto the record.
type Service struct {
	repo     Repository
	patients patients.Repository
	staff    staff.Repository
	logger   *logging.Logger
	today    func() civil.Date
}

// NewService constructs an appointments service.
func NewService(repo Repository, patientRepo patients.Repository, staffRepo staff.Repository, logger *logging.Logger) *Service {
	if repo == nil {
		panic("appointments: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:     repo,
		patients: patientRepo,
		staff:    staffRepo,
		logger:   logger,
		today:    civil.Today,
	}
}

// stamp resolves the patient and dentist ids and writes their current
// display names onto the appointment.
func (s *Service) stamp(ctx context.Context, a *Appointment) error {
	p, err := s.patients.GetByID(ctx, a.PatientID)
	if err != nil {
		return ErrUnknownPatient
	}
	d, err := s.staff.GetByID(ctx, a.DentistID)
	if err != nil {
		return ErrUnknownDentist
	}
	a.PatientName = p.FullName()
	a.DentistName = d.FullName()
	return nil
}

// Book validates and creates a new scheduled appointment. Dates before today
// are rejected before any state changes.
func (s *Service) Book(ctx context.Context, req *BookRequest) (*Appointment, error) {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.book")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Date.Before(s.today()) {
		return nil, ErrPastDate
	}

	a := &Appointment{
		PatientID:     req.PatientID,
		DentistID:     req.DentistID,
		Date:          req.Date,
		Time:          req.Time,
		Duration:      req.Duration,
		Type:          req.Type,
		Status:        StatusScheduled,
		Notes:         req.Notes,
		TreatmentPlan: req.TreatmentPlan,
	}
	if err := s.stamp(ctx, a); err != nil {
		return nil, err
	}

	created, err := s.repo.Insert(ctx, a)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("dental.appointment_id", created.ID))
	s.logger.Info("appointment booked",
		"id", created.ID,
		"patient", created.PatientName,
		"dentist", created.DentistName,
		"date", created.Date.String(),
	)
	return created, nil
}

// Update rewrites an appointment from the booking form, preserving its id
// and status and re-stamping the display names.
func (s *Service) Update(ctx context.Context, id string, req *BookRequest) (*Appointment, error) {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.update")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	a := &Appointment{
		ID:            existing.ID,
		PatientID:     req.PatientID,
		DentistID:     req.DentistID,
		Date:          req.Date,
		Time:          req.Time,
		Duration:      req.Duration,
		Type:          req.Type,
		Status:        existing.Status,
		Notes:         req.Notes,
		TreatmentPlan: req.TreatmentPlan,
	}
	if err := s.stamp(ctx, a); err != nil {
		return nil, err
	}

	return s.repo.Replace(ctx, a)
}

// SetStatus applies a status action (confirm, complete, cancel, no-show).
func (s *Service) SetStatus(ctx context.Context, id string, status Status) (*Appointment, error) {
	a, err := s.repo.SetStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.logger.Info("appointment status changed", "id", id, "status", status)
	return a, nil
}

// WithToday overrides the clock; tests use it to pin the past-date check.
func (s *Service) WithToday(today func() civil.Date) *Service {
	s.today = today
	return s
}
