// Package portal is the patient-facing slice of the API: a logged-in
// patient sees their own record, visits and bills, and can book visits.
package portal

import (
	"context"
	"errors"
	"sort"

	"go.opentelemetry.io/otel"

	"github.com/dentalcenter/practice-api/internal/appointments"
	"github.com/dentalcenter/practice-api/internal/auth"
	"github.com/dentalcenter/practice-api/internal/civil"
	"github.com/dentalcenter/practice-api/internal/invoices"
	"github.com/dentalcenter/practice-api/internal/patients"
	"github.com/dentalcenter/practice-api/internal/treatments"
	"github.com/dentalcenter/practice-api/pkg/logging"
)

var portalTracer = otel.Tracer("dentalcenter.internal.portal")

// ErrNoPatientRecord means the logged-in user has no matching Patient.
var ErrNoPatientRecord = errors.New("no patient record for this account")

// Dashboard is everything the portal landing page shows.
type Dashboard struct {
	Patient      *patients.Patient           `json:"patient"`
	Appointments []*appointments.Appointment `json:"appointments"`
	Upcoming     []*appointments.Appointment `json:"upcoming"`
	Treatments   []*treatments.Treatment     `json:"treatments"`
	Invoices     []*invoices.Invoice         `json:"invoices"`
}

// ConfirmationMailer sends the booking confirmation email. The notify
// package's Mailer satisfies it.
type ConfirmationMailer interface {
	SendAppointmentConfirmation(ctx context.Context, toEmail, toName, dentistName, date, timeOfDay string) error
}

// Service resolves a session profile to its patient record and serves
// patient-scoped reads and bookings.
type Service struct {
	patients     patients.Repository
	appointments appointments.Repository
	booking      *appointments.Service
	treatments   treatments.Repository
	invoices     invoices.Repository
	mailer       ConfirmationMailer
	logger       *logging.Logger
	today        func() civil.Date
}

func NewService(
	patientRepo patients.Repository,
	apptRepo appointments.Repository,
	booking *appointments.Service,
	treatmentRepo treatments.Repository,
	invoiceRepo invoices.Repository,
	logger *logging.Logger,
) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		patients:     patientRepo,
		appointments: apptRepo,
		booking:      booking,
		treatments:   treatmentRepo,
		invoices:     invoiceRepo,
		logger:       logger,
		today:        civil.Today,
	}
}

// WithMailer enables booking confirmation emails.
func (s *Service) WithMailer(m ConfirmationMailer) *Service {
	s.mailer = m
	return s
}

// ResolvePatient matches the session profile to a Patient, first by email,
// then by full name. User accounts and patient records are separate
// collections, so the match is heuristic.
func (s *Service) ResolvePatient(ctx context.Context, profile *auth.Profile) (*patients.Patient, error) {
	if p, err := s.patients.FindByEmail(ctx, profile.Email); err == nil {
		return p, nil
	}

	all, err := s.patients.List(ctx, patients.ListFilter{})
	if err != nil {
		return nil, err
	}
	fullName := profile.FullName()
	for _, p := range all {
		if p.FullName() == fullName {
			return p, nil
		}
	}
	return nil, ErrNoPatientRecord
}

// Dashboard builds the portal landing page for the logged-in patient.
// Upcoming holds scheduled or confirmed visits from today onward, soonest
// first.
func (s *Service) Dashboard(ctx context.Context, profile *auth.Profile) (*Dashboard, error) {
	ctx, span := portalTracer.Start(ctx, "portal.dashboard")
	defer span.End()

	patient, err := s.ResolvePatient(ctx, profile)
	if err != nil {
		return nil, err
	}

	appts, err := s.appointments.ListForPatient(ctx, patient.ID, patient.FullName())
	if err != nil {
		return nil, err
	}

	today := s.today()
	var upcoming []*appointments.Appointment
	for _, a := range appts {
		if !a.Date.Before(today) && a.Status.Active() {
			upcoming = append(upcoming, a)
		}
	}
	sort.Slice(upcoming, func(i, j int) bool {
		if upcoming[i].Date != upcoming[j].Date {
			return upcoming[i].Date.Before(upcoming[j].Date)
		}
		return upcoming[i].Time < upcoming[j].Time
	})

	treats, err := s.treatments.ListForPatient(ctx, patient.ID, patient.FullName())
	if err != nil {
		return nil, err
	}

	bills, err := s.invoices.ListForPatient(ctx, patient.ID, patient.FullName())
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Patient:      patient,
		Appointments: appts,
		Upcoming:     upcoming,
		Treatments:   treats,
		Invoices:     bills,
	}, nil
}

// Book creates an appointment for the logged-in patient. The patient id
// always comes from the session, never the request body.
func (s *Service) Book(ctx context.Context, profile *auth.Profile, req *appointments.BookRequest) (*appointments.Appointment, error) {
	ctx, span := portalTracer.Start(ctx, "portal.book")
	defer span.End()

	patient, err := s.ResolvePatient(ctx, profile)
	if err != nil {
		return nil, err
	}

	req.PatientID = patient.ID
	a, err := s.booking.Book(ctx, req)
	if err != nil {
		return nil, err
	}
	s.logger.Info("portal booking", "patient", patient.FullName(), "appointment", a.ID)

	if s.mailer != nil {
		// A failed email never unwinds a booked appointment.
		if err := s.mailer.SendAppointmentConfirmation(ctx, patient.Email, patient.FullName(),
			a.DentistName, a.Date.String(), a.Time); err != nil {
			s.logger.Error("failed to send booking confirmation", "error", err, "appointment", a.ID)
		}
	}
	return a, nil
}

// WithToday overrides the clock for tests.
func (s *Service) WithToday(today func() civil.Date) *Service {
	s.today = today
	return s
}
