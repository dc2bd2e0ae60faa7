// Package dashboard aggregates practice metrics for the admin landing page.
package dashboard

import (
	"context"

	"github.com/dentalcenter/practice-api/internal/appointments"
	"github.com/dentalcenter/practice-api/internal/civil"
	"github.com/dentalcenter/practice-api/internal/invoices"
	"github.com/dentalcenter/practice-api/internal/patients"
	"github.com/dentalcenter/practice-api/internal/treatments"
	"github.com/dentalcenter/practice-api/pkg/logging"
)

// Stats summarizes the practice for the dashboard cards.
type Stats struct {
	TodaysAppointments  int        `json:"todaysAppointments"`
	ActivePatients      int        `json:"activePatients"`
	CompletedTreatments int        `json:"completedTreatments"`
	MonthlyRevenue      float64    `json:"monthlyRevenue"`
	Date                civil.Date `json:"date"`
}

// Overview bundles the stats with today's schedule.
type Overview struct {
	Stats        Stats                       `json:"stats"`
	Appointments []*appointments.Appointment `json:"todaysSchedule"`
}

// Service computes dashboard aggregates by querying each repository.
type Service struct {
	patients     patients.Repository
	appointments appointments.Repository
	treatments   treatments.Repository
	invoices     invoices.Repository
	logger       *logging.Logger
	today        func() civil.Date
}

func NewService(
	patientRepo patients.Repository,
	apptRepo appointments.Repository,
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
		treatments:   treatmentRepo,
		invoices:     invoiceRepo,
		logger:       logger,
		today:        civil.Today,
	}
}

// Overview returns the stats cards plus today's appointment list. Monthly
// revenue sums paid invoice totals dated in the current calendar month.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	today := s.today()

	todays, err := s.appointments.ListByDate(ctx, today)
	if err != nil {
		return nil, err
	}

	allPatients, err := s.patients.List(ctx, patients.ListFilter{})
	if err != nil {
		return nil, err
	}

	completed, err := s.treatments.List(ctx, treatments.ListFilter{Status: treatments.StatusCompleted})
	if err != nil {
		return nil, err
	}

	monthStart := civil.Date{Year: today.Year, Month: today.Month, Day: 1}
	monthEnd := monthStart.AddMonths(1).AddDays(-1)
	revenue, err := s.invoices.PaidTotalBetween(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	return &Overview{
		Stats: Stats{
			TodaysAppointments:  len(todays),
			ActivePatients:      len(allPatients),
			CompletedTreatments: len(completed),
			MonthlyRevenue:      revenue,
			Date:                today,
		},
		Appointments: todays,
	}, nil
}

// WithToday overrides the clock for tests.
func (s *Service) WithToday(today func() civil.Date) *Service {
	s.today = today
	return s
}
